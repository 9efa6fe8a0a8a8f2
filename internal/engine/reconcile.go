package engine

import (
	"strings"
	"time"

	"caseintake/internal/model"
)

// Reconcile rebuilds interview state from a persisted draft snapshot.
//
// Segments are walked in configured order: each one with a snapshot answer
// is marked complete with a synthesized [initialQuestion, answer] log, and
// context is propagated from the first segment with usable text. The first
// segment lacking an answer becomes the resume point.
//
// A snapshot with answers for every segment is treated as abandoned rather
// than resumable, since resuming it would re-trigger submission on stale
// data; a fresh interview is returned instead. Absent or partial snapshot
// fields are never an error; they just mean "not yet answered".
//
// Reconciling the same snapshot twice yields the same resume index and
// segment contents.
func Reconcile(sessionID string, cfg []SegmentConfig, snapshot *model.DraftSnapshot) *model.InterviewState {
	state := NewInterview(sessionID, cfg)
	if snapshot == nil || len(snapshot.PerSegmentAnswers) == 0 {
		return state
	}

	answered := 0
	for _, sc := range cfg {
		if answer, ok := snapshot.PerSegmentAnswers[sc.ID]; ok && strings.TrimSpace(answer) != "" {
			answered++
		}
	}
	if answered == len(cfg) {
		// Fully answered draft: start a fresh pass.
		return state
	}

	resume := -1
	for i := range state.Segments {
		seg := &state.Segments[i]
		answer, ok := snapshot.PerSegmentAnswers[seg.ID]
		if !ok || strings.TrimSpace(answer) == "" {
			if resume == -1 {
				resume = i
			}
			continue
		}

		seg.Messages = []model.Message{
			newMessage(model.RoleAssistant, seg.InitialQuestion),
			newMessage(model.RoleUser, answer),
		}
		seg.IsComplete = true
		seg.FinalAnswer = strings.TrimSpace(answer)

		state.Context = MergeContext(state.Context, FragmentFromAnswer(seg.ID, answer))
		seg.Context = state.Context
	}

	if resume == -1 {
		resume = 0
	}
	state.CurrentIndex = resume
	state.UpdatedAt = time.Now()
	return state
}
