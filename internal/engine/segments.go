package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"caseintake/internal/model"
)

var (
	ErrNotActive        = errors.New("interview is not accepting answers")
	ErrWrongSegment     = errors.New("answer is not for the current segment")
	ErrNotInReview      = errors.New("interview is not in review")
	ErrAlreadySubmitted = errors.New("interview already submitted")
	ErrSegmentNotFound  = errors.New("segment not found")
)

// SegmentConfig declares one interview topic
type SegmentConfig struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	InitialQuestion string `json:"initialQuestion"`
	MaxFollowUps    int    `json:"maxFollowUps"`
}

// DefaultSegments is the configured interview: five topics, asked in order.
func DefaultSegments() []SegmentConfig {
	return []SegmentConfig{
		{
			ID:              "business-idea",
			Title:           "The Business Idea",
			InitialQuestion: "Tell us about your business. What do you do, and who are your customers?",
			MaxFollowUps:    2,
		},
		{
			ID:              "challenges",
			Title:           "Current Challenges",
			InitialQuestion: "What are the biggest challenges your business is facing right now?",
			MaxFollowUps:    2,
		},
		{
			ID:              "objectives",
			Title:           "Goals and Objectives",
			InitialQuestion: "What do you want to achieve in the next one to two years? Be as concrete as you can.",
			MaxFollowUps:    2,
		},
		{
			ID:              "current-state",
			Title:           "Current Digital State",
			InitialQuestion: "How do you work today? Which tools and systems do you already use?",
			MaxFollowUps:    1,
		},
		{
			ID:              "resources",
			Title:           "Resources and Constraints",
			InitialQuestion: "What budget, time, and people can you commit to this? Any constraints we should know about?",
			MaxFollowUps:    1,
		},
	}
}

// DefaultRules returns the per-segment decision thresholds. The opening
// segments demand the most detail; later segments accept shorter answers.
func DefaultRules() map[string]SegmentRule {
	return map[string]SegmentRule{
		"business-idea": {DetailThreshold: 7, MaxResponseLength: 150},
		"challenges":    {DetailThreshold: 7, MaxResponseLength: 200},
		"objectives":    {DetailThreshold: 6, MaxResponseLength: 250},
		"current-state": {DetailThreshold: 5, MaxResponseLength: 300},
		"resources":     {DetailThreshold: 5, MaxResponseLength: 400},
	}
}

// NewInterview builds a fresh interview aggregate from configuration.
func NewInterview(sessionID string, cfg []SegmentConfig) *model.InterviewState {
	now := time.Now()
	segments := make([]model.Segment, 0, len(cfg))
	for _, sc := range cfg {
		segments = append(segments, model.Segment{
			ID:              sc.ID,
			Title:           sc.Title,
			InitialQuestion: sc.InitialQuestion,
			MaxFollowUps:    sc.MaxFollowUps,
			Messages: []model.Message{
				newMessage(model.RoleAssistant, sc.InitialQuestion),
			},
		})
	}
	return &model.InterviewState{
		SessionID:    sessionID,
		Segments:     segments,
		CurrentIndex: 0,
		Status:       model.InterviewActive,
		StartedAt:    now,
		UpdatedAt:    now,
	}
}

// AppendUserAnswer records one user turn on the current segment and merges
// any context inferred from it. Returns the mutated current segment.
func AppendUserAnswer(state *model.InterviewState, segmentID, answer string) (*model.Segment, error) {
	seg := state.CurrentSegment()
	if seg == nil {
		if state.Status == model.InterviewSubmitted {
			return nil, ErrAlreadySubmitted
		}
		return nil, ErrNotActive
	}
	if seg.ID != segmentID {
		return nil, fmt.Errorf("%w: current is %q, got %q", ErrWrongSegment, seg.ID, segmentID)
	}

	seg.Messages = append(seg.Messages, newMessage(model.RoleUser, answer))

	fragment := FragmentFromAnswer(seg.ID, answer)
	state.Context = MergeContext(state.Context, fragment)
	seg.Context = state.Context

	state.Turn++
	state.UpdatedAt = time.Now()
	return seg, nil
}

// ApplyVerdict transitions the current segment according to the decision
// policy's verdict. A follow-up verdict appends the follow-up question and
// spends budget; advance freezes the final answer and moves on. When the
// last segment advances the interview enters review.
func ApplyVerdict(state *model.InterviewState, verdict Verdict, followUpQuestion string) error {
	seg := state.CurrentSegment()
	if seg == nil {
		return ErrNotActive
	}

	switch verdict {
	case VerdictMandatoryFollowUp, VerdictOptionalFollowUp:
		if seg.FollowUpCount >= seg.MaxFollowUps {
			// The policy enforces the budget before issuing a follow-up;
			// reaching this is a defect, not a user error.
			return fmt.Errorf("follow-up budget exceeded for segment %q", seg.ID)
		}
		if followUpQuestion == "" {
			// Generation collaborator failed: degrade to advance,
			// never block progress.
			return ApplyVerdict(state, VerdictAdvance, "")
		}
		seg.Messages = append(seg.Messages, newMessage(model.RoleAssistant, followUpQuestion))
		seg.FollowUpCount++

	case VerdictAdvance:
		seg.IsComplete = true
		seg.FinalAnswer = collectAnswers(seg)
		// Skip over segments a reconciled draft already completed.
		next := state.CurrentIndex + 1
		for next < len(state.Segments) && state.Segments[next].IsComplete {
			next++
		}
		if next >= len(state.Segments) {
			state.Status = model.InterviewReview
		} else {
			state.CurrentIndex = next
		}

	default:
		return fmt.Errorf("unknown verdict %q", verdict)
	}

	state.UpdatedAt = time.Now()
	return nil
}

// Reopen returns a completed segment to an editable view during review.
// The follow-up counter and message log are preserved; only a committed
// edit changes the final answer, and no re-evaluation runs.
func Reopen(state *model.InterviewState, segmentID string) (*model.Segment, error) {
	if state.Status == model.InterviewSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if state.Status != model.InterviewReview {
		return nil, ErrNotInReview
	}
	for i := range state.Segments {
		if state.Segments[i].ID == segmentID {
			return &state.Segments[i], nil
		}
	}
	return nil, ErrSegmentNotFound
}

// CommitEdit replaces a segment's final answer during review
func CommitEdit(state *model.InterviewState, segmentID, answer string) error {
	seg, err := Reopen(state, segmentID)
	if err != nil {
		return err
	}
	seg.Messages = append(seg.Messages, newMessage(model.RoleUser, answer))
	seg.FinalAnswer = answer
	state.UpdatedAt = time.Now()
	return nil
}

// Submit is the one-way transition out of the engine
func Submit(state *model.InterviewState) error {
	if state.Status == model.InterviewSubmitted {
		return ErrAlreadySubmitted
	}
	if state.Status != model.InterviewReview {
		return ErrNotInReview
	}
	state.Status = model.InterviewSubmitted
	state.UpdatedAt = time.Now()
	return nil
}

// collectAnswers joins every user message in the segment into the frozen
// final answer, in order.
func collectAnswers(seg *model.Segment) string {
	var parts []string
	for _, m := range seg.Messages {
		if m.Role == model.RoleUser && strings.TrimSpace(m.Content) != "" {
			parts = append(parts, strings.TrimSpace(m.Content))
		}
	}
	return strings.Join(parts, "\n\n")
}

func newMessage(role model.MessageRole, content string) model.Message {
	return model.Message{
		ID:        "m_" + uuid.New().String()[:8],
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
