package model

import "time"

// InterviewStatus is the engine-level lifecycle state
type InterviewStatus string

const (
	// InterviewActive: exactly one segment is current and accepting answers
	InterviewActive InterviewStatus = "active"
	// InterviewReview: all segments complete; segments may be reopened for edits
	InterviewReview InterviewStatus = "review"
	// InterviewSubmitted: one-way terminal state; no further changes accepted
	InterviewSubmitted InterviewStatus = "submitted"
)

// InterviewState is the full owned aggregate for one interview session.
// It is the unit of persistence in Redis and the unit that draft
// reconciliation rebuilds.
type InterviewState struct {
	SessionID    string          `json:"sessionId" bson:"sessionId"`
	Segments     []Segment       `json:"segments" bson:"segments"`
	CurrentIndex int             `json:"currentIndex" bson:"currentIndex"`
	Context      ContextFragment `json:"context" bson:"context"`
	Status       InterviewStatus `json:"status" bson:"status"`
	Turn         int             `json:"turn" bson:"turn"` // answer turns taken, echoed in progress events
	StartedAt    time.Time       `json:"startedAt" bson:"startedAt"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// CurrentSegment returns the segment accepting answers, or nil in review/submitted
func (s *InterviewState) CurrentSegment() *Segment {
	if s.Status != InterviewActive {
		return nil
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Segments) {
		return nil
	}
	return &s.Segments[s.CurrentIndex]
}

// AnswerMap returns segment ID -> final answer for every complete segment
func (s *InterviewState) AnswerMap() map[string]string {
	answers := make(map[string]string)
	for _, seg := range s.Segments {
		if seg.IsComplete && seg.FinalAnswer != "" {
			answers[seg.ID] = seg.FinalAnswer
		}
	}
	return answers
}
