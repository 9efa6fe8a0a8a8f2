package model

import "time"

// DraftSnapshot is the externally persisted partial submission. Written by
// the autosave path on a timer, read once at session start by draft
// reconciliation. Absent fields mean "segment not yet answered".
type DraftSnapshot struct {
	SessionID         string            `json:"sessionId" bson:"_id"`
	PerSegmentAnswers map[string]string `json:"perSegmentAnswers" bson:"perSegmentAnswers"`
	Selections        []string          `json:"selections,omitempty" bson:"selections,omitempty"`
	CurrentStepHint   string            `json:"currentStepHint,omitempty" bson:"currentStepHint,omitempty"`
	LastSavedAt       time.Time         `json:"lastSavedAt" bson:"lastSavedAt"`
}
