package model

import "time"

// Submission is the persisted record of a completed interview: the frozen
// answer set, the inferred context, and the quality verdict of the
// generated document.
type Submission struct {
	ID          string             `json:"id" bson:"_id,omitempty"`
	SessionID   string             `json:"sessionId" bson:"sessionId"`
	Answers     map[string]string  `json:"answers" bson:"answers"`
	Context     ContextFragment    `json:"context" bson:"context"`
	DocumentID  string             `json:"documentId" bson:"documentId"`
	Quality     QualityCheckResult `json:"quality" bson:"quality"`
	SubmittedAt time.Time          `json:"submittedAt" bson:"submittedAt"`
}
