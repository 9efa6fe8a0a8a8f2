package model

import "time"

// MessageRole identifies who authored a message in a segment's log
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry in a segment's append-only conversation log
type Message struct {
	ID        string      `json:"id" bson:"id"`
	Role      MessageRole `json:"role" bson:"role"`
	Content   string      `json:"content" bson:"content"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// Segment is one topical unit of the interview (e.g. "the business idea").
// Created once at engine initialization, mutated only by the state machine,
// never deleted, only marked complete.
type Segment struct {
	ID              string          `json:"id" bson:"id"`
	Title           string          `json:"title" bson:"title"`
	InitialQuestion string          `json:"initialQuestion" bson:"initialQuestion"`
	Messages        []Message       `json:"messages" bson:"messages"`
	IsComplete      bool            `json:"isComplete" bson:"isComplete"`
	FollowUpCount   int             `json:"followUpCount" bson:"followUpCount"`
	MaxFollowUps    int             `json:"maxFollowUps" bson:"maxFollowUps"`
	Context         ContextFragment `json:"context" bson:"context"`
	FinalAnswer     string          `json:"finalAnswer" bson:"finalAnswer"`
}

// LastUserAnswer returns the content of the most recent user message, or ""
func (s *Segment) LastUserAnswer() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}
