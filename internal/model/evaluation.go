package model

// EvaluationResult is the normalized verdict on a single user answer.
// One per user turn; consumed immediately by the decision policy.
type EvaluationResult struct {
	HasEnoughDetail       bool     `json:"hasEnoughDetail"`
	DetailScore           int      `json:"detailScore"` // 1-10
	FollowUpQuestion      string   `json:"followUpQuestion,omitempty"`
	Reasoning             string   `json:"reasoning,omitempty"`
	SuggestedImprovements []string `json:"suggestedImprovements,omitempty"`
}

// EvaluationContext is the accumulated context threaded into every
// evaluation and generation call
type EvaluationContext struct {
	BusinessIdea    string            `json:"businessIdea,omitempty"`
	Industry        Category          `json:"industry,omitempty"`
	BusinessStage   Stage             `json:"businessStage,omitempty"`
	PreviousAnswers map[string]string `json:"previousAnswers,omitempty"`
}

// FollowUpGeneration is the AI response for follow-up question generation
type FollowUpGeneration struct {
	FollowUpQuestion string `json:"followUpQuestion"`
	Reasoning        string `json:"reasoning,omitempty"`
}
