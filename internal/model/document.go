package model

import "time"

// ProposedSolution is one initiative in the generated business case
type ProposedSolution struct {
	Title   string   `json:"title" bson:"title"`
	Effort  string   `json:"effort" bson:"effort"` // low | medium | high
	Impact  string   `json:"impact" bson:"impact"` // low | medium | high
	Actions []string `json:"actions" bson:"actions"`
}

// GeneratedDocument is the business case assembled from the interview
// answers by the generation collaborator. This is the schema the quality
// gate validates.
type GeneratedDocument struct {
	ID                string             `json:"id" bson:"_id,omitempty"`
	SessionID         string             `json:"sessionId" bson:"sessionId"`
	Title             string             `json:"title" bson:"title"`
	ProblemStatement  string             `json:"problemStatement" bson:"problemStatement"`
	Objectives        []string           `json:"objectives" bson:"objectives"`
	CurrentState      string             `json:"currentState" bson:"currentState"`
	ProposedSolutions []ProposedSolution `json:"proposedSolutions" bson:"proposedSolutions"`
	ExpectedOutcomes  []string           `json:"expectedOutcomes" bson:"expectedOutcomes"`
	NextSteps         []string           `json:"nextSteps" bson:"nextSteps"`
	RiskAssessment    string             `json:"riskAssessment" bson:"riskAssessment"`
	GeneratedAt       time.Time          `json:"generatedAt" bson:"generatedAt"`
}

// QualityCheckResult is the quality gate's verdict on a generated document.
// A low score is a normal outcome, not an error.
type QualityCheckResult struct {
	Passed          bool     `json:"passed" bson:"passed"`
	Score           float64  `json:"score" bson:"score"` // clamped to [1,10]
	Issues          []string `json:"issues" bson:"issues"`
	Suggestions     []string `json:"suggestions" bson:"suggestions"`
	MissingElements []string `json:"missingElements" bson:"missingElements"`
}
