package model

// StartSessionRequest begins a new interview, optionally resuming a draft
type StartSessionRequest struct {
	ResumeToken string `json:"resumeToken,omitempty"`
}

// StartSessionResponse returns the session token and the opening question
type StartSessionResponse struct {
	SessionID   string          `json:"sessionId"`
	Token       string          `json:"token"`
	ResumeToken string          `json:"resumeToken"`
	Segment     *Segment        `json:"segment,omitempty"`
	Resumed     bool            `json:"resumed"`
	Status      InterviewStatus `json:"status"`
}

// SubmitAnswerRequest carries one user turn for the current segment
type SubmitAnswerRequest struct {
	SegmentID string `json:"segmentId"`
	Answer    string `json:"answer"`
}

// SubmitAnswerResponse is the resolved outcome of an answer turn
type SubmitAnswerResponse struct {
	SegmentID        string          `json:"segmentId"`
	Verdict          string          `json:"verdict"` // mandatory_followup | optional_followup | advance
	FollowUpQuestion string          `json:"followUpQuestion,omitempty"`
	NextSegment      *Segment        `json:"nextSegment,omitempty"`
	Status           InterviewStatus `json:"status"`
}

// SaveDraftRequest stores a partial answer for a segment
type SaveDraftRequest struct {
	Answer     string   `json:"answer"`
	Selections []string `json:"selections,omitempty"`
}

// EditAnswerRequest replaces a completed segment's answer during review
type EditAnswerRequest struct {
	Answer string `json:"answer"`
}

// SubmitInterviewResponse is returned once the document is generated and gated
type SubmitInterviewResponse struct {
	DocumentID string              `json:"documentId"`
	Document   *GeneratedDocument  `json:"document"`
	Quality    *QualityCheckResult `json:"quality"`
}
