package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"caseintake/internal/config"
	"caseintake/internal/model"
)

// FallbackFollowUpQuestion is asked when the evaluation collaborator is
// unavailable and the answer was too short to accept.
const FallbackFollowUpQuestion = "Could you provide a bit more detail about that?"

// fallbackMinAnswerLength is the cutoff in trimmed characters for the
// deterministic fallback: longer answers are accepted, shorter rejected.
const fallbackMinAnswerLength = 20

// EvaluatorService handles AI evaluation and generation via the Gemini API.
// Every evaluation failure degrades to a deterministic local fallback so
// the interview can never stall on a collaborator outage.
type EvaluatorService struct {
	config *config.AIConfig
	client *http.Client
}

// NewEvaluatorService creates a new evaluator service
func NewEvaluatorService(cfg *config.AIConfig) *EvaluatorService {
	return &EvaluatorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// EvaluateAnswer rates a free-text answer for sufficiency of detail.
// It never fails: collaborator errors yield the fallback evaluation.
func (s *EvaluatorService) EvaluateAnswer(ctx context.Context, question, answer string, ectx model.EvaluationContext) *model.EvaluationResult {
	if !s.config.IsEnabled() {
		return s.fallbackEvaluate(answer)
	}

	prompt := s.buildEvaluationPrompt(question, answer, ectx)
	response, err := s.callGemini(ctx, s.config.Models.Eval, prompt)
	if err != nil {
		return s.fallbackEvaluate(answer)
	}

	var result model.EvaluationResult
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return s.fallbackEvaluate(answer)
	}

	return normalizeEvaluation(&result)
}

// GenerateFollowUp asks for a follow-up question tailored to the answer.
// An error here degrades the turn to advance at the caller, never blocks.
func (s *EvaluatorService) GenerateFollowUp(ctx context.Context, originalQuestion, userResponse string, ectx model.EvaluationContext) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockFollowUp(), nil
	}

	prompt := s.buildFollowUpPrompt(originalQuestion, userResponse, ectx)
	response, err := s.callGemini(ctx, s.config.Models.FollowUp, prompt)
	if err != nil {
		return "", err
	}

	var gen model.FollowUpGeneration
	if err := json.Unmarshal([]byte(response), &gen); err != nil {
		return "", err
	}
	if strings.TrimSpace(gen.FollowUpQuestion) == "" {
		return "", fmt.Errorf("empty follow-up question from generator")
	}
	return gen.FollowUpQuestion, nil
}

// GenerateDocument turns the assembled answer set into a business case
// document. Unlike evaluation, its failure IS surfaced: submission is the
// one step with a retryable user-facing error.
func (s *EvaluatorService) GenerateDocument(ctx context.Context, answers map[string]string, ectx model.EvaluationContext) (*model.GeneratedDocument, error) {
	if !s.config.IsEnabled() {
		return s.mockDocument(answers, ectx), nil
	}

	prompt := s.buildDocumentPrompt(answers, ectx)
	response, err := s.callGemini(ctx, s.config.Models.DocGen, prompt)
	if err != nil {
		return nil, fmt.Errorf("document generation failed: %w", err)
	}

	var doc model.GeneratedDocument
	if err := json.Unmarshal([]byte(response), &doc); err != nil {
		return nil, fmt.Errorf("document generation returned malformed payload: %w", err)
	}
	doc.GeneratedAt = time.Now()
	return &doc, nil
}

// normalizeEvaluation enforces the consistency rules on a collaborator
// result: a score of 8+ is always enough detail (and needs no follow-up),
// a score under 5 never is.
func normalizeEvaluation(result *model.EvaluationResult) *model.EvaluationResult {
	if result.DetailScore < 1 {
		result.DetailScore = 1
	}
	if result.DetailScore > 10 {
		result.DetailScore = 10
	}
	if result.DetailScore >= 8 {
		result.HasEnoughDetail = true
		result.FollowUpQuestion = ""
	}
	if result.DetailScore < 5 {
		result.HasEnoughDetail = false
	}
	return result
}

// fallbackEvaluate is the deterministic local heuristic used whenever the
// collaborator times out, errors, or returns a malformed payload.
func (s *EvaluatorService) fallbackEvaluate(answer string) *model.EvaluationResult {
	accepted := utf8.RuneCountInString(strings.TrimSpace(answer)) > fallbackMinAnswerLength
	result := &model.EvaluationResult{
		HasEnoughDetail: accepted,
		Reasoning:       "Fallback evaluation based on response length.",
	}
	if accepted {
		result.DetailScore = 7
	} else {
		result.DetailScore = 3
		result.FollowUpQuestion = FallbackFollowUpQuestion
	}
	return result
}

func (s *EvaluatorService) mockFollowUp() string {
	return "Could you walk me through a concrete example of that?"
}

// mockDocument assembles a document directly from the answers so the
// submission path works without an API key.
func (s *EvaluatorService) mockDocument(answers map[string]string, ectx model.EvaluationContext) *model.GeneratedDocument {
	title := "Business Case (draft)"
	if ectx.Industry != "" && ectx.Industry != model.CategoryOther {
		title = fmt.Sprintf("Business Case: %s (draft)", ectx.Industry)
	}
	return &model.GeneratedDocument{
		Title:            title,
		ProblemStatement: answers["challenges"],
		Objectives:       splitLines(answers["objectives"]),
		CurrentState:     answers["current-state"],
		ProposedSolutions: []model.ProposedSolution{
			{
				Title:   "Address the stated challenges",
				Effort:  "medium",
				Impact:  "medium",
				Actions: []string{"Review the stated challenges with an advisor", "Draft an implementation plan"},
			},
		},
		ExpectedOutcomes: []string{"Outcomes to be quantified with an advisor"},
		NextSteps:        []string{"Review this draft", "Enable document generation for a full business case"},
		RiskAssessment:   answers["resources"],
		GeneratedAt:      time.Now(),
	}
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// callGemini makes a request to the Gemini API
func (s *EvaluatorService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// Prompt builders
func (s *EvaluatorService) buildEvaluationPrompt(question, answer string, ectx model.EvaluationContext) string {
	return fmt.Sprintf(`You are evaluating an interview answer for a business case intake. Return ONLY valid JSON matching this schema:
{
  "hasEnoughDetail": true or false,
  "detailScore": 1 to 10,
  "followUpQuestion": "optional question to elicit missing detail",
  "reasoning": "one sentence",
  "suggestedImprovements": ["improvement 1", "improvement 2"]
}

Question: %s
Answer: %s
%s
Rate how sufficiently detailed the answer is for building a credible business case.
An answer with concrete specifics, numbers, or examples scores high; vague or generic answers score low.`,
		question, answer, formatContext(ectx))
}

func (s *EvaluatorService) buildFollowUpPrompt(originalQuestion, userResponse string, ectx model.EvaluationContext) string {
	return fmt.Sprintf(`You are a friendly business advisor conducting an intake interview. Generate ONE follow-up question. Return ONLY valid JSON:
{
  "followUpQuestion": "the question",
  "reasoning": "why this deepens the answer"
}

Original Question: %s
Applicant's Answer: "%s"
%s
Instructions:
1. Address the applicant's specific answer; never repeat the original question.
2. Ask for the single most valuable missing detail (numbers, examples, causes).
3. Keep it short and conversational.`,
		originalQuestion, userResponse, formatContext(ectx))
}

func (s *EvaluatorService) buildDocumentPrompt(answers map[string]string, ectx model.EvaluationContext) string {
	var sb strings.Builder
	for segmentID, answer := range answers {
		sb.WriteString(fmt.Sprintf("\n[%s]\n%s\n", segmentID, answer))
	}

	return fmt.Sprintf(`Generate a business case document from this intake interview. Return ONLY valid JSON:
{
  "title": "...",
  "problemStatement": "root-cause analysis with numbers",
  "objectives": ["measurable objective 1", "measurable objective 2"],
  "currentState": "narrative of how the business works today",
  "proposedSolutions": [{"title": "...", "effort": "low|medium|high", "impact": "low|medium|high", "actions": ["action 1", "action 2"]}],
  "expectedOutcomes": ["quantified outcome 1", "quantified outcome 2"],
  "nextSteps": ["step 1", "step 2"],
  "riskAssessment": "key risks and mitigations"
}
%s
Interview answers:%s

Write in the applicant's industry vocabulary. Quantify the problem, the objectives, and the outcomes wherever the answers allow.`,
		formatContext(ectx), sb.String())
}

func formatContext(ectx model.EvaluationContext) string {
	var sb strings.Builder
	if ectx.Industry != "" {
		sb.WriteString(fmt.Sprintf("Industry: %s\n", ectx.Industry))
	}
	if ectx.BusinessStage != "" {
		sb.WriteString(fmt.Sprintf("Business stage: %s\n", ectx.BusinessStage))
	}
	if ectx.BusinessIdea != "" {
		sb.WriteString(fmt.Sprintf("Business idea: %s\n", ectx.BusinessIdea))
	}
	if len(ectx.PreviousAnswers) > 0 {
		sb.WriteString("Previous answers:\n")
		for segmentID, answer := range ectx.PreviousAnswers {
			sb.WriteString(fmt.Sprintf("- [%s] %s\n", segmentID, answer))
		}
	}
	return sb.String()
}
