package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"caseintake/internal/config"
	"caseintake/internal/model"
)

func testAIConfig(baseURL string) *config.AIConfig {
	return &config.AIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Models: config.GeminiModels{
			Eval:     "eval-model",
			FollowUp: "followup-model",
			DocGen:   "docgen-model",
		},
		TimeoutMS: 2000,
	}
}

// geminiServer wraps a payload in the Gemini candidate envelope.
func geminiServer(t *testing.T, payload interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		text, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": string(text)}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestEvaluateAnswerDisabledUsesFallback(t *testing.T) {
	svc := NewEvaluatorService(&config.AIConfig{TimeoutMS: 1000})

	long := svc.EvaluateAnswer(context.Background(), "q", "an answer comfortably past the cutoff length", model.EvaluationContext{})
	if !long.HasEnoughDetail || long.DetailScore != 7 {
		t.Errorf("long answer fallback should accept with score 7, got %+v", long)
	}
	if long.FollowUpQuestion != "" {
		t.Errorf("accepted fallback carries no follow-up, got %q", long.FollowUpQuestion)
	}

	short := svc.EvaluateAnswer(context.Background(), "q", "needs more info", model.EvaluationContext{})
	if short.HasEnoughDetail || short.DetailScore != 3 {
		t.Errorf("short answer fallback should reject with score 3, got %+v", short)
	}
	if short.FollowUpQuestion != FallbackFollowUpQuestion {
		t.Errorf("expected the fixed fallback question, got %q", short.FollowUpQuestion)
	}
}

func TestEvaluateAnswerFallbackCountsCharactersNotBytes(t *testing.T) {
	svc := NewEvaluatorService(&config.AIConfig{TimeoutMS: 1000})

	// Ten CJK characters are thirty bytes but still a short answer.
	short := svc.EvaluateAnswer(context.Background(), "q", strings.Repeat("店", 10), model.EvaluationContext{})
	if short.HasEnoughDetail || short.DetailScore != 3 {
		t.Errorf("ten characters should be rejected regardless of encoding, got %+v", short)
	}

	long := svc.EvaluateAnswer(context.Background(), "q", strings.Repeat("店", 21), model.EvaluationContext{})
	if !long.HasEnoughDetail || long.DetailScore != 7 {
		t.Errorf("twenty-one characters should be accepted, got %+v", long)
	}
}

func TestEvaluateAnswerFallbackTrimsWhitespace(t *testing.T) {
	svc := NewEvaluatorService(&config.AIConfig{TimeoutMS: 1000})

	// Padding must not buy acceptance.
	padded := "short   " + strings.Repeat(" ", 40)
	result := svc.EvaluateAnswer(context.Background(), "q", padded, model.EvaluationContext{})
	if result.HasEnoughDetail {
		t.Errorf("whitespace padding should not count toward length, got %+v", result)
	}
}

func TestEvaluateAnswerCollaboratorErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewEvaluatorService(testAIConfig(server.URL))
	result := svc.EvaluateAnswer(context.Background(), "q", "needs more info", model.EvaluationContext{})

	if result.HasEnoughDetail || result.DetailScore != 3 {
		t.Errorf("collaborator failure should fall back, got %+v", result)
	}
	if result.FollowUpQuestion != FallbackFollowUpQuestion {
		t.Errorf("expected the fixed fallback question, got %q", result.FollowUpQuestion)
	}
}

func TestEvaluateAnswerMalformedPayloadFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "this is not json"}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewEvaluatorService(testAIConfig(server.URL))
	result := svc.EvaluateAnswer(context.Background(), "q", "a long and thoughtful answer about the business", model.EvaluationContext{})

	if !result.HasEnoughDetail || result.DetailScore != 7 {
		t.Errorf("malformed payload should fall back on length, got %+v", result)
	}
}

func TestEvaluateAnswerUnreachableCollaboratorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	svc := NewEvaluatorService(testAIConfig(server.URL))
	result := svc.EvaluateAnswer(context.Background(), "q", "needs more info", model.EvaluationContext{})

	if result.DetailScore != 3 || result.FollowUpQuestion != FallbackFollowUpQuestion {
		t.Errorf("unreachable collaborator should fall back, got %+v", result)
	}
}

func TestEvaluateAnswerNormalization(t *testing.T) {
	cases := []struct {
		name       string
		payload    model.EvaluationResult
		wantScore  int
		wantEnough bool
		wantNoFU   bool
	}{
		{
			name:       "high score forces acceptance",
			payload:    model.EvaluationResult{HasEnoughDetail: false, DetailScore: 9, FollowUpQuestion: "but what about..."},
			wantScore:  9,
			wantEnough: true,
			wantNoFU:   true,
		},
		{
			name:       "low score forces rejection",
			payload:    model.EvaluationResult{HasEnoughDetail: true, DetailScore: 4},
			wantScore:  4,
			wantEnough: false,
		},
		{
			name:       "score above range clamps to 10",
			payload:    model.EvaluationResult{DetailScore: 14},
			wantScore:  10,
			wantEnough: true,
			wantNoFU:   true,
		},
		{
			name:       "score below range clamps to 1",
			payload:    model.EvaluationResult{HasEnoughDetail: true, DetailScore: -2},
			wantScore:  1,
			wantEnough: false,
		},
		{
			name:       "midrange passes through untouched",
			payload:    model.EvaluationResult{HasEnoughDetail: true, DetailScore: 6, FollowUpQuestion: "optional?"},
			wantScore:  6,
			wantEnough: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := geminiServer(t, tc.payload)
			defer server.Close()

			svc := NewEvaluatorService(testAIConfig(server.URL))
			result := svc.EvaluateAnswer(context.Background(), "q", "any answer at all here", model.EvaluationContext{})

			if result.DetailScore != tc.wantScore {
				t.Errorf("score = %d, want %d", result.DetailScore, tc.wantScore)
			}
			if result.HasEnoughDetail != tc.wantEnough {
				t.Errorf("hasEnoughDetail = %v, want %v", result.HasEnoughDetail, tc.wantEnough)
			}
			if tc.wantNoFU && result.FollowUpQuestion != "" {
				t.Errorf("follow-up should be cleared, got %q", result.FollowUpQuestion)
			}
		})
	}
}

func TestGenerateFollowUpDisabledUsesMock(t *testing.T) {
	svc := NewEvaluatorService(&config.AIConfig{TimeoutMS: 1000})

	q, err := svc.GenerateFollowUp(context.Background(), "orig", "resp", model.EvaluationContext{})
	if err != nil {
		t.Fatalf("mock follow-up should not fail: %v", err)
	}
	if q == "" {
		t.Error("expected a canned follow-up question")
	}
}

func TestGenerateFollowUpSurfacesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewEvaluatorService(testAIConfig(server.URL))
	if _, err := svc.GenerateFollowUp(context.Background(), "orig", "resp", model.EvaluationContext{}); err == nil {
		t.Error("expected an error from a failing generator")
	}
}

func TestGenerateFollowUpRejectsEmptyQuestion(t *testing.T) {
	server := geminiServer(t, model.FollowUpGeneration{FollowUpQuestion: "   "})
	defer server.Close()

	svc := NewEvaluatorService(testAIConfig(server.URL))
	if _, err := svc.GenerateFollowUp(context.Background(), "orig", "resp", model.EvaluationContext{}); err == nil {
		t.Error("expected an error for a blank generated question")
	}
}

func TestGenerateDocumentDisabledUsesMock(t *testing.T) {
	svc := NewEvaluatorService(&config.AIConfig{TimeoutMS: 1000})
	answers := map[string]string{
		"business-idea": "A bakery",
		"challenges":    "Throwing away unsold bread every evening",
		"objectives":    "Cut waste in half\nGrow morning sales",
		"current-state": "Everything is done by feel",
		"resources":     "One owner, limited budget",
	}

	doc, err := svc.GenerateDocument(context.Background(), answers, model.EvaluationContext{Industry: model.CategoryHospitality})
	if err != nil {
		t.Fatalf("mock document should not fail: %v", err)
	}
	if doc.ProblemStatement != answers["challenges"] {
		t.Errorf("mock document should carry the challenges answer, got %q", doc.ProblemStatement)
	}
	if len(doc.Objectives) != 2 {
		t.Errorf("expected objectives split per line, got %v", doc.Objectives)
	}
	if !strings.Contains(doc.Title, string(model.CategoryHospitality)) {
		t.Errorf("expected the industry in the title, got %q", doc.Title)
	}
	if doc.RiskAssessment != answers["resources"] {
		t.Errorf("mock document should carry resources as risk input, got %q", doc.RiskAssessment)
	}
}

func TestGenerateDocumentSurfacesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewEvaluatorService(testAIConfig(server.URL))
	if _, err := svc.GenerateDocument(context.Background(), map[string]string{}, model.EvaluationContext{}); err == nil {
		t.Error("document generation failure must surface, not degrade")
	}
}

func TestGenerateDocumentParsesPayload(t *testing.T) {
	payload := model.GeneratedDocument{
		Title:            "Case",
		ProblemStatement: "Stated with numbers: 42",
		Objectives:       []string{"Increase revenue by 10%"},
	}
	server := geminiServer(t, payload)
	defer server.Close()

	svc := NewEvaluatorService(testAIConfig(server.URL))
	doc, err := svc.GenerateDocument(context.Background(), map[string]string{"challenges": "x"}, model.EvaluationContext{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if doc.Title != "Case" || len(doc.Objectives) != 1 {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt stamped")
	}
}
