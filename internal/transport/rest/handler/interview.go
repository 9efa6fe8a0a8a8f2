package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"caseintake/internal/engine"
	"caseintake/internal/model"
	"caseintake/internal/service"
	"caseintake/internal/transport/rest/middleware"
)

// InterviewHandler handles the interview loop endpoints
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// GetCurrent handles GET /v1/interview/segments/current
func (h *InterviewHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	state, err := h.interviewSvc.GetState(r.Context(), sessionID)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  state.Status,
		"segment": state.CurrentSegment(),
	})
}

// SubmitAnswer handles POST /v1/interview/answers
func (h *InterviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.interviewSvc.SubmitAnswer(r.Context(), sessionID, &req)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SaveDraft handles PUT /v1/interview/segments/{segmentId}/draft.
// Autosave is fire and forget: the response is always success.
func (h *InterviewHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	segmentID := mux.Vars(r)["segmentId"]

	var req model.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.interviewSvc.SaveDraft(r.Context(), sessionID, segmentID, req.Answer, req.Selections)
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Reopen handles POST /v1/interview/segments/{segmentId}/reopen
func (h *InterviewHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	segmentID := mux.Vars(r)["segmentId"]

	segment, err := h.interviewSvc.Reopen(r.Context(), sessionID, segmentID)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, segment)
}

// CommitEdit handles PUT /v1/interview/segments/{segmentId}/answer
func (h *InterviewHandler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	segmentID := mux.Vars(r)["segmentId"]

	var req model.EditAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.interviewSvc.CommitEdit(r.Context(), sessionID, segmentID, req.Answer)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    state.Status,
		"segmentId": segmentID,
	})
}

// Submit handles POST /v1/interview/submit
func (h *InterviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.interviewSvc.SubmitInterview(r.Context(), sessionID)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Regenerate handles POST /v1/interview/regenerate
func (h *InterviewHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.interviewSvc.RegenerateDocument(r.Context(), sessionID)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeInterviewError maps service and engine errors onto HTTP statuses
func writeInterviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEvaluationInFlight),
		errors.Is(err, service.ErrRegenerateUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		// Retryable: the one collaborator failure surfaced to the user
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, engine.ErrAlreadySubmitted),
		errors.Is(err, engine.ErrNotInReview),
		errors.Is(err, engine.ErrNotActive),
		errors.Is(err, engine.ErrWrongSegment):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrSegmentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
