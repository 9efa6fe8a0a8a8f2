package handler

import (
	"encoding/json"
	"net/http"

	"caseintake/internal/model"
	"caseintake/internal/service"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	interviewSvc *service.InterviewService
	authSvc      *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(interviewSvc *service.InterviewService, authSvc *service.AuthService) *SessionHandler {
	return &SessionHandler{
		interviewSvc: interviewSvc,
		authSvc:      authSvc,
	}
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartSessionRequest
	if r.Body != nil {
		// An empty body starts a fresh session
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	resumeSessionID := ""
	if req.ResumeToken != "" {
		sessionID, err := h.authSvc.ValidateResumeToken(req.ResumeToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid resume token")
			return
		}
		resumeSessionID = sessionID
	}

	state, resumed, err := h.interviewSvc.StartSession(r.Context(), resumeSessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.authSvc.GenerateSessionToken(state.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	resumeToken, err := h.authSvc.GenerateResumeToken(state.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate resume token")
		return
	}

	writeJSON(w, http.StatusOK, &model.StartSessionResponse{
		SessionID:   state.SessionID,
		Token:       token,
		ResumeToken: resumeToken,
		Segment:     state.CurrentSegment(),
		Resumed:     resumed,
		Status:      state.Status,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
