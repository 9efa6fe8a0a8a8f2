package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"caseintake/internal/service"
)

// DocumentHandler serves generated business case documents
type DocumentHandler struct {
	interviewSvc *service.InterviewService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(interviewSvc *service.InterviewService) *DocumentHandler {
	return &DocumentHandler{interviewSvc: interviewSvc}
}

// Get handles GET /v1/documents/{documentId}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["documentId"]

	doc, err := h.interviewSvc.GetDocument(r.Context(), documentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}
