package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"caseintake/internal/service"
	"caseintake/internal/transport/rest/handler"
	"caseintake/internal/transport/rest/middleware"
	"caseintake/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	InterviewService *service.InterviewService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.InterviewService, c.AuthService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	documentHandler := handler.NewDocumentHandler(c.InterviewService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/sessions", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Interview routes (require session auth)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/interview/segments/current", interviewHandler.GetCurrent).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/answers", interviewHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/segments/{segmentId}/draft", interviewHandler.SaveDraft).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/segments/{segmentId}/reopen", interviewHandler.Reopen).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/segments/{segmentId}/answer", interviewHandler.CommitEdit).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/submit", interviewHandler.Submit).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/regenerate", interviewHandler.Regenerate).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/documents/{documentId}", documentHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
