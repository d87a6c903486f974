package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Catalog
	mux.HandleFunc("GET /catalog", h.getCatalog)

	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("DELETE /sessions/{sessionID}", h.deleteSession)
	mux.HandleFunc("POST /sessions/{sessionID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/next", h.nextQuestion)
	mux.HandleFunc("POST /sessions/{sessionID}/previous", h.previousQuestion)
	mux.HandleFunc("POST /sessions/{sessionID}/reset", h.resetSession)

	// Results
	mux.HandleFunc("GET /sessions/{sessionID}/results", h.getResults)
	mux.HandleFunc("GET /sessions/{sessionID}/export", h.exportResults)

	// Analytics
	mux.HandleFunc("GET /analytics", h.getAnalytics)
	mux.HandleFunc("GET /analytics/questions/{questionID}", h.getQuestionDistribution)
}
