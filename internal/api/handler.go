package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/service"
	"github.com/freedomology/backend/internal/store"
)

const maxBodyBytes = 1 << 20

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	assessments *service.AssessmentService
	results     store.ResultStore
	logger      *slog.Logger
}

// NewHandler creates a Handler. results may be nil, in which case the
// analytics endpoints answer 503.
func NewHandler(svc *service.AssessmentService, results store.ResultStore, logger *slog.Logger) *Handler {
	return &Handler{
		assessments: svc,
		results:     results,
		logger:      logger,
	}
}

type ErrorResponse struct {
	Error string `json:"error" example:"session not found"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
// Returns false after writing a 400 if the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

type validator interface {
	Validate() error
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// handleSessionError maps session rule violations onto status codes.
// ErrOutOfRange is not handled here: navigation past either end is a no-op.
func (h *Handler) handleSessionError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, assessment.ErrInvalidAnswer):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, assessment.ErrUnanswered),
		errors.Is(err, assessment.ErrComplete),
		errors.Is(err, service.ErrNotComplete):
		respondError(w, http.StatusConflict, err.Error())
	default:
		return h.handleStoreError(w, err, "session")
	}
	return true
}
