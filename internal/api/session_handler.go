package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
)

// ── Request / Response types ────────────────────────────────────────────────

type AnswerRequest struct {
	Value *int `json:"value" example:"4"`
}

func (r *AnswerRequest) Validate() error {
	if r.Value == nil {
		return errors.New("value is required")
	}
	return nil
}

type QuestionResponse struct {
	ID         string           `json:"id" example:"mh-1"`
	CategoryID string           `json:"category_id" example:"mental-health"`
	PillarID   string           `json:"pillar_id" example:"health"`
	Text       string           `json:"text" example:"I feel rested when I wake up."`
	Options    []catalog.Option `json:"options"`
}

type SessionResponse struct {
	ID        string           `json:"id" example:"0b6f1c8e-3c1d-4d4e-9f7a-5a2b1c3d4e5f"`
	State     string           `json:"state" example:"in_progress"`
	Index     int              `json:"index" example:"3"`
	Total     int              `json:"total" example:"27"`
	Progress  float64          `json:"progress" example:"14.8"`
	Answered  int              `json:"answered" example:"3"`
	IsFirst   bool             `json:"is_first"`
	IsLast    bool             `json:"is_last"`
	Question  QuestionResponse `json:"question"`
	Selected  *int             `json:"selected,omitempty" example:"4"`
	StartedAt time.Time        `json:"started_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toSessionResponse(s *assessment.Session) SessionResponse {
	q := s.Current()
	resp := SessionResponse{
		ID:       s.ID(),
		State:    string(s.State()),
		Index:    s.Index(),
		Total:    s.Total(),
		Progress: s.Progress(),
		Answered: len(s.Answers()),
		IsFirst:  s.IsFirst(),
		IsLast:   s.IsLast(),
		Question: QuestionResponse{
			ID:         q.ID,
			CategoryID: q.CategoryID,
			PillarID:   q.PillarID,
			Text:       q.Text,
			Options:    q.Options,
		},
		StartedAt: s.StartedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
	if v, ok := s.CurrentValue(); ok {
		resp.Selected = &v
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.assessments.Start(r.Context())
	if err != nil {
		h.logger.Error("failed to start session", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResponse(session))
}

// GET /sessions/{sessionID}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	session, err := h.assessments.Get(r.Context(), sessionID)
	if h.handleStoreError(w, err, "session") {
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(session))
}

// DELETE /sessions/{sessionID}
func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	err := h.assessments.Delete(r.Context(), sessionID)
	if h.handleStoreError(w, err, "session") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /sessions/{sessionID}/answers
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var req AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.assessments.Answer(r.Context(), sessionID, *req.Value)
	if h.handleSessionError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(session))
}

// POST /sessions/{sessionID}/next
func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	session, err := h.assessments.Next(r.Context(), r.PathValue("sessionID"))
	h.respondNavigation(w, session, err)
}

// POST /sessions/{sessionID}/previous
func (h *Handler) previousQuestion(w http.ResponseWriter, r *http.Request) {
	session, err := h.assessments.Previous(r.Context(), r.PathValue("sessionID"))
	h.respondNavigation(w, session, err)
}

// POST /sessions/{sessionID}/reset
func (h *Handler) resetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.assessments.Reset(r.Context(), r.PathValue("sessionID"))
	if h.handleStoreError(w, err, "session") {
		return
	}

	respondJSON(w, http.StatusOK, toSessionResponse(session))
}

// respondNavigation renders the unchanged session for moves past either end.
func (h *Handler) respondNavigation(w http.ResponseWriter, session *assessment.Session, err error) {
	if errors.Is(err, assessment.ErrOutOfRange) {
		err = nil
	}
	if h.handleSessionError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(session))
}
