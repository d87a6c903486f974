package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/freedomology/backend/internal/domain/program"
	"github.com/freedomology/backend/internal/domain/scoring"
	"github.com/freedomology/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type ResultsResponse struct {
	SessionID        string                  `json:"session_id" example:"0b6f1c8e-3c1d-4d4e-9f7a-5a2b1c3d4e5f"`
	Overall          int                     `json:"overall" example:"58"`
	RawOverall       int                     `json:"raw_overall" example:"71"`
	Capped           bool                    `json:"capped" example:"true"`
	LowestPillar     string                  `json:"lowest_pillar" example:"financial"`
	LowestPillarName string                  `json:"lowest_pillar_name" example:"Financial"`
	Pillars          []scoring.PillarScore   `json:"pillars"`
	Categories       []scoring.CategoryScore `json:"categories"`
	Program          *program.Program        `json:"program,omitempty"`
	CompletedAt      time.Time               `json:"completed_at"`
}

func toResultsResponse(out *service.Outcome) ResultsResponse {
	resp := ResultsResponse{
		SessionID:    out.SessionID,
		Overall:      out.Result.Overall,
		RawOverall:   out.Result.RawOverall,
		Capped:       out.Result.Capped,
		LowestPillar: out.Result.LowestPillar,
		Pillars:      out.Result.Pillars,
		Categories:   out.Result.Categories,
		Program:      out.Program,
		CompletedAt:  out.CompletedAt,
	}
	for _, p := range out.Result.Pillars {
		if p.PillarID == out.Result.LowestPillar {
			resp.LowestPillarName = p.Name
			break
		}
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /sessions/{sessionID}/results
func (h *Handler) getResults(w http.ResponseWriter, r *http.Request) {
	out, err := h.assessments.Results(r.Context(), r.PathValue("sessionID"))
	if h.handleSessionError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, toResultsResponse(out))
}

// GET /sessions/{sessionID}/export
func (h *Handler) exportResults(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	out, err := h.assessments.Results(r.Context(), sessionID)
	if h.handleSessionError(w, err) {
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=freedomology-%s.json", sessionID))
	respondJSON(w, http.StatusOK, toResultsResponse(out))
}
