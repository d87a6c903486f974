package api

import (
	"net/http"

	"github.com/freedomology/backend/internal/domain/catalog"
)

type CatalogResponse struct {
	Pillars    []catalog.Pillar `json:"pillars"`
	Categories int              `json:"categories" example:"9"`
	Questions  int              `json:"questions" example:"27"`
}

// GET /catalog
func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.assessments.Catalog()
	_, categories, questions := c.Stats()

	respondJSON(w, http.StatusOK, CatalogResponse{
		Pillars:    c.Pillars(),
		Categories: categories,
		Questions:  questions,
	})
}
