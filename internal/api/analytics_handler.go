package api

import (
	"math"
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type QuestionCountResponse struct {
	QuestionID string `json:"question_id" example:"mh-1"`
	Responses  int    `json:"responses" example:"112"`
}

type AnalyticsResponse struct {
	Started        int                     `json:"started" example:"140"`
	Completed      int                     `json:"completed" example:"112"`
	CompletionRate float64                 `json:"completion_rate" example:"80"`
	PillarAverages map[string]float64      `json:"pillar_averages"`
	Questions      []QuestionCountResponse `json:"questions"`
}

type OptionCountResponse struct {
	Value      int     `json:"value" example:"4"`
	Label      string  `json:"label" example:"Agree"`
	Count      int     `json:"count" example:"37"`
	Percentage float64 `json:"percentage" example:"33"`
}

type DistributionResponse struct {
	QuestionID string                `json:"question_id" example:"mh-1"`
	Text       string                `json:"text" example:"I feel rested when I wake up."`
	Responses  int                   `json:"responses" example:"112"`
	Options    []OptionCountResponse `json:"options"`
}

// percentage returns part/total*100 to one decimal place.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /analytics
func (h *Handler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		respondError(w, http.StatusServiceUnavailable, "analytics unavailable")
		return
	}

	sum, err := h.results.Summary(r.Context())
	if h.handleStoreError(w, err, "analytics") {
		return
	}

	questions := make([]QuestionCountResponse, len(sum.Questions))
	for i, q := range sum.Questions {
		questions[i] = QuestionCountResponse{QuestionID: q.QuestionID, Responses: q.Responses}
	}

	respondJSON(w, http.StatusOK, AnalyticsResponse{
		Started:        sum.Started,
		Completed:      sum.Completed,
		CompletionRate: percentage(sum.Completed, sum.Started),
		PillarAverages: sum.PillarAverages,
		Questions:      questions,
	})
}

// GET /analytics/questions/{questionID}
func (h *Handler) getQuestionDistribution(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		respondError(w, http.StatusServiceUnavailable, "analytics unavailable")
		return
	}

	questionID := r.PathValue("questionID")
	q, ok := h.assessments.Catalog().Question(questionID)
	if !ok {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}

	counts, err := h.results.QuestionDistribution(r.Context(), questionID)
	if h.handleStoreError(w, err, "question") {
		return
	}

	byValue := make(map[int]int, len(counts))
	total := 0
	for _, c := range counts {
		byValue[c.Value] = c.Count
		total += c.Count
	}

	// Every option is listed, including ones nobody picked.
	options := make([]OptionCountResponse, len(q.Options))
	for i, o := range q.Options {
		options[i] = OptionCountResponse{
			Value:      o.Value,
			Label:      o.Label,
			Count:      byValue[o.Value],
			Percentage: percentage(byValue[o.Value], total),
		}
	}

	respondJSON(w, http.StatusOK, DistributionResponse{
		QuestionID: q.ID,
		Text:       q.Text,
		Responses:  total,
		Options:    options,
	})
}
