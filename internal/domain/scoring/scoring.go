package scoring

import (
	"fmt"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
)

// DefaultCapSlack is how far the overall score may sit above the weakest
// pillar. With pillars {100, 100, 20} the raw mean of 73 is capped to 30.
const DefaultCapSlack = 10

// Config tunes the aggregation.
type Config struct {
	// CapSlack bounds the overall score to lowest pillar + CapSlack.
	CapSlack int
}

func DefaultConfig() Config {
	return Config{CapSlack: DefaultCapSlack}
}

func (c Config) Validate() error {
	if c.CapSlack < 0 || c.CapSlack > 100 {
		return fmt.Errorf("cap slack %d outside 0..100", c.CapSlack)
	}
	return nil
}

type CategoryScore struct {
	CategoryID string `json:"category_id"`
	PillarID   string `json:"pillar_id"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Answered   int    `json:"answered"`
	Questions  int    `json:"questions"`
}

type PillarScore struct {
	PillarID string `json:"pillar_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// Result holds every stage of the aggregation. Slices follow catalog order.
type Result struct {
	Categories   []CategoryScore `json:"categories"`
	Pillars      []PillarScore   `json:"pillars"`
	RawOverall   int             `json:"raw_overall"`
	Overall      int             `json:"overall"`
	Capped       bool            `json:"capped"`
	LowestPillar string          `json:"lowest_pillar"`
}

func (r Result) CategoryScores() map[string]int {
	m := make(map[string]int, len(r.Categories))
	for _, c := range r.Categories {
		m[c.CategoryID] = c.Score
	}
	return m
}

func (r Result) PillarScores() map[string]int {
	m := make(map[string]int, len(r.Pillars))
	for _, p := range r.Pillars {
		m[p.PillarID] = p.Score
	}
	return m
}

// Engine turns answers into scores. It holds no state beyond its config.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Compute scores a possibly partial answer store against c. Missing answers
// count as zero; empty categories and pillars score zero. Each stage is
// rounded half up before it feeds the next.
func (e *Engine) Compute(c *catalog.Catalog, answers assessment.AnswerStore) Result {
	var res Result

	pillars := c.Pillars()
	res.Pillars = make([]PillarScore, 0, len(pillars))

	pillarSum := 0
	for _, p := range pillars {
		categorySum := 0
		for _, cat := range p.Categories {
			cs := scoreCategory(cat, answers)
			res.Categories = append(res.Categories, cs)
			categorySum += cs.Score
		}

		ps := PillarScore{PillarID: p.ID, Name: p.Name}
		if len(p.Categories) > 0 {
			ps.Score = RoundHalfUp(categorySum, len(p.Categories))
		}
		res.Pillars = append(res.Pillars, ps)
		pillarSum += ps.Score
	}

	if len(res.Pillars) == 0 {
		return res
	}

	res.RawOverall = RoundHalfUp(pillarSum, len(res.Pillars))
	res.LowestPillar = LowestPillar(res.Pillars)

	lowest := res.PillarScores()[res.LowestPillar]
	res.Overall = min(res.RawOverall, lowest+e.cfg.CapSlack)
	res.Capped = res.Overall < res.RawOverall
	return res
}

func scoreCategory(cat catalog.Category, answers assessment.AnswerStore) CategoryScore {
	cs := CategoryScore{
		CategoryID: cat.ID,
		PillarID:   cat.PillarID,
		Name:       cat.Name,
		Questions:  len(cat.Questions),
	}
	if len(cat.Questions) == 0 {
		return cs
	}

	total := 0
	for _, q := range cat.Questions {
		if v, ok := answers.Get(q.ID); ok {
			total += v
			cs.Answered++
		}
	}
	cs.Score = RoundHalfUp(total*100, len(cat.Questions)*catalog.MaxValue)
	return cs
}

// LowestPillar returns the id of the lowest scoring pillar. Ties go to the
// pillar that comes first in the slice, which Compute fills in catalog order.
func LowestPillar(pillars []PillarScore) string {
	if len(pillars) == 0 {
		return ""
	}
	lowest := pillars[0]
	for _, p := range pillars[1:] {
		if p.Score < lowest.Score {
			lowest = p
		}
	}
	return lowest.PillarID
}

// RoundHalfUp returns num/den rounded to the nearest integer, halves rounding
// up. Both operands must be non-negative and den positive.
func RoundHalfUp(num, den int) int {
	return (2*num + den) / (2 * den)
}
