// Package simulation walks synthetic respondents through real sessions to see
// how the overall-score cap behaves across a population.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
	"github.com/freedomology/backend/internal/domain/scoring"
)

type Options struct {
	Respondents int
	Workers     int
	Seed        uint64
}

func DefaultOptions() Options {
	return Options{Respondents: 1000, Workers: 4, Seed: 1}
}

// Report aggregates every simulated result.
type Report struct {
	Respondents  int            `json:"respondents"`
	MeanRaw      float64        `json:"mean_raw"`
	MeanOverall  float64        `json:"mean_overall"`
	CappedRate   float64        `json:"capped_rate"` // share of respondents whose score was capped, 0..1
	MeanDrop     float64        `json:"mean_drop"`   // mean raw-overall gap among capped respondents
	LowestPillar map[string]int `json:"lowest_pillar"`
	Histogram    [10]int        `json:"histogram"` // overall scores in buckets of ten, 100 falls in the last
}

// Run simulates opts.Respondents sessions against c. Each respondent draws
// from its own generator seeded by (Seed, respondent index) so the report
// does not depend on scheduling.
func Run(ctx context.Context, c *catalog.Catalog, engine *scoring.Engine, opts Options) (*Report, error) {
	if opts.Respondents < 1 {
		return nil, fmt.Errorf("respondents must be positive, got %d", opts.Respondents)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	results := make([]scoring.Result, opts.Respondents)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range opts.Respondents {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))
			answers, err := respond(c, newProfile(c, rng), rng)
			if err != nil {
				return fmt.Errorf("respondent %d: %w", i, err)
			}
			results[i] = engine.Compute(c, answers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return summarize(results), nil
}

// profile is a respondent's leaning per pillar on the 1..5 scale.
type profile map[string]float64

func newProfile(c *catalog.Catalog, rng *rand.Rand) profile {
	p := make(profile, len(c.Pillars()))
	for _, id := range c.PillarOrder() {
		p[id] = 1 + rng.Float64()*4
	}
	return p
}

// respond drives a session from the first question to completion, answering
// each question with the option closest to the respondent's noisy leaning.
func respond(c *catalog.Catalog, p profile, rng *rand.Rand) (assessment.AnswerStore, error) {
	sess, err := assessment.NewSession("simulated", c)
	if err != nil {
		return nil, err
	}
	for !sess.IsComplete() {
		q := sess.Current()
		target := p[q.PillarID] + rng.NormFloat64()*0.75
		if err := sess.Answer(closest(q.Options, target)); err != nil {
			return nil, err
		}
	}
	return sess.Answers(), nil
}

func closest(options []catalog.Option, target float64) int {
	best := options[0].Value
	bestDist := abs(float64(best) - target)
	for _, o := range options[1:] {
		if d := abs(float64(o.Value) - target); d < bestDist {
			best, bestDist = o.Value, d
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func summarize(results []scoring.Result) *Report {
	r := &Report{
		Respondents:  len(results),
		LowestPillar: make(map[string]int),
	}
	var raw, overall, drop, capped int
	for _, res := range results {
		raw += res.RawOverall
		overall += res.Overall
		if res.Capped {
			capped++
			drop += res.RawOverall - res.Overall
		}
		if res.LowestPillar != "" {
			r.LowestPillar[res.LowestPillar]++
		}
		bucket := res.Overall / 10
		if bucket > 9 {
			bucket = 9
		}
		r.Histogram[bucket]++
	}

	n := float64(len(results))
	r.MeanRaw = float64(raw) / n
	r.MeanOverall = float64(overall) / n
	r.CappedRate = float64(capped) / n
	if capped > 0 {
		r.MeanDrop = float64(drop) / float64(capped)
	}
	return r
}
