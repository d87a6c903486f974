package scoring_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
	"github.com/freedomology/backend/internal/domain/scoring"
)

func engine(t *testing.T, slack int) *scoring.Engine {
	t.Helper()
	e, err := scoring.NewEngine(scoring.Config{CapSlack: slack})
	require.NoError(t, err)
	return e
}

// onePerPillar builds n pillars with one category holding one question each.
func onePerPillar(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	pillars := make([]catalog.Pillar, n)
	for i := range pillars {
		pillars[i] = catalog.Pillar{
			ID: fmt.Sprintf("p%d", i+1),
			Categories: []catalog.Category{{
				ID:        fmt.Sprintf("c%d", i+1),
				Questions: []catalog.Question{{ID: fmt.Sprintf("q%d", i+1)}},
			}},
		}
	}
	c, err := catalog.New(pillars)
	require.NoError(t, err)
	return c
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		num, den, want int
	}{
		{0, 5, 0},
		{1, 2, 1},
		{3, 2, 2},
		{5, 2, 3},
		{220, 3, 73},
		{1100, 15, 73},
		{200, 3, 67},
		{100, 3, 33},
		{1000, 15, 67},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoring.RoundHalfUp(tt.num, tt.den), "%d/%d", tt.num, tt.den)
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, scoring.DefaultConfig().Validate())
	assert.NoError(t, scoring.Config{CapSlack: 0}.Validate())
	assert.NoError(t, scoring.Config{CapSlack: 100}.Validate())
	assert.Error(t, scoring.Config{CapSlack: -1}.Validate())
	assert.Error(t, scoring.Config{CapSlack: 101}.Validate())

	_, err := scoring.NewEngine(scoring.Config{CapSlack: -5})
	assert.Error(t, err)
}

func TestCompute_CategoryScores(t *testing.T) {
	c, err := catalog.New([]catalog.Pillar{{ID: "p", Categories: []catalog.Category{
		{ID: "three", Questions: []catalog.Question{{ID: "a"}, {ID: "b"}, {ID: "c"}}},
		{ID: "empty"},
	}}})
	require.NoError(t, err)
	e := engine(t, scoring.DefaultCapSlack)

	tests := []struct {
		name    string
		answers assessment.AnswerStore
		want    int
	}{
		{"all max", assessment.AnswerStore{"a": 5, "b": 5, "c": 5}, 100},
		{"all min", assessment.AnswerStore{"a": 1, "b": 1, "c": 1}, 20},
		{"mixed", assessment.AnswerStore{"a": 4, "b": 3, "c": 4}, 73},
		{"partial", assessment.AnswerStore{"a": 5}, 33},
		{"none", assessment.AnswerStore{}, 0},
		{"two thirds rounds up", assessment.AnswerStore{"a": 5, "b": 4, "c": 4}, 87},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Compute(c, tt.answers)
			scores := res.CategoryScores()
			assert.Equal(t, tt.want, scores["three"])
			assert.Equal(t, 0, scores["empty"], "empty category scores zero")
		})
	}
}

func TestCompute_PillarIsUnweightedMeanOfCategories(t *testing.T) {
	c, err := catalog.New([]catalog.Pillar{{ID: "p", Categories: []catalog.Category{
		{ID: "big", Questions: []catalog.Question{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}},
		{ID: "small", Questions: []catalog.Question{{ID: "e"}}},
	}}})
	require.NoError(t, err)

	res := engine(t, 100).Compute(c, assessment.AnswerStore{"a": 5, "b": 5, "c": 5, "d": 5, "e": 1})

	assert.Equal(t, map[string]int{"big": 100, "small": 20}, res.CategoryScores())
	// Mean over categories (60), not over raw answers (84).
	assert.Equal(t, 60, res.PillarScores()["p"])
}

func TestCompute_CappingLaw(t *testing.T) {
	c := onePerPillar(t, 3)
	answers := assessment.AnswerStore{"q1": 5, "q2": 5, "q3": 1}

	res := engine(t, scoring.DefaultCapSlack).Compute(c, answers)

	assert.Equal(t, map[string]int{"p1": 100, "p2": 100, "p3": 20}, res.PillarScores())
	assert.Equal(t, 73, res.RawOverall)
	assert.Equal(t, 20+scoring.DefaultCapSlack, res.Overall)
	assert.True(t, res.Capped)
	assert.Less(t, res.Overall, res.RawOverall)
	assert.GreaterOrEqual(t, res.Overall, 20)
	assert.Equal(t, "p3", res.LowestPillar)
}

func TestCompute_CapSlackValues(t *testing.T) {
	c := onePerPillar(t, 3)
	answers := assessment.AnswerStore{"q1": 5, "q2": 5, "q3": 1}

	tests := []struct {
		slack   int
		overall int
		capped  bool
	}{
		{0, 20, true},
		{10, 30, true},
		{53, 73, false},
		{100, 73, false},
	}
	for _, tt := range tests {
		res := engine(t, tt.slack).Compute(c, answers)
		assert.Equal(t, tt.overall, res.Overall, "slack %d", tt.slack)
		assert.Equal(t, tt.capped, res.Capped, "slack %d", tt.slack)
	}
}

func TestCompute_BalancedScoresAreNotCapped(t *testing.T) {
	c := onePerPillar(t, 3)
	res := engine(t, scoring.DefaultCapSlack).Compute(c, assessment.AnswerStore{"q1": 4, "q2": 4, "q3": 4})

	assert.Equal(t, 80, res.RawOverall)
	assert.Equal(t, 80, res.Overall)
	assert.False(t, res.Capped)
}

func TestCompute_EmptyStoreScoresZero(t *testing.T) {
	c := onePerPillar(t, 2)
	res := engine(t, scoring.DefaultCapSlack).Compute(c, assessment.AnswerStore{})

	assert.Equal(t, 0, res.Overall)
	assert.Equal(t, 0, res.RawOverall)
	assert.Equal(t, "p1", res.LowestPillar)
}

func TestCompute_PillarWithoutCategories(t *testing.T) {
	c, err := catalog.New([]catalog.Pillar{
		{ID: "full", Categories: []catalog.Category{{ID: "c", Questions: []catalog.Question{{ID: "q"}}}}},
		{ID: "hollow"},
	})
	require.NoError(t, err)

	res := engine(t, 100).Compute(c, assessment.AnswerStore{"q": 5})

	assert.Equal(t, map[string]int{"full": 100, "hollow": 0}, res.PillarScores())
	assert.Equal(t, 50, res.Overall)
	assert.Equal(t, "hollow", res.LowestPillar)
}

func TestCompute_ScoresStayInRange(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	e := engine(t, scoring.DefaultCapSlack)

	for _, pick := range []func(q catalog.Question) int{
		func(q catalog.Question) int { return q.Options[0].Value },
		func(q catalog.Question) int { return q.Options[len(q.Options)-1].Value },
		func(q catalog.Question) int { return q.Options[len(q.Options)/2].Value },
	} {
		answers := assessment.AnswerStore{}
		for _, q := range c.Questions() {
			answers[q.ID] = pick(q)
		}
		res := e.Compute(c, answers)

		for _, cs := range res.Categories {
			assert.GreaterOrEqual(t, cs.Score, 0)
			assert.LessOrEqual(t, cs.Score, 100)
		}
		for _, ps := range res.Pillars {
			assert.GreaterOrEqual(t, ps.Score, 0)
			assert.LessOrEqual(t, ps.Score, 100)
		}
		assert.GreaterOrEqual(t, res.Overall, 0)
		assert.LessOrEqual(t, res.Overall, 100)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	e := engine(t, scoring.DefaultCapSlack)

	answers := assessment.AnswerStore{}
	for i, q := range c.Questions() {
		answers[q.ID] = q.Options[i%len(q.Options)].Value
	}

	first := e.Compute(c, answers)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Compute(c, answers))
	}
}

func TestLowestPillar_TiesUseOrder(t *testing.T) {
	pillars := []scoring.PillarScore{
		{PillarID: "health", Score: 40},
		{PillarID: "financial", Score: 30},
		{PillarID: "relationships", Score: 30},
	}
	assert.Equal(t, "financial", scoring.LowestPillar(pillars))

	pillars[2].Score = 29
	assert.Equal(t, "relationships", scoring.LowestPillar(pillars))

	assert.Equal(t, "", scoring.LowestPillar(nil))
}
