package simulation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedomology/backend/internal/domain/catalog"
	"github.com/freedomology/backend/internal/domain/scoring"
	"github.com/freedomology/backend/internal/simulation"
)

func engine(t *testing.T, slack int) *scoring.Engine {
	t.Helper()
	e, err := scoring.NewEngine(scoring.Config{CapSlack: slack})
	require.NoError(t, err)
	return e
}

func TestRun_Report(t *testing.T) {
	opts := simulation.Options{Respondents: 200, Workers: 4, Seed: 7}

	rep, err := simulation.Run(context.Background(), catalog.MustDefault(), engine(t, 10), opts)
	require.NoError(t, err)

	assert.Equal(t, 200, rep.Respondents)
	assert.LessOrEqual(t, rep.MeanOverall, rep.MeanRaw)
	assert.GreaterOrEqual(t, rep.CappedRate, 0.0)
	assert.LessOrEqual(t, rep.CappedRate, 1.0)

	total := 0
	for _, n := range rep.Histogram {
		total += n
	}
	assert.Equal(t, 200, total)

	lowest := 0
	for _, n := range rep.LowestPillar {
		lowest += n
	}
	assert.Equal(t, 200, lowest)
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	e := engine(t, 10)
	a, err := simulation.Run(context.Background(), catalog.MustDefault(), e,
		simulation.Options{Respondents: 100, Workers: 1, Seed: 3})
	require.NoError(t, err)
	b, err := simulation.Run(context.Background(), catalog.MustDefault(), e,
		simulation.Options{Respondents: 100, Workers: 8, Seed: 3})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRun_WideSlackNeverCaps(t *testing.T) {
	rep, err := simulation.Run(context.Background(), catalog.MustDefault(), engine(t, 100),
		simulation.Options{Respondents: 50, Workers: 2, Seed: 1})
	require.NoError(t, err)

	assert.Zero(t, rep.CappedRate)
	assert.Equal(t, rep.MeanRaw, rep.MeanOverall)
}

func TestRun_ZeroSlackCapsAtLowestPillar(t *testing.T) {
	rep, err := simulation.Run(context.Background(), catalog.MustDefault(), engine(t, 0),
		simulation.Options{Respondents: 50, Workers: 2, Seed: 1})
	require.NoError(t, err)

	assert.Greater(t, rep.CappedRate, 0.0)
	assert.Less(t, rep.MeanOverall, rep.MeanRaw)
}

func TestRun_RejectsNoRespondents(t *testing.T) {
	_, err := simulation.Run(context.Background(), catalog.MustDefault(), engine(t, 10),
		simulation.Options{Respondents: 0})
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := simulation.Run(ctx, catalog.MustDefault(), engine(t, 10), simulation.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}
