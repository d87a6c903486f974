package assessment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
)

// fourQuestions builds two pillars with two single-question categories each.
func fourQuestions(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Pillar{
		{ID: "health", Categories: []catalog.Category{
			{ID: "mind", Questions: []catalog.Question{{ID: "q1"}}},
			{ID: "body", Questions: []catalog.Question{{ID: "q2"}}},
		}},
		{ID: "money", Categories: []catalog.Category{
			{ID: "income", Questions: []catalog.Question{{ID: "q3", Options: []catalog.Option{{Value: 1}, {Value: 3}, {Value: 5}}}}},
			{ID: "impact", Questions: []catalog.Question{{ID: "q4"}}},
		}},
	})
	require.NoError(t, err)
	return c
}

func newSession(t *testing.T) *assessment.Session {
	t.Helper()
	s, err := assessment.NewSession("s1", fourQuestions(t))
	require.NoError(t, err)
	return s
}

func TestNewSession_InitialState(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, "s1", s.ID())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 4, s.Total())
	assert.Equal(t, assessment.StateInProgress, s.State())
	assert.True(t, s.IsFirst())
	assert.False(t, s.IsLast())
	assert.Equal(t, "q1", s.Current().ID)
	assert.Empty(t, s.Answers())
	assert.InDelta(t, 25.0, s.Progress(), 1e-9)
}

func TestNewSession_EmptyCatalog(t *testing.T) {
	c, err := catalog.New([]catalog.Pillar{{ID: "p", Categories: []catalog.Category{{ID: "c"}}}})
	require.NoError(t, err)

	_, err = assessment.NewSession("s", c)
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)

	_, err = assessment.NewSession("s", nil)
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)
}

func TestAnswer_RecordsAndAdvances(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.Answer(4))
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, assessment.AnswerStore{"q1": 4}, s.Answers())
	assert.InDelta(t, 50.0, s.Progress(), 1e-9)
}

func TestAnswer_InvalidValueChangesNothing(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Answer(4))
	require.NoError(t, s.Answer(4))

	// q3 only offers 1, 3 and 5.
	err := s.Answer(2)
	assert.ErrorIs(t, err, assessment.ErrInvalidAnswer)
	assert.Equal(t, 2, s.Index())
	assert.False(t, s.Answers().Has("q3"))

	for _, v := range []int{0, 6, -1} {
		assert.ErrorIs(t, s.Answer(v), assessment.ErrInvalidAnswer)
	}
	assert.Equal(t, 2, s.Index())
}

func TestAnswer_ReansweringOverwrites(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Answer(2))
	require.NoError(t, s.Previous())

	require.NoError(t, s.Answer(2))
	once := s.Answers()
	require.NoError(t, s.Previous())
	require.NoError(t, s.Answer(2))

	assert.Equal(t, once, s.Answers(), "same value twice leaves the store unchanged")
	assert.Equal(t, 1, s.Index(), "cursor still advances each call")

	require.NoError(t, s.Previous())
	require.NoError(t, s.Answer(5))
	v, ok := s.Answers().Get("q1")
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Len(t, s.Answers(), 1)
}

func TestAnswer_CompletionOnlyOnLastQuestion(t *testing.T) {
	s := newSession(t)

	for _, v := range []int{3, 3, 3} {
		require.NoError(t, s.Answer(v))
		assert.False(t, s.IsComplete())
	}
	assert.True(t, s.IsLast())

	require.NoError(t, s.Answer(3))
	assert.True(t, s.IsComplete())
	assert.Equal(t, assessment.StateComplete, s.State())
	assert.Equal(t, 3, s.Index(), "cursor stays on the last question")
	assert.InDelta(t, 100.0, s.Progress(), 1e-9)
}

func TestComplete_IsTerminalUntilReset(t *testing.T) {
	s := newSession(t)
	for _, v := range []int{1, 1, 1, 1} {
		require.NoError(t, s.Answer(v))
	}

	assert.ErrorIs(t, s.Answer(5), assessment.ErrComplete)
	assert.ErrorIs(t, s.Next(), assessment.ErrComplete)
	assert.ErrorIs(t, s.Previous(), assessment.ErrComplete)
	assert.Equal(t, assessment.AnswerStore{"q1": 1, "q2": 1, "q3": 1, "q4": 1}, s.Answers())
}

func TestNext_RequiresAnswer(t *testing.T) {
	s := newSession(t)

	assert.ErrorIs(t, s.Next(), assessment.ErrUnanswered)
	assert.Equal(t, 0, s.Index())

	require.NoError(t, s.Answer(3))
	require.NoError(t, s.Previous())
	require.NoError(t, s.Next())
	assert.Equal(t, 1, s.Index())
}

func TestNext_ClampedAtLastQuestion(t *testing.T) {
	s := newSession(t)
	for _, v := range []int{3, 3, 3} {
		require.NoError(t, s.Answer(v))
	}
	assert.True(t, s.IsLast())
	assert.ErrorIs(t, s.Next(), assessment.ErrUnanswered)

	// An answered but still open last question only arises from a restored
	// snapshot; next must leave the cursor where it is.
	snap := s.Snapshot()
	snap.Answers["q4"] = 2
	restored, err := assessment.Restore(s.Catalog(), snap)
	require.NoError(t, err)

	assert.ErrorIs(t, restored.Next(), assessment.ErrOutOfRange)
	assert.Equal(t, 3, restored.Index())
	assert.False(t, restored.IsComplete())
}

func TestPrevious_NoOpAtFirstQuestion(t *testing.T) {
	s := newSession(t)

	assert.ErrorIs(t, s.Previous(), assessment.ErrOutOfRange)
	assert.Equal(t, 0, s.Index())

	require.NoError(t, s.Answer(3))
	require.NoError(t, s.Previous())
	assert.Equal(t, 0, s.Index())
	v, ok := s.CurrentValue()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestReset_RestoresInitialState(t *testing.T) {
	for depth := 0; depth <= 4; depth++ {
		s := newSession(t)
		values := []int{5, 5, 5, 5}
		for i := 0; i < depth; i++ {
			require.NoError(t, s.Answer(values[i]))
		}

		s.Reset()

		assert.Empty(t, s.Answers(), "depth %d", depth)
		assert.Equal(t, 0, s.Index(), "depth %d", depth)
		assert.False(t, s.IsComplete(), "depth %d", depth)
		assert.Equal(t, "s1", s.ID())
	}
}

func TestAnswers_ReturnsCopy(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Answer(4))

	a := s.Answers()
	a["q1"] = 1
	a["q2"] = 1

	assert.Equal(t, assessment.AnswerStore{"q1": 4}, s.Answers())
}
