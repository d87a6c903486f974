package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
	"github.com/freedomology/backend/internal/domain/scoring"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScore_JSON(t *testing.T) {
	var answers bytes.Buffer
	for _, q := range catalog.MustDefault().Questions() {
		v := 5
		if q.PillarID == "financial" {
			v = 2
		}
		answers.WriteString(q.ID + ": " + string(rune('0'+v)) + "\n")
	}
	path := writeFile(t, "answers.yaml", answers.String())

	out, err := execute(t, "score", path, "--json")
	require.NoError(t, err)

	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 80, res.RawOverall)
	assert.Equal(t, 50, res.Overall)
	assert.True(t, res.Capped)
	assert.Equal(t, "financial", res.LowestPillar)
}

func TestScore_CapSlackFlag(t *testing.T) {
	path := writeFile(t, "answers.yaml", "mh-1: 5\n")

	out, err := execute(t, "score", path, "--json", "--cap-slack", "100")
	require.NoError(t, err)

	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Capped)
}

func TestScore_Text(t *testing.T) {
	path := writeFile(t, "answers.yaml", "mh-1: 4\nim-1: 3\n")

	out, err := execute(t, "score", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Freedom Score:")
	assert.Contains(t, out, "Pillars")
	assert.Contains(t, out, "Recommended:")
}

func TestScore_RejectsBadAnswers(t *testing.T) {
	tests := map[string]string{
		"unknown question": "nope: 3\n",
		"invalid value":    "mh-1: 9\n",
		"not a number":     "mh-1: often\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, "score", writeFile(t, "answers.yaml", content))
			assert.Error(t, err)
		})
	}
}

func TestReadAnswers_InvalidValueWrapsSentinel(t *testing.T) {
	path := writeFile(t, "answers.yaml", "mh-1: 0\n")

	_, err := readAnswers(path, catalog.MustDefault())
	assert.ErrorIs(t, err, assessment.ErrInvalidAnswer)
}

func TestCatalogValidate(t *testing.T) {
	out, err := execute(t, "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "3 pillars, 9 categories, 27 questions")

	path := writeFile(t, "catalog.yaml", `
pillars:
  - id: health
    name: Health
    categories:
      - id: sleep
        questions:
          - id: s-1
            text: I sleep well.
`)
	out, err = execute(t, "catalog", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 pillars, 1 categories, 1 questions")
}

func TestCatalogValidate_Invalid(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
pillars:
  - id: health
    categories:
      - id: sleep
        questions:
          - id: s-1
            options: [0, 1]
`)
	_, err := execute(t, "catalog", "validate", path)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestSimulate(t *testing.T) {
	out, err := execute(t, "simulate", "--respondents", "50", "--workers", "2", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "50 respondents, cap slack 10")
	assert.Contains(t, out, "Lowest pillar")
	assert.Contains(t, out, "relationships")
}

func TestPromptItems(t *testing.T) {
	c := catalog.MustDefault()
	sess, err := assessment.NewSession("s", c)
	require.NoError(t, err)

	items, cursor := promptItems(sess.Current(), sess)
	assert.Len(t, items, 5)
	assert.Equal(t, 0, cursor)

	require.NoError(t, sess.Answer(4))
	require.NoError(t, sess.Previous())
	items, cursor = promptItems(sess.Current(), sess)
	assert.Len(t, items, 5)
	assert.Equal(t, 3, cursor)

	require.NoError(t, sess.Next())
	items, _ = promptItems(sess.Current(), sess)
	assert.Equal(t, backItem, items[len(items)-1])
}
