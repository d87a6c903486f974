package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <answers.yaml>",
		Short: "Score a file of question-id: value answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, engine, err := loadScoring(cmd)
			if err != nil {
				return err
			}
			answers, err := readAnswers(args[0], c)
			if err != nil {
				return err
			}

			res := engine.Compute(c, answers)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	return cmd
}

// readAnswers loads a YAML mapping of question id to value and checks every
// entry against the catalog. Questions left out count as unanswered.
func readAnswers(path string, c *catalog.Catalog) (assessment.AnswerStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	var raw map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}

	answers := make(assessment.AnswerStore, len(raw))
	for id, v := range raw {
		q, ok := c.Question(id)
		if !ok {
			return nil, fmt.Errorf("answers %s: unknown question %q", path, id)
		}
		if !q.HasOption(v) {
			return nil, fmt.Errorf("answers %s: question %q: %w: %d", path, id, assessment.ErrInvalidAnswer, v)
		}
		answers[id] = v
	}
	return answers, nil
}
