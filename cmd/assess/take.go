package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/freedomology/backend/internal/domain/assessment"
	"github.com/freedomology/backend/internal/domain/catalog"
	"github.com/freedomology/backend/internal/id"
	"github.com/freedomology/backend/internal/store"
)

const backItem = "← Back"

func newTakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take the assessment interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, engine, err := loadScoring(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd)

			sess, err := assessment.NewSession(id.GenerateID(), c)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %d questions. Use the arrow keys and Enter; pick %q to revisit the previous question.\n\n",
				bold("Freedomology assessment:"), sess.Total(), backItem)

			if err := walk(sess); err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					fmt.Fprintln(w, yellow("assessment abandoned"))
					return nil
				}
				return err
			}

			res := engine.Compute(c, sess.Answers())
			printResult(w, res)

			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				return nil
			}
			db, err := store.NewSQLite(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := db.RecordStart(ctx, sess.ID(), sess.StartedAt()); err != nil {
				return err
			}
			err = db.RecordCompletion(ctx, store.CompletedAssessment{
				ID:          sess.ID(),
				StartedAt:   sess.StartedAt(),
				CompletedAt: sess.UpdatedAt(),
				Answers:     sess.Answers(),
				Result:      res,
			})
			if err != nil {
				return err
			}
			logger.Info("result recorded", "session_id", sess.ID(), "db", dbPath)
			fmt.Fprintln(w, gray("\nsaved as "+sess.ID()))
			return nil
		},
	}
	cmd.Flags().String("db", "", "Record the completed assessment in this SQLite database")
	return cmd
}

// walk prompts for each question until the session completes.
func walk(sess *assessment.Session) error {
	c := sess.Catalog()
	for !sess.IsComplete() {
		q := sess.Current()
		items, cursor := promptItems(q, sess)

		sel := promptui.Select{
			Label:     questionLabel(c, q, sess),
			Items:     items,
			CursorPos: cursor,
			Size:      len(items),
			HideHelp:  true,
		}
		i, _, err := sel.Run()
		if err != nil {
			return err
		}

		if i == len(q.Options) {
			if err := sess.Previous(); err != nil && !errors.Is(err, assessment.ErrOutOfRange) {
				return err
			}
			continue
		}
		if err := sess.Answer(q.Options[i].Value); err != nil {
			return err
		}
	}
	return nil
}

// promptItems lists the option labels, plus a back entry after the first
// question. The cursor starts on the previously chosen option.
func promptItems(q catalog.Question, sess *assessment.Session) ([]string, int) {
	items := make([]string, 0, len(q.Options)+1)
	cursor := 0
	prev, answered := sess.CurrentValue()
	for i, o := range q.Options {
		items = append(items, o.Label)
		if answered && o.Value == prev {
			cursor = i
		}
	}
	if !sess.IsFirst() {
		items = append(items, backItem)
	}
	return items, cursor
}

func questionLabel(c *catalog.Catalog, q catalog.Question, sess *assessment.Session) string {
	pillar, _ := c.Pillar(q.PillarID)
	return fmt.Sprintf("%s %s %s",
		gray(fmt.Sprintf("[%d/%d]", sess.Index()+1, sess.Total())),
		cyan(pillar.Name),
		q.Text)
}
