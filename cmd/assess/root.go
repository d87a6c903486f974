package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/freedomology/backend/internal/domain/catalog"
	"github.com/freedomology/backend/internal/domain/scoring"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "assess",
		Short:        "Freedomology self-assessment",
		Long:         "assess scores the Freedomology self-assessment across the Health, Financial and Relationships pillars.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("catalog", "", "Path to a YAML question catalog (default: built-in catalog)")
	root.PersistentFlags().Int("cap-slack", scoring.DefaultCapSlack, "Points the overall score may exceed the lowest pillar by")
	root.PersistentFlags().Bool("verbose", false, "Log debug output to stderr")

	root.AddCommand(newTakeCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newCatalogCmd())
	return root
}

// newLogger writes human-readable logs to stderr, warnings only unless
// --verbose is set.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadScoring resolves the catalog and scoring engine from the persistent flags.
func loadScoring(cmd *cobra.Command) (*catalog.Catalog, *scoring.Engine, error) {
	path, _ := cmd.Flags().GetString("catalog")
	c, err := catalog.Load(path)
	if err != nil {
		return nil, nil, err
	}

	slack, _ := cmd.Flags().GetInt("cap-slack")
	engine, err := scoring.NewEngine(scoring.Config{CapSlack: slack})
	if err != nil {
		return nil, nil, err
	}

	newLogger(cmd).Debug("scoring ready", "catalog", path, "questions", c.Len(), "cap_slack", slack)
	return c, engine, nil
}
