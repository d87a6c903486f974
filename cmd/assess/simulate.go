package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freedomology/backend/internal/simulation"
)

func newSimulateCmd() *cobra.Command {
	defaults := simulation.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Score synthetic respondents to see how often the cap binds",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, engine, err := loadScoring(cmd)
			if err != nil {
				return err
			}

			opts := simulation.Options{}
			opts.Respondents, _ = cmd.Flags().GetInt("respondents")
			opts.Workers, _ = cmd.Flags().GetInt("workers")
			opts.Seed, _ = cmd.Flags().GetUint64("seed")

			rep, err := simulation.Run(cmd.Context(), c, engine, opts)
			if err != nil {
				return err
			}

			slack := engine.Config().CapSlack
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %d respondents, cap slack %d\n", bold("Simulated"), rep.Respondents, slack)
			fmt.Fprintf(w, "  mean raw overall   %6.1f\n", rep.MeanRaw)
			fmt.Fprintf(w, "  mean overall       %6.1f\n", rep.MeanOverall)
			fmt.Fprintf(w, "  capped             %5.1f%%\n", rep.CappedRate*100)
			fmt.Fprintf(w, "  mean drop if capped %5.1f\n", rep.MeanDrop)

			fmt.Fprintf(w, "\n%s\n", bold("Lowest pillar"))
			for _, id := range c.PillarOrder() {
				fmt.Fprintf(w, "  %-14s %d\n", id, rep.LowestPillar[id])
			}

			fmt.Fprintf(w, "\n%s\n", bold("Overall distribution"))
			for i, n := range rep.Histogram {
				width := 0
				if rep.Respondents > 0 {
					width = n * 40 / rep.Respondents
				}
				fmt.Fprintf(w, "  %3d-%-3d %s %d\n", i*10, i*10+9, cyan(strings.Repeat("■", width)), n)
			}
			return nil
		},
	}
	cmd.Flags().Int("respondents", defaults.Respondents, "Number of synthetic respondents")
	cmd.Flags().Int("workers", defaults.Workers, "Concurrent respondents")
	cmd.Flags().Uint64("seed", defaults.Seed, "Random seed")
	return cmd
}
