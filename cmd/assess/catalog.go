package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freedomology/backend/internal/domain/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect question catalogs",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [path]",
		Short: "Load and validate a catalog file (default: built-in catalog)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("catalog")
			if len(args) == 1 {
				path = args[0]
			}

			c, err := catalog.Load(path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			pillars, categories, questions := c.Stats()
			fmt.Fprintf(w, "%s %d pillars, %d categories, %d questions\n", green("valid:"), pillars, categories, questions)
			for _, p := range c.Pillars() {
				n := 0
				for _, cat := range p.Categories {
					n += len(cat.Questions)
				}
				fmt.Fprintf(w, "  %-14s %d categories, %d questions\n", p.Name, len(p.Categories), n)
			}
			if questions == 0 {
				fmt.Fprintln(w, yellow("warning: catalog has no questions; sessions cannot be started"))
			}
			return nil
		},
	})
	return cmd
}
