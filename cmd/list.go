package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"acb/internal/console"
)

// newListCmd creates the Cobra command listing every registered adapter and
// its current enablement, rendered as a table over this core's own
// registry.Descriptor catalogue.
func newListCmd() *cobra.Command {
	var category string

	c := &cobra.Command{
		Use:   "list",
		Short: "List registered adapters and their enablement",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := buildGraph(context.Background())
			if err != nil {
				return fmt.Errorf("building graph: %w", err)
			}

			descriptors := res.Registry.Iter(category)

			headers := []string{"category", "provider", "status", "enabled", "name"}
			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				enabledProvider, _ := res.Registry.EnabledProvider(d.Category)
				enabled := ""
				if enabledProvider == d.Provider {
					enabled = "yes"
				}
				rows = append(rows, []string{d.Category, d.Provider, string(d.Status), enabled, d.Name})
			}

			out := console.New(console.ResolveWidth(console.OSEnv{}, 0), console.ColorsEnabled(console.OSEnv{}))
			fmt.Fprint(cmd.OutOrStdout(), out.Table(headers, rows))
			return nil
		},
	}

	c.Flags().StringVar(&category, "category", "", "filter by adapter category")
	return c
}
