package cmd

import (
	"context"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"acb/internal/di"
)

// newResolveCmd creates the Cobra command that force-resolves one category
// through the full registry → settings → DI pipeline and prints the
// resulting instance. Secret-valued settings fields never leak here: they
// format through settings.SecretString's String(), which always renders the
// fixed mask rather than the plaintext.
func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <category>",
		Short: "Resolve an adapter category and print the hydrated instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := args[0]
			ctx := context.Background()

			res, err := buildGraph(ctx)
			if err != nil {
				return fmt.Errorf("building graph: %w", err)
			}

			desc, err := res.Registry.Resolve(category)
			if err != nil {
				return fmt.Errorf("resolving category %q: %w", category, err)
			}

			inst, err := res.Container.Get(ctx, di.Key{Category: desc.Category, Name: desc.Provider})
			if err != nil {
				return fmt.Errorf("constructing %s/%s: %w", desc.Category, desc.Provider, err)
			}

			shown := inst
			if m := reflect.ValueOf(inst).MethodByName("Settings"); m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
				shown = m.Call(nil)[0].Interface()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s (%s): %+v\n", desc.Category, desc.Provider, desc.Status, shown)
			return nil
		},
	}
}
