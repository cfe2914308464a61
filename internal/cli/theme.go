package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

func newThemeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintln(out, rt.app.Theme.Get(ctx))
				return nil
			}

			if args[0] == "toggle" {
				t, err := rt.app.Theme.Toggle(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Theme set to %s\n", t)
				return nil
			}

			if err := rt.app.Theme.Set(ctx, domain.Theme(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(out, "Theme set to %s\n", args[0])
			return nil
		},
	}
}
