package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/sources/homepage"
)

func newImportCmd(rt *runtime) *cobra.Command {
	var (
		kind   string
		public bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import a gethomepage.dev bookmarks.yaml or services.yaml",
		Long: "Import entries of a Homepage configuration file as bookmarks. " +
			"Categories become folders and abbreviations (or service names) become tags.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dryRun {
				if err := rt.requireSession(); err != nil {
					return err
				}
			}

			im := rt.app.NewImporter()
			im.Public = public
			im.DryRun = dryRun

			sum, err := im.ImportFile(cmd.Context(), homepage.Kind(kind), args[0])
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			for _, s := range sum.Skipped {
				fmt.Fprintf(out, "skipped %s/%s: %s\n", s.Folder, s.Name, s.Reason)
			}
			for _, f := range sum.Failed {
				fmt.Fprintf(out, "failed  %s: %v\n", f.URL, f.Err)
			}
			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			fmt.Fprintf(out, "%s %d bookmark(s), %d failed, %d skipped\n",
				verb, sum.Created, len(sum.Failed), len(sum.Skipped))

			if len(sum.Failed) > 0 {
				return fmt.Errorf("%d bookmark(s) could not be imported", len(sum.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(homepage.KindBookmarks), "file kind: bookmarks or services")
	cmd.Flags().BoolVar(&public, "public", false, "mark every imported bookmark public")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "map and validate without creating anything")
	return cmd
}
