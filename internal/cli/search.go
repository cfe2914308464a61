package cli

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/search"
)

func newSearchCmd(rt *runtime) *cobra.Command {
	var (
		public      bool
		folder, tag string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search interactively, one query per input line",
		Long: "Every line read on stdin replaces the current query. Queries typed in quick " +
			"succession are coalesced and only the latest one is sent; results of a " +
			"superseded query are never printed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !public {
				if err := rt.requireSession(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			owner := !public
			sink := func(r search.Result) {
				fmt.Fprintf(out, "== %q (folder=%q tag=%q) ==\n", r.Query.Search, r.Query.Folder, r.Query.Tag)
				if err := printBookmarks(out, r.Bookmarks, owner, time.Now()); err != nil {
					rt.app.Logger().Warnf("failed to print results: %v", err)
				}
			}

			s := rt.app.NewSearcher(cmd.Context(), public, sink)
			defer s.Close()

			if folder != "" {
				s.SetFolder(folder)
			}
			if tag != "" {
				s.SetTag(tag)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				s.SetQuery(scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read queries: %w", err)
			}

			s.Flush()
			s.Wait()
			return nil
		},
	}

	cmd.Flags().BoolVar(&public, "public", false, "search the public feed instead of your bookmarks")
	cmd.Flags().StringVar(&folder, "folder", "", "restrict to a folder")
	cmd.Flags().StringVar(&tag, "tag", "", "restrict to a tag")
	return cmd
}
