package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/format"
)

func newPublicCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "public",
		Short: "Browse the public feed",
	}
	cmd.AddCommand(newPublicListCmd(rt), newPublicUserCmd(rt), newPublicTagsCmd(rt))
	return cmd
}

func newPublicListCmd(rt *runtime) *cobra.Command {
	var f domain.PublicFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List public bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				f.Limit = rt.app.Config().PublicLimit
			}
			list, err := rt.app.API.Public().Bookmarks(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("list public bookmarks: %w", err)
			}
			return printBookmarks(cmd.OutOrStdout(), list, false, time.Now())
		},
	}

	cmd.Flags().StringVar(&f.Tag, "tag", "", "only bookmarks with this tag")
	cmd.Flags().StringVar(&f.Search, "search", "", "full text search")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "page size (or MARKS_PUBLIC_LIMIT env)")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "entries to skip")
	return cmd
}

func newPublicUserCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "user <username>",
		Short: "Show a user's public profile and bookmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			u, err := rt.app.API.Users().PublicProfile(ctx, args[0])
			if err != nil {
				return err
			}
			list, err := rt.app.API.Public().UserBookmarks(ctx, args[0])
			if err != nil {
				return fmt.Errorf("list bookmarks of %s: %w", args[0], err)
			}

			now := time.Now()
			if err := printUser(out, u, now); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printBookmarks(out, list, false, now)
		},
	}
}

func newPublicTagsCmd(rt *runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Show the most used public tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = rt.app.Config().PopularTags
			}
			tags, err := rt.app.API.Public().PopularTags(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("popular tags: %w", err)
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No public tags yet.")
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "TAG\tUSED")
			for _, t := range tags {
				fmt.Fprintf(tw, "%s\t%s\n", t.Name, format.Count(t.UsageCount))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of tags (or MARKS_POPULAR_TAGS env)")
	return cmd
}
