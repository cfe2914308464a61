package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/format"
)

func newBookmarksCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "bookmarks",
		Aliases:           []string{"bm"},
		Short:             "Manage your bookmarks",
		PersistentPreRunE: rt.openWithSession,
	}

	cmd.AddCommand(
		newBookmarksListCmd(rt),
		newBookmarksGetCmd(rt),
		newBookmarksAddCmd(rt),
		newBookmarksEditCmd(rt),
		newBookmarksRmCmd(rt),
		newBookmarksToggleCmd(rt),
		newBookmarksFoldersCmd(rt),
	)
	return cmd
}

func newBookmarksListCmd(rt *runtime) *cobra.Command {
	var f domain.Filters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := rt.app.API.Bookmarks().List(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("list bookmarks: %w", err)
			}
			return printBookmarks(cmd.OutOrStdout(), list, true, time.Now())
		},
	}

	cmd.Flags().StringVar(&f.Folder, "folder", "", "only this folder")
	cmd.Flags().StringVar(&f.Tag, "tag", "", "only bookmarks with this tag")
	cmd.Flags().StringVar(&f.Search, "search", "", "full text search")
	return cmd
}

func newBookmarksGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := rt.app.API.Bookmarks().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printBookmark(cmd.OutOrStdout(), b, time.Now())
		},
	}
}

func newBookmarksAddCmd(rt *runtime) *cobra.Command {
	var (
		title, description, folder string
		tags                       []string
		public                     bool
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateBookmarkURL(args[0]); err != nil {
				return err
			}

			in := domain.CreateBookmark{URL: args[0], Tags: domain.NormalizeTags(tags)}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = &title
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("folder") {
				in.Folder = &folder
			}
			if flags.Changed("public") {
				in.IsPublic = &public
			}

			b, err := rt.app.API.Bookmarks().Create(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("create bookmark: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added bookmark %d (%s)\n", b.ID, format.Domain(b.URL))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title (the backend fetches one when omitted)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&folder, "folder", "", "folder (default "+domain.DefaultFolder+")")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag, repeatable or comma separated")
	cmd.Flags().BoolVar(&public, "public", false, "show in the public feed")
	return cmd
}

func newBookmarksEditCmd(rt *runtime) *cobra.Command {
	var (
		url, title, description, folder string
		tags                            []string
		public                          bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a bookmark",
		Long:  "Only the flags given are sent; every other field keeps its value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var in domain.UpdateBookmark
			flags := cmd.Flags()
			if flags.Changed("url") {
				in.URL = &url
			}
			if flags.Changed("title") {
				in.Title = &title
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("folder") {
				in.Folder = &folder
			}
			if flags.Changed("public") {
				in.IsPublic = &public
			}
			if flags.Changed("tag") {
				in.Tags = domain.NormalizeTags(tags)
			}

			b, err := rt.app.API.Bookmarks().Update(cmd.Context(), id, in)
			if err != nil {
				return fmt.Errorf("update bookmark: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated bookmark %d\n", b.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "new URL")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&folder, "folder", "", "new folder")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replace the tags, repeatable or comma separated")
	cmd.Flags().BoolVar(&public, "public", false, "show in the public feed")
	return cmd
}

func newBookmarksRmCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.app.API.Bookmarks().Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete bookmark: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted bookmark %d\n", id)
			return nil
		},
	}
}

func newBookmarksToggleCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a bookmark between public and private",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ps, err := rt.app.API.Bookmarks().TogglePrivacy(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("toggle privacy: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bookmark %d is now %s\n", id, visibility(ps.IsPublic))
			return nil
		},
	}
}

func newBookmarksFoldersCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List folders with their bookmark counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := rt.app.API.Bookmarks().Folders(cmd.Context())
			if err != nil {
				return fmt.Errorf("list folders: %w", err)
			}
			if len(folders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No folders yet.")
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "FOLDER\tBOOKMARKS")
			for _, f := range folders {
				fmt.Fprintf(tw, "%s\t%s\n", f.Folder, format.Count(f.Count))
			}
			return tw.Flush()
		},
	}
}
