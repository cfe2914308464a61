package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/format"
)

func newTagsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "tags",
		Short:             "Manage your tags",
		PersistentPreRunE: rt.openWithSession,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tags",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				tags, err := rt.app.API.Tags().List(cmd.Context())
				if err != nil {
					return fmt.Errorf("list tags: %w", err)
				}
				if len(tags) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tags yet.")
					return nil
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tUSED")
				for _, t := range tags {
					used := "-"
					if t.UsageCount != nil {
						used = format.Count(*t.UsageCount)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, t.Name, used)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a tag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.TrimSpace(args[0])
				if name == "" {
					return &domain.ValidationError{Field: "name", Message: "tag name is empty"}
				}
				t, err := rt.app.API.Tags().Create(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("create tag: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created tag %q (%d)\n", t.Name, t.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"delete"},
			Short:   "Delete a tag",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := rt.app.API.Tags().Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete tag: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %d\n", id)
				return nil
			},
		},
	)
	return cmd
}
