package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/version"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Serve the session and API over HTTP",
		Long:        "Run the backend-for-frontend: one shared session, JSON routes under /api, health probes and periodic session revalidation.",
		Args:        cobra.NoArgs,
		Annotations: noRestore(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				rt.app.Config().ListenPort = listen
			}
			return rt.app.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (or MARKS_LISTEN_PORT env)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: noSetup(),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get())
			return nil
		},
	}
}
