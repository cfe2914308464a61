// Package cli is the marks command line front end.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/app"
	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
)

// setupKey annotates commands that need less than the full setup.
const (
	setupKey       = "marks.setup"
	setupNoRestore = "no-restore" // build the app, leave the session untouched
	setupNone      = "none"       // build nothing
)

type runtime struct {
	apiURL    string
	logLevel  string
	stateFile string
	ephemeral bool

	app *app.App
}

// NewRootCmd creates the root cobra command for the marks CLI.
func NewRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "marks",
		Short: "marks is a bookmark manager client",
		Long:  "marks manages your bookmarks, tags and profile against a marks backend, and can serve them over HTTP.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.open(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rt.apiURL, "api-url", "", "backend base URL (or MARKS_API_URL env)")
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "log level: debug, info, warn, error (or MARKS_LOG_LEVEL env)")
	root.PersistentFlags().StringVar(&rt.stateFile, "state-file", "", "path of the state file (or MARKS_STATE_FILE env)")
	root.PersistentFlags().BoolVar(&rt.ephemeral, "ephemeral", false, "keep state in memory only")

	root.AddCommand(
		newLoginCmd(rt),
		newRegisterCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newBookmarksCmd(rt),
		newTagsCmd(rt),
		newPublicCmd(rt),
		newProfileCmd(rt),
		newThemeCmd(rt),
		newSearchCmd(rt),
		newImportCmd(rt),
		newServeCmd(rt),
		newVersionCmd(),
	)

	return root
}

func (rt *runtime) open(cmd *cobra.Command) error {
	if cmd.Annotations[setupKey] == setupNone {
		return nil
	}

	cfg := config.Load()
	if rt.apiURL != "" {
		cfg.APIURL = strings.TrimRight(rt.apiURL, "/")
	}
	if rt.logLevel != "" {
		cfg.LogLevel = rt.logLevel
	}
	if rt.stateFile != "" {
		cfg.StateBackend = config.BackendFile
		cfg.StateFile = rt.stateFile
	}
	if rt.ephemeral {
		cfg.StateBackend = config.BackendMemory
	}

	a, err := app.New(cmd.Context(), cfg, logger.New(cfg.LogLevel, cfg.PrettyLog))
	if err != nil {
		return err
	}
	rt.app = a

	if cmd.Annotations[setupKey] == "" {
		a.Restore(cmd.Context())
	}
	return nil
}

func (rt *runtime) close() {
	if rt.app == nil {
		return
	}
	rt.app.Close()
	_ = rt.app.Logger().Sync()
}

// requireSession fails early when nobody is logged in.
func (rt *runtime) requireSession() error {
	if !rt.app.Session.IsAuthenticated() {
		return fmt.Errorf("%w: run `marks login` first", session.ErrNoSession)
	}
	return nil
}

// openWithSession is the pre-run hook of command groups that act for the user.
// It replaces the root hook, so it opens the app itself.
func (rt *runtime) openWithSession(cmd *cobra.Command, _ []string) error {
	if err := rt.open(cmd); err != nil {
		return err
	}
	return rt.requireSession()
}

func noRestore() map[string]string { return map[string]string{setupKey: setupNoRestore} }

func noSetup() map[string]string { return map[string]string{setupKey: setupNone} }
