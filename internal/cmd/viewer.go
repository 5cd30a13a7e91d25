package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/shortcuts/internal/app"
	"github.com/Iron-Ham/shortcuts/internal/gui"
	"github.com/Iron-Ham/shortcuts/internal/runner"
	"github.com/Iron-Ham/shortcuts/internal/tui"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop viewer (default)",
	Long: `Open the desktop viewer window.

Only one viewer runs at a time; a second one reports the running instance
and exits with status 1. The global hotkey shows and hides the window, and
closing the window releases the instance lock.`,
	Args: cobra.NoArgs,
	RunE: runGUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse shortcuts in the terminal",
	Long: `Browse shortcuts in a full-screen terminal viewer.

Keys: j/k move, tab switches pane, / searches, c copies the selected
command, r reloads, s syncs from the cloud, a runs the agent, q quits.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	appCtx := app.New(cfg, logger)
	return gui.Run(appCtx, logger)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	// Collaborators must not write over the alternate screen.
	quiet := capturingRunner{runner.New(logger, app.RunnerOptions(cfg)...)}
	appCtx := app.New(cfg, logger, app.WithRunner(quiet))
	if err := appCtx.Start(); err != nil {
		return err
	}
	defer appCtx.Close()

	if cfg.Cloud.SyncOnStartup {
		if err := appCtx.SyncFromCloud(); err != nil {
			logger.Warn("startup sync failed", "error", err)
		}
	} else {
		_, _ = appCtx.Reload()
	}

	return tui.Run(appCtx,
		tui.WithLogger(logger),
		tui.WithSidebarWidth(cfg.TUI.SidebarWidth),
	)
}

// capturingRunner captures collaborator output instead of sharing the
// terminal.
type capturingRunner struct {
	*runner.Runner
}

func (r capturingRunner) Run(args []string) (runner.Result, error) {
	return r.Output(args)
}
