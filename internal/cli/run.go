package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/config"
	"github.com/tessro/minispot/internal/connect"
	"github.com/tessro/minispot/internal/desktop"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the desktop window",
	Long: `Open the desktop window and advertise the device on the local network.

This is what minispot does when run without a subcommand.`,
	RunE: runDesktop,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDesktop(cmd *cobra.Command, args []string) error {
	app := desktop.NewApp(desktopFactory(cfg, logger), logger)

	return desktop.Run(desktop.Window{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	}, app)
}

// desktopFactory builds the orchestrator once the window exists. A failed
// build yields a nil Surface so the app stays unbound.
func desktopFactory(c *config.Config, log *zap.Logger) desktop.Factory {
	return func(base context.Context, n connect.Notifier) (connect.Surface, error) {
		o, err := newOrchestrator(base, c, n, log)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
}
