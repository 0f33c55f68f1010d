package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"ui"},
	Short:   "Run the device with a terminal interface",
	Long: `Advertise the device and show what it is playing in the terminal.

Keyboard shortcuts:
  Space        Play/Pause
  n            Next track
  p            Previous track
  r            Retry after a failed start
  q, Ctrl+C    Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The alternate screen owns stdout; keep logs off the terminal unless
	// a log file is configured.
	log := logger
	if cfg.Log.File == "" {
		log = zap.NewNop()
	}

	base, stop := context.WithCancel(ctx)
	notifier := tui.NewNotifier(0)
	orch, err := newOrchestrator(base, cfg, notifier, log)
	if err != nil {
		stop()
		return err
	}
	defer func() {
		stop()
		orch.Wait()
	}()

	return tui.Run(base, orch, notifier.Events(), cfg.Device.Name)
}
