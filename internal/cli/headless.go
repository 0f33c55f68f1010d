package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/config"
	"github.com/tessro/minispot/internal/connect"
)

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Run the device without a window",
	Long: `Advertise the device and play without any interface. Player events are
written to the log. Stop with Ctrl+C.`,
	RunE: runHeadless,
}

func init() {
	rootCmd.AddCommand(headlessCmd)
}

// endpoint is what the headless host drives.
type endpoint interface {
	connect.Surface
	Wait()
}

// baseContext scopes the endpoint's background work to the app lifetime.
type baseContext struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newBaseContext() *baseContext {
	ctx, cancel := context.WithCancel(context.Background())
	return &baseContext{ctx: ctx, cancel: cancel}
}

// newLogNotifier writes player events to the log.
func newLogNotifier(log *zap.Logger) connect.Notifier {
	log = log.Named("events")
	return connect.NotifierFunc(func(event, payload string) error {
		kind, summary, err := connect.ParsePayload(payload)
		if err != nil {
			return err
		}
		fields := []zap.Field{zap.String("kind", kind)}
		if summary != nil {
			fields = append(fields,
				zap.String("track", summary.Name),
				zap.String("artists", summary.Artists),
				zap.String("album", summary.Album),
				zap.String("cover", summary.CoverURL))
		}
		log.Info(event, fields...)
		return nil
	})
}

func newHeadlessEndpoint(base *baseContext, c *config.Config, n connect.Notifier, log *zap.Logger) (endpoint, error) {
	orch, err := newOrchestrator(base.ctx, c, n, log)
	if err != nil {
		return nil, err
	}
	return orch, nil
}

func registerHeadlessHooks(lc fx.Lifecycle, base *baseContext, ep endpoint, log *zap.Logger) {
	started := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(started)
				if err := ep.Start(base.ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("endpoint failed to start", zap.Error(err))
					return
				}
				if ep.CheckPlayerState() {
					log.Info("endpoint ready")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			base.cancel()
			done := make(chan struct{})
			go func() {
				<-started
				ep.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func headlessOptions(c *config.Config, log *zap.Logger) fx.Option {
	return fx.Options(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Supply(c, log),
		fx.Provide(
			newBaseContext,
			newLogNotifier,
			newHeadlessEndpoint,
		),
		fx.Invoke(registerHeadlessHooks),
	)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	app := fx.New(headlessOptions(cfg, logger))

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	return app.Stop(stopCtx)
}
