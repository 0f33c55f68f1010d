// Package desktop hosts the command surface in a Wails webview window.
package desktop

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/connect"
	minierrors "github.com/tessro/minispot/internal/errors"
)

var eventsEmit = runtime.EventsEmit

// Factory builds the command surface once the window runtime exists.
// Background work must stop when base is cancelled.
type Factory func(base context.Context, notifier connect.Notifier) (connect.Surface, error)

// App is bound to the frontend. Its exported methods are the commands the
// page can invoke.
type App struct {
	build  Factory
	logger *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	surface connect.Surface
}

// NewApp creates an App.
func NewApp(build Factory, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{build: build, logger: logger.Named("desktop")}
}

func (a *App) startup(ctx context.Context) {
	base, cancel := context.WithCancel(ctx)

	notifier := connect.NotifierFunc(func(event, payload string) error {
		eventsEmit(ctx, event, payload)
		return nil
	})
	surface, err := a.build(base, notifier)
	if err != nil {
		a.logger.Error("failed to build command surface", zap.Error(err))
	}

	a.mu.Lock()
	a.ctx, a.cancel, a.surface = base, cancel, surface
	a.mu.Unlock()
}

func (a *App) shutdown(context.Context) {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (a *App) current() (context.Context, connect.Surface) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx, a.surface
}

// StartSpotifyConnect advertises the device and waits for a controller.
func (a *App) StartSpotifyConnect() error {
	ctx, s := a.current()
	if s == nil {
		return minierrors.ErrPlayerNotStarted
	}
	if err := s.Start(ctx); err != nil {
		a.logger.Warn("start failed", zap.Error(err))
		return err
	}
	return nil
}

// PlayerCommand forwards play, pause, next or prev.
func (a *App) PlayerCommand(cmd string) error {
	_, s := a.current()
	if s == nil {
		return minierrors.ErrPlayerNotStarted
	}
	return s.PlayerCommand(cmd)
}

// CheckPlayerState reports whether the endpoint is up.
func (a *App) CheckPlayerState() bool {
	_, s := a.current()
	return s != nil && s.CheckPlayerState()
}
