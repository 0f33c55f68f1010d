package desktop

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/minispot/internal/connect"
	minierrors "github.com/tessro/minispot/internal/errors"
)

type fakeSurface struct {
	mu       sync.Mutex
	started  bool
	startErr error
	commands []string
	startCtx context.Context
}

func (f *fakeSurface) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCtx = ctx
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeSurface) PlayerCommand(cmd string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started {
		return minierrors.ErrPlayerNotStarted
	}
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeSurface) CheckPlayerState() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

type emitted struct {
	event   string
	payload any
}

func captureEmits(t *testing.T) *[]emitted {
	t.Helper()
	var got []emitted
	orig := eventsEmit
	eventsEmit = func(_ context.Context, event string, data ...interface{}) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		got = append(got, emitted{event, payload})
	}
	t.Cleanup(func() { eventsEmit = orig })
	return &got
}

func TestCommandsBeforeStartup(t *testing.T) {
	app := NewApp(nil, nil)

	assert.False(t, app.CheckPlayerState())
	err := app.PlayerCommand("play")
	require.Error(t, err)
	assert.Equal(t, "Player not started.", err.Error())
	assert.ErrorIs(t, app.StartSpotifyConnect(), minierrors.ErrPlayerNotStarted)
}

func TestStartupBindsSurface(t *testing.T) {
	got := captureEmits(t)
	surface := &fakeSurface{}

	var notifier connect.Notifier
	app := NewApp(func(_ context.Context, n connect.Notifier) (connect.Surface, error) {
		notifier = n
		return surface, nil
	}, nil)
	app.startup(context.Background())

	assert.False(t, app.CheckPlayerState())
	assert.Equal(t, "Player not started.", app.PlayerCommand("next").Error())

	require.NoError(t, app.StartSpotifyConnect())
	assert.True(t, app.CheckPlayerState())
	require.NoError(t, app.PlayerCommand("next"))
	assert.Equal(t, []string{"next"}, surface.commands)

	require.NoError(t, notifier.Emit(connect.EventName, "paused"))
	assert.Equal(t, []emitted{{"player_event", "paused"}}, *got)
}

func TestShutdownCancelsBase(t *testing.T) {
	var base context.Context
	app := NewApp(func(ctx context.Context, _ connect.Notifier) (connect.Surface, error) {
		base = ctx
		return &fakeSurface{}, nil
	}, nil)
	app.startup(context.Background())
	require.NoError(t, base.Err())

	app.shutdown(context.Background())
	assert.ErrorIs(t, base.Err(), context.Canceled)
}

func TestStartErrorIsReturned(t *testing.T) {
	surface := &fakeSurface{startErr: &minierrors.SpircStartError{Err: errors.New("boom")}}
	app := NewApp(func(context.Context, connect.Notifier) (connect.Surface, error) {
		return surface, nil
	}, nil)
	app.startup(context.Background())

	err := app.StartSpotifyConnect()
	require.Error(t, err)
	assert.Equal(t, "Failed to start spirc: boom", err.Error())
	assert.False(t, app.CheckPlayerState())
}

func TestBuildFailureLeavesAppUnbound(t *testing.T) {
	app := NewApp(func(context.Context, connect.Notifier) (connect.Surface, error) {
		return nil, errors.New("no token")
	}, nil)
	app.startup(context.Background())

	assert.False(t, app.CheckPlayerState())
	assert.ErrorIs(t, app.PlayerCommand("play"), minierrors.ErrPlayerNotStarted)
}
