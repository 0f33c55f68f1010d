package connect

import (
	"context"

	"github.com/tessro/minispot/internal/core"
)

// Launcher starts the discovery gate.
//
//go:generate mockgen -destination=mocks/connect_mock.go -package=mocks github.com/tessro/minispot/internal/connect Launcher,Gate,Session,Player,Task,Backend,Notifier
type Launcher interface {
	Launch(ctx context.Context, cfg core.DiscoveryConfig) (Gate, error)
}

// Gate is a launched discovery advertisement.
type Gate interface {
	NextCredential(ctx context.Context) (core.Credentials, error)
	Close() error
}

// Session is a reference-counted backend session.
type Session interface {
	Clone() Session
	Track(ctx context.Context, id string) (*core.TrackMetadata, error)
	Close()
}

// Player is a playback engine handle.
type Player interface {
	Close() error
}

// Task is a detached background driver.
type Task interface {
	Run(ctx context.Context) error
}

// Backend builds the streaming side of the endpoint.
type Backend interface {
	// NewSession creates a session identified by the device name.
	NewSession(deviceName string) (Session, error)
	// NewPlayer creates a player on the default audio output.
	NewPlayer(sess Session) (Player, <-chan core.PlayerEvent, error)
	// NewSpirc connects the session and builds the Connect endpoint. It takes
	// ownership of sess and player on success.
	NewSpirc(ctx context.Context, cfg core.ConnectConfig, sess Session, creds core.Credentials, player Player) (core.Transport, Task, error)
}

// Notifier delivers events to the UI.
type Notifier interface {
	Emit(event, payload string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(event, payload string) error

// Emit calls f.
func (f NotifierFunc) Emit(event, payload string) error {
	return f(event, payload)
}

// Surface is the command surface hosts bind to.
type Surface interface {
	Start(ctx context.Context) error
	PlayerCommand(cmd string) error
	CheckPlayerState() bool
}

var _ Surface = (*Orchestrator)(nil)
