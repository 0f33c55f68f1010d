// Package connect brings the Spotify Connect endpoint up and exposes the
// command surface hosts bind to: start, player commands and a state check.
package connect

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/tessro/minispot/internal/core"
	minierrors "github.com/tessro/minispot/internal/errors"
)

// Fixed endpoint identity.
const (
	DeviceName    = "Mini Spotify"
	ClientID      = "76e0a38d911846b89f1e8f31e0718da7"
	InitialVolume = 50
)

// Config describes the endpoint.
type Config struct {
	DeviceName     string
	ClientID       string
	AdvertisedType core.DeviceType // announced during discovery
	ConnectType    core.DeviceType // recorded on the Connect endpoint
	InitialVolume  int
	HasVolumeCtrl  bool
}

// DefaultConfig returns the stock endpoint configuration.
func DefaultConfig() Config {
	return Config{
		DeviceName:     DeviceName,
		ClientID:       ClientID,
		AdvertisedType: core.DeviceTypeComputer,
		ConnectType:    core.DeviceTypeObserver,
		InitialVolume:  InitialVolume,
		HasVolumeCtrl:  true,
	}
}

// Orchestrator owns the endpoint lifecycle.
type Orchestrator struct {
	cfg      Config
	launcher Launcher
	backend  Backend
	notifier Notifier
	logger   *zap.Logger

	// base scopes the background tasks; hosts cancel it on exit.
	base  context.Context
	state *State
	sem   *semaphore.Weighted
	tasks sync.WaitGroup
}

// New creates an orchestrator. Background tasks spawned by Start live until
// base is cancelled.
func New(base context.Context, cfg Config, launcher Launcher, backend Backend, notifier Notifier, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		cfg:      cfg,
		launcher: launcher,
		backend:  backend,
		notifier: notifier,
		logger:   logger.Named("connect"),
		base:     base,
		state:    &State{},
		sem:      semaphore.NewWeighted(1),
	}
}

// State returns the shared endpoint state.
func (o *Orchestrator) State() *State {
	return o.state
}

// Start brings the endpoint up: it advertises the device, waits for a
// controller to push credentials, then builds the session, player and
// Connect endpoint and spawns the relay and driver. Once it has succeeded,
// further calls return nil without doing anything. Concurrent callers queue
// behind the first.
func (o *Orchestrator) Start(ctx context.Context) error {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer o.sem.Release(1)

	if o.state.Started() {
		return nil
	}

	disc := core.DiscoveryConfig{
		Name:          o.cfg.DeviceName,
		DeviceID:      core.DeviceID(o.cfg.DeviceName),
		ClientID:      o.cfg.ClientID,
		DeviceType:    o.cfg.AdvertisedType,
		InitialVolume: o.cfg.InitialVolume,
		HasVolumeCtrl: o.cfg.HasVolumeCtrl,
	}
	log := o.logger.With(zap.String("device_id", disc.DeviceID))

	gate, err := o.launcher.Launch(ctx, disc)
	if err != nil {
		return fmt.Errorf("launch discovery: %w", err)
	}
	defer func() {
		if err := gate.Close(); err != nil {
			log.Warn("discovery close failed", zap.Error(err))
		}
	}()

	log.Info("waiting for a controller")
	creds, err := gate.NextCredential(ctx)
	if err != nil {
		return fmt.Errorf("await credentials: %w", err)
	}
	log.Info("controller connected", zap.String("user", creds.Username))

	sess, err := o.backend.NewSession(o.cfg.DeviceName)
	if err != nil {
		return &minierrors.SpircStartError{Err: err}
	}
	player, events, err := o.backend.NewPlayer(sess)
	if err != nil {
		sess.Close()
		return &minierrors.SpircStartError{Err: err}
	}

	connectCfg := core.ConnectConfig{
		Name:          o.cfg.DeviceName,
		DeviceType:    o.cfg.ConnectType,
		InitialVolume: o.cfg.InitialVolume,
		HasVolumeCtrl: o.cfg.HasVolumeCtrl,
	}
	// Clone before handing sess over; the driver may release its handle.
	relaySess := sess.Clone()
	transport, task, err := o.backend.NewSpirc(ctx, connectCfg, sess, creds, player)
	if err != nil {
		relaySess.Close()
		_ = player.Close()
		sess.Close()
		log.Error("endpoint construction failed", zap.Error(err))
		return &minierrors.SpircStartError{Err: err}
	}

	o.tasks.Add(2)
	go func() {
		defer o.tasks.Done()
		o.relay(relaySess, events)
	}()
	go func() {
		defer o.tasks.Done()
		if err := task.Run(o.base); err != nil && !errors.Is(err, context.Canceled) {
			o.logger.Warn("driver exited", zap.Error(err))
		}
	}()

	o.state.setTransport(transport)
	o.state.markStarted()
	log.Info("endpoint started")
	return nil
}

// Wait blocks until the relay and driver have exited.
func (o *Orchestrator) Wait() {
	o.tasks.Wait()
}
