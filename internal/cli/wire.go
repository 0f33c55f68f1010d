package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/audio"
	"github.com/tessro/minispot/internal/config"
	"github.com/tessro/minispot/internal/connect"
	"github.com/tessro/minispot/internal/core"
	"github.com/tessro/minispot/internal/discovery"
	"github.com/tessro/minispot/internal/spotify/auth"
	"github.com/tessro/minispot/internal/spotify/client"
)

// connectConfig maps the [device] and [spotify] sections onto the
// endpoint configuration.
func connectConfig(c *config.Config) (connect.Config, error) {
	advertised, err := core.ParseDeviceType(c.Device.AdvertisedType)
	if err != nil {
		return connect.Config{}, fmt.Errorf("advertised_type: %w", err)
	}
	connectType, err := core.ParseDeviceType(c.Device.ConnectType)
	if err != nil {
		return connect.Config{}, fmt.Errorf("connect_type: %w", err)
	}
	return connect.Config{
		DeviceName:     c.Device.Name,
		ClientID:       c.Spotify.ClientID,
		AdvertisedType: advertised,
		ConnectType:    connectType,
		InitialVolume:  c.Device.InitialVolume,
		HasVolumeCtrl:  c.Device.HasVolumeControl(),
	}, nil
}

func newTokenSource(c *config.Config) (*auth.Source, error) {
	storage, err := auth.NewTokenStorage(c.Spotify.TokenFile, c.Spotify.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}
	return auth.NewSource(storage), nil
}

func newAPIClient(tokens client.TokenSource, log *zap.Logger) *client.Client {
	return client.New(tokens, client.WithLogger(log))
}

func audioFormat(c *config.Config) audio.Format {
	f := audio.DefaultFormat
	f.SampleRate = c.Audio.SampleRate
	f.Channels = c.Audio.Channels
	return f
}

func newLauncher(c *config.Config, log *zap.Logger) connect.DiscoveryLauncher {
	return connect.DiscoveryLauncher{
		Options: discovery.Options{
			Port:   c.Discovery.Port,
			Path:   c.Discovery.Path,
			Logger: log,
		},
		Interfaces: c.Discovery.Interfaces,
	}
}

func newBackend(c *config.Config, api *client.Client, log *zap.Logger) *connect.LiveBackend {
	return connect.NewLiveBackend(connect.LiveOptions{
		ClientID:      c.Spotify.ClientID,
		API:           api,
		AudioBackend:  c.Audio.Backend,
		Format:        audioFormat(c),
		BufferMS:      c.Audio.BufferMS,
		PollInterval:  time.Duration(c.Player.PollInterval) * time.Millisecond,
		CommandBuffer: c.Player.CommandBuffer,
		Logger:        log,
	})
}

// newOrchestrator wires the live endpoint. Background work stops when base
// is cancelled.
func newOrchestrator(base context.Context, c *config.Config, notifier connect.Notifier, log *zap.Logger) (*connect.Orchestrator, error) {
	cc, err := connectConfig(c)
	if err != nil {
		return nil, err
	}
	tokens, err := newTokenSource(c)
	if err != nil {
		return nil, err
	}
	if !tokens.HasToken() {
		log.Warn("no stored Spotify token; run 'minispot auth login' before connecting")
	}

	api := newAPIClient(tokens, log)
	return connect.New(base, cc, newLauncher(c, log), newBackend(c, api, log), notifier, log), nil
}
