package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/tessro/minispot/internal/core"
	minierrors "github.com/tessro/minispot/internal/errors"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Device.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("device: %w", err))
	}
	if err := c.Spotify.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spotify: %w", err))
	}
	if err := c.Discovery.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("discovery: %w", err))
	}
	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", minierrors.ErrInvalidConfig, errors.Join(errs...))
}

// Validate checks DeviceConfig for errors.
func (c *DeviceConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name must not be empty")
	}
	if c.InitialVolume < 0 || c.InitialVolume > 100 {
		return errors.New("initial_volume must be between 0 and 100")
	}
	if _, err := core.ParseDeviceType(c.AdvertisedType); err != nil {
		return fmt.Errorf("advertised_type: %w", err)
	}
	if _, err := core.ParseDeviceType(c.ConnectType); err != nil {
		return fmt.Errorf("connect_type: %w", err)
	}
	return nil
}

// Validate checks SpotifyConfig for errors.
func (c *SpotifyConfig) Validate() error {
	if c.ClientID == "" {
		return errors.New("client_id must not be empty")
	}
	if c.RedirectURI != "" {
		if _, err := url.Parse(c.RedirectURI); err != nil {
			return fmt.Errorf("invalid redirect_uri: %w", err)
		}
	}
	return nil
}

// Validate checks DiscoveryConfig for errors.
func (c *DiscoveryConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Validate checks AudioConfig for errors.
func (c *AudioConfig) Validate() error {
	switch c.Backend {
	case "", "alsa", "pulseaudio", "jack", "wasapi", "coreaudio", "null":
		// valid
	default:
		return fmt.Errorf("invalid backend: %s", c.Backend)
	}
	if c.SampleRate < 0 {
		return errors.New("sample_rate must be non-negative")
	}
	if c.Channels < 0 || c.Channels > 2 {
		return errors.New("channels must be 1 or 2")
	}
	if c.BufferMS < 0 {
		return errors.New("buffer_ms must be non-negative")
	}
	return nil
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.PollInterval < 0 {
		return errors.New("poll_interval must be non-negative")
	}
	if c.CommandBuffer < 0 {
		return errors.New("command_buffer must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return errors.New("rotation limits must be non-negative")
	}
	return nil
}
