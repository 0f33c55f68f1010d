package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	minierrors "github.com/tessro/minispot/internal/errors"
)

func TestDefaultsMatchConnectConstants(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Device.Name != "Mini Spotify" {
		t.Errorf("Device.Name = %q, want %q", cfg.Device.Name, "Mini Spotify")
	}
	if cfg.Device.InitialVolume != 50 {
		t.Errorf("Device.InitialVolume = %d, want 50", cfg.Device.InitialVolume)
	}
	if cfg.Spotify.ClientID != "76e0a38d911846b89f1e8f31e0718da7" {
		t.Errorf("Spotify.ClientID = %q", cfg.Spotify.ClientID)
	}
	if cfg.Device.AdvertisedType != "computer" || cfg.Device.ConnectType != "observer" {
		t.Errorf("device types = %q/%q, want computer/observer", cfg.Device.AdvertisedType, cfg.Device.ConnectType)
	}
	if !cfg.Device.HasVolumeControl() {
		t.Error("HasVolumeControl() = false, want true by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[device]
name = "Kitchen"
initial_volume = 30
volume_control = false

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Device.Name != "Kitchen" {
		t.Errorf("Device.Name = %q, want %q", cfg.Device.Name, "Kitchen")
	}
	if cfg.Device.InitialVolume != 30 {
		t.Errorf("Device.InitialVolume = %d, want 30", cfg.Device.InitialVolume)
	}
	if cfg.Device.HasVolumeControl() {
		t.Error("HasVolumeControl() = true, want false")
	}
	if cfg.Window.Title != "Kitchen" {
		t.Errorf("Window.Title = %q, want device name", cfg.Window.Title)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate = %d, want default 44100", cfg.Audio.SampleRate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MINISPOT_DEVICE_NAME", "Office")
	t.Setenv("MINISPOT_DISCOVERY_PORT", "5353")
	t.Setenv("MINISPOT_DISCOVERY_INTERFACES", "eth0,wlan0")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Device.Name != "Office" {
		t.Errorf("Device.Name = %q, want Office", cfg.Device.Name)
	}
	if cfg.Discovery.Port != 5353 {
		t.Errorf("Discovery.Port = %d, want 5353", cfg.Discovery.Port)
	}
	if len(cfg.Discovery.Interfaces) != 2 {
		t.Errorf("Discovery.Interfaces = %v, want 2 entries", cfg.Discovery.Interfaces)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Device.Name = "Den"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Device.Name != "Den" {
		t.Errorf("Device.Name = %q, want Den", loaded.Device.Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"volume too high", func(c *Config) { c.Device.InitialVolume = 101 }, true},
		{"unknown device type", func(c *Config) { c.Device.AdvertisedType = "toaster" }, true},
		{"bad backend", func(c *Config) { c.Audio.Backend = "oss" }, true},
		{"bad port", func(c *Config) { c.Discovery.Port = 70000 }, true},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, true},
		{"three channels", func(c *Config) { c.Audio.Channels = 3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, minierrors.ErrInvalidConfig) {
				t.Errorf("Validate() error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}
