package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.minispotrc, $XDG_CONFIG_HOME/minispot/config.toml, ~/.config/minispot/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes the configuration to path as TOML, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// DefaultPath returns the location new config files are written to.
func DefaultPath() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "minispot", "config.toml"), nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".minispotrc"),
	}
	if p, err := DefaultPath(); err == nil {
		paths = append(paths, p)
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Device
	if v := os.Getenv("MINISPOT_DEVICE_NAME"); v != "" {
		cfg.Device.Name = v
	}
	if v := os.Getenv("MINISPOT_DEVICE_INITIAL_VOLUME"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Device.InitialVolume = i
		}
	}

	// Spotify
	if v := os.Getenv("MINISPOT_SPOTIFY_CLIENT_ID"); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv("MINISPOT_SPOTIFY_REDIRECT_URI"); v != "" {
		cfg.Spotify.RedirectURI = v
	}
	if v := os.Getenv("MINISPOT_SPOTIFY_TOKEN_FILE"); v != "" {
		cfg.Spotify.TokenFile = v
	}

	// Discovery
	if v := os.Getenv("MINISPOT_DISCOVERY_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.Port = i
		}
	}
	if v := os.Getenv("MINISPOT_DISCOVERY_INTERFACES"); v != "" {
		cfg.Discovery.Interfaces = strings.Split(v, ",")
	}

	// Audio
	if v := os.Getenv("MINISPOT_AUDIO_BACKEND"); v != "" {
		cfg.Audio.Backend = v
	}

	// Log
	if v := os.Getenv("MINISPOT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MINISPOT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
