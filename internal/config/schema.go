package config

// Config is the root configuration structure.
type Config struct {
	Device    DeviceConfig    `toml:"device"`
	Spotify   SpotifyConfig   `toml:"spotify"`
	Discovery DiscoveryConfig `toml:"discovery"`
	Audio     AudioConfig     `toml:"audio"`
	Player    PlayerConfig    `toml:"player"`
	Window    WindowConfig    `toml:"window"`
	Log       LogConfig       `toml:"log"`
}

// DeviceConfig describes how the Connect endpoint presents itself.
type DeviceConfig struct {
	Name           string `toml:"name"`
	InitialVolume  int    `toml:"initial_volume"`
	AdvertisedType string `toml:"advertised_type"`
	ConnectType    string `toml:"connect_type"`
	VolumeControl  *bool  `toml:"volume_control"`
}

// HasVolumeControl reports whether the device exposes a volume control.
func (c DeviceConfig) HasVolumeControl() bool {
	return c.VolumeControl == nil || *c.VolumeControl
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
	TokenFile   string `toml:"token_file"`
}

// DiscoveryConfig holds LAN advertisement settings.
type DiscoveryConfig struct {
	Port       int      `toml:"port"`
	Path       string   `toml:"path"`
	Interfaces []string `toml:"interfaces"`
}

// AudioConfig holds output device settings.
type AudioConfig struct {
	Backend    string `toml:"backend"`
	SampleRate int    `toml:"sample_rate"`
	Channels   int    `toml:"channels"`
	BufferMS   int    `toml:"buffer_ms"`
}

// PlayerConfig holds Connect driver settings.
type PlayerConfig struct {
	PollInterval  int `toml:"poll_interval"`
	CommandBuffer int `toml:"command_buffer"`
}

// WindowConfig holds desktop window settings.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}
