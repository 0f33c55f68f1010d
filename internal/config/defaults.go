package config

const (
	// DefaultDeviceName is the name advertised on the local network.
	DefaultDeviceName = "Mini Spotify"

	// DefaultClientID identifies the application to Spotify.
	DefaultClientID = "76e0a38d911846b89f1e8f31e0718da7"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Name:           DefaultDeviceName,
			InitialVolume:  50,
			AdvertisedType: "computer",
			ConnectType:    "observer",
		},
		Spotify: SpotifyConfig{
			ClientID:    DefaultClientID,
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		Discovery: DiscoveryConfig{
			Path: "/",
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			Channels:   2,
			BufferMS:   500,
		},
		Player: PlayerConfig{
			PollInterval:  1000,
			CommandBuffer: 16,
		},
		Window: WindowConfig{
			Title:  DefaultDeviceName,
			Width:  420,
			Height: 560,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Device
	if c.Device.Name == "" {
		c.Device.Name = d.Device.Name
	}
	if c.Device.InitialVolume == 0 {
		c.Device.InitialVolume = d.Device.InitialVolume
	}
	if c.Device.AdvertisedType == "" {
		c.Device.AdvertisedType = d.Device.AdvertisedType
	}
	if c.Device.ConnectType == "" {
		c.Device.ConnectType = d.Device.ConnectType
	}

	// Spotify
	if c.Spotify.ClientID == "" {
		c.Spotify.ClientID = d.Spotify.ClientID
	}
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}

	// Discovery
	if c.Discovery.Path == "" {
		c.Discovery.Path = d.Discovery.Path
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = d.Audio.Channels
	}
	if c.Audio.BufferMS == 0 {
		c.Audio.BufferMS = d.Audio.BufferMS
	}

	// Player
	if c.Player.PollInterval == 0 {
		c.Player.PollInterval = d.Player.PollInterval
	}
	if c.Player.CommandBuffer == 0 {
		c.Player.CommandBuffer = d.Player.CommandBuffer
	}

	// Window
	if c.Window.Title == "" {
		c.Window.Title = c.Device.Name
	}
	if c.Window.Width == 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = d.Window.Height
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = d.Log.MaxAgeDays
	}
}
