package client

// User represents a Spotify user profile.
type User struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Country     string  `json:"country"`
	Product     string  `json:"product"`
	URI         string  `json:"uri"`
	Images      []Image `json:"images"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Device represents a Spotify playback device.
type Device struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	IsActive       bool   `json:"is_active"`
	IsRestricted   bool   `json:"is_restricted"`
	VolumePercent  *int   `json:"volume_percent"` // Nullable
	SupportsVolume bool   `json:"supports_volume"`
}

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Device               Device `json:"device"`
	Timestamp            int64  `json:"timestamp"`
	ProgressMS           int    `json:"progress_ms"`
	IsPlaying            bool   `json:"is_playing"`
	Item                 *Track `json:"item"`
	CurrentlyPlayingType string `json:"currently_playing_type"` // track, episode, ad, unknown
}

// Track represents a Spotify track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	DurationMS int      `json:"duration_ms"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URI    string  `json:"uri"`
	Images []Image `json:"images"`
}
