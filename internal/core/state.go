package core

import "time"

// PlaybackState is a snapshot of remote playback used to drive the player.
type PlaybackState struct {
	TrackID   string        `json:"track_id"`
	DeviceID  string        `json:"device_id"`
	IsPlaying bool          `json:"is_playing"`
	Progress  time.Duration `json:"progress"`
	Duration  time.Duration `json:"duration"`
	Volume    int           `json:"volume"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.TrackID != ""
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Duration == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Duration) * 100
}
