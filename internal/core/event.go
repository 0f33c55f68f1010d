package core

import "fmt"

// PlayerEventKind is the type of a player lifecycle event.
type PlayerEventKind int

const (
	PlayerEventOther PlayerEventKind = iota
	PlayerEventPaused
	PlayerEventPlaying
	PlayerEventLoading
	PlayerEventStopped
	PlayerEventEndOfTrack
	PlayerEventVolumeChanged
)

var playerEventNames = map[PlayerEventKind]string{
	PlayerEventOther:         "other",
	PlayerEventPaused:        "paused",
	PlayerEventPlaying:       "playing",
	PlayerEventLoading:       "loading",
	PlayerEventStopped:       "stopped",
	PlayerEventEndOfTrack:    "end_of_track",
	PlayerEventVolumeChanged: "volume_changed",
}

func (k PlayerEventKind) String() string {
	if name, ok := playerEventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PlayerEventKind(%d)", int(k))
}

// PlayerEvent is emitted by a player as playback progresses.
type PlayerEvent struct {
	Kind    PlayerEventKind
	TrackID string
	Volume  uint16
}
