package connect

import (
	"fmt"
	"strings"

	"github.com/tessro/minispot/internal/core"
)

// EventName is the UI channel player notifications are emitted on.
const EventName = "player_event"

// Notification payloads.
const (
	PayloadPaused = "paused"
	PrefixLoaded  = "loaded:"
	PrefixPlaying = "playing:"
)

// Notification kinds returned by ParsePayload.
const (
	KindPaused  = "paused"
	KindLoaded  = "loaded"
	KindPlaying = "playing"
)

// ParsePayload splits a player_event payload into its kind and, for loaded
// and playing notifications, the track summary.
func ParsePayload(payload string) (string, *core.TrackSummary, error) {
	if payload == PayloadPaused {
		return KindPaused, nil, nil
	}

	var kind, rest string
	switch {
	case strings.HasPrefix(payload, PrefixLoaded):
		kind, rest = KindLoaded, strings.TrimPrefix(payload, PrefixLoaded)
	case strings.HasPrefix(payload, PrefixPlaying):
		kind, rest = KindPlaying, strings.TrimPrefix(payload, PrefixPlaying)
	default:
		return "", nil, fmt.Errorf("unknown payload %q", payload)
	}

	summary, err := core.ParseSummary(rest)
	if err != nil {
		return "", nil, fmt.Errorf("%s payload: %w", kind, err)
	}
	return kind, &summary, nil
}
