package spirc

import (
	"time"

	"github.com/tessro/minispot/internal/core"
	"github.com/tessro/minispot/internal/spotify/client"
)

// transition is a change between two polled states that the player must
// follow.
type transition int

const (
	transLoad transition = iota
	transStop
	transPause
	transResume
	transVolume
)

func (t transition) String() string {
	switch t {
	case transLoad:
		return "load"
	case transStop:
		return "stop"
	case transPause:
		return "pause"
	case transResume:
		return "resume"
	case transVolume:
		return "volume"
	default:
		return "unknown"
	}
}

// toState converts a Web API snapshot.
func toState(ps *client.PlaybackState) *core.PlaybackState {
	if ps == nil {
		return nil
	}
	s := &core.PlaybackState{
		DeviceID:  ps.Device.ID,
		IsPlaying: ps.IsPlaying,
		Progress:  time.Duration(ps.ProgressMS) * time.Millisecond,
	}
	if ps.Device.VolumePercent != nil {
		s.Volume = *ps.Device.VolumePercent
	}
	if ps.Item != nil {
		s.TrackID = ps.Item.ID
		s.Duration = time.Duration(ps.Item.DurationMS) * time.Millisecond
	}
	return s
}

// diffStates compares two states and returns the transitions between them.
func diffStates(prev, curr *core.PlaybackState) []transition {
	if prev == nil && curr == nil {
		return nil
	}

	// Nothing was known before: load whatever is there.
	if prev == nil {
		if curr.HasTrack() {
			return []transition{transLoad}
		}
		return nil
	}

	if curr == nil {
		if prev.HasTrack() {
			return []transition{transStop}
		}
		return nil
	}

	var out []transition
	if prev.TrackID != curr.TrackID {
		if curr.HasTrack() {
			out = append(out, transLoad)
		} else {
			out = append(out, transStop)
		}
	} else if curr.HasTrack() {
		if prev.IsPlaying && !curr.IsPlaying {
			out = append(out, transPause)
		} else if !prev.IsPlaying && curr.IsPlaying {
			out = append(out, transResume)
		}
	}

	if prev.Volume != curr.Volume {
		out = append(out, transVolume)
	}
	return out
}

// wasCompleted reports whether a track likely finished rather than being
// skipped.
func wasCompleted(s *core.PlaybackState) bool {
	if s == nil || s.Duration == 0 {
		return false
	}
	return s.ProgressPercent() >= 95
}
