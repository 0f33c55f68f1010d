package connect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/minispot/internal/connect"
	"github.com/tessro/minispot/internal/core"
)

func TestParsePayload(t *testing.T) {
	summary := core.TrackSummary{
		Name:     "S",
		Artists:  "A1, A2",
		Album:    "Al",
		CoverURL: "https://i.scdn.co/image/deadbeef",
	}

	tests := []struct {
		name    string
		payload string
		kind    string
		summary *core.TrackSummary
		wantErr bool
	}{
		{"paused", "paused", connect.KindPaused, nil, false},
		{"playing", "playing:" + summary.String(), connect.KindPlaying, &summary, false},
		{"loaded", "loaded:" + summary.String(), connect.KindLoaded, &summary, false},
		{"unknown", "stopped", "", nil, true},
		{"truncated", "playing:S|separator|A", "", nil, true},
		{"empty", "", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, got, err := connect.ParsePayload(tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.summary, got)
		})
	}
}

func TestStateZeroValue(t *testing.T) {
	var s connect.State
	assert.False(t, s.Started())
	_, ok := s.Transport()
	assert.False(t, ok)
}
