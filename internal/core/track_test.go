package core

import (
	"errors"
	"strings"
	"testing"

	minierrors "github.com/tessro/minispot/internal/errors"
)

func TestSummarize(t *testing.T) {
	track := &TrackMetadata{
		ID:   "T",
		Name: "S",
		Artists: []Artist{
			{Name: "A1"},
			{Name: "A2"},
		},
		Album: Album{
			Name:   "Al",
			Covers: []Cover{{FileID: FileID{0xDE, 0xAD, 0xBE, 0xEF}}, {FileID: FileID{0x01}}},
		},
	}

	summary, err := Summarize(track)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	want := "S|separator|A1, A2|separator|Al|separator|https://i.scdn.co/image/deadbeef"
	if got := summary.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSummarizeEmptyArtists(t *testing.T) {
	track := &TrackMetadata{
		Name:  "Untitled",
		Album: Album{Name: "Demo", Covers: []Cover{{FileID: FileID{0xAB}}}},
	}

	summary, err := Summarize(track)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Artists != "" {
		t.Errorf("Artists = %q, want empty", summary.Artists)
	}
	if !strings.Contains(summary.String(), "Untitled|separator||separator|Demo") {
		t.Errorf("String() = %q, want consecutive separators", summary.String())
	}
}

func TestSummarizeNoCovers(t *testing.T) {
	_, err := Summarize(&TrackMetadata{ID: "x", Name: "No Art"})
	if !errors.Is(err, minierrors.ErrNoCovers) {
		t.Errorf("Summarize() error = %v, want ErrNoCovers", err)
	}
}

func TestParseSummaryRoundTrip(t *testing.T) {
	in := TrackSummary{Name: "S", Artists: "A1, A2", Album: "Al", CoverURL: CoverURLPrefix + "00ff"}

	out, err := ParseSummary(in.String())
	if err != nil {
		t.Fatalf("ParseSummary() error = %v", err)
	}
	if out != in {
		t.Errorf("ParseSummary() = %+v, want %+v", out, in)
	}

	if _, err := ParseSummary("only|separator|two"); err == nil {
		t.Error("ParseSummary() with two fields should fail")
	}
}

func TestPlaybackStateProgress(t *testing.T) {
	var nilState *PlaybackState
	if nilState.HasTrack() {
		t.Error("nil state should have no track")
	}
	s := &PlaybackState{TrackID: "x", Progress: 30, Duration: 120}
	if got := s.ProgressPercent(); got != 25 {
		t.Errorf("ProgressPercent() = %v, want 25", got)
	}
}
