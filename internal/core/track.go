package core

import (
	"encoding/hex"
	"fmt"
	"strings"

	minierrors "github.com/tessro/minispot/internal/errors"
)

const (
	// CoverURLPrefix is the CDN location album covers are served from.
	CoverURLPrefix = "https://i.scdn.co/image/"

	// SummarySeparator separates TrackSummary fields on the wire.
	SummarySeparator = "|separator|"
)

// FileID identifies a file (cover art, audio) on the Spotify CDN.
type FileID []byte

// Hex returns the lowercase hex form of the file ID.
func (f FileID) Hex() string {
	return hex.EncodeToString(f)
}

// Artist is a track contributor.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Cover is one rendition of an album cover.
type Cover struct {
	FileID FileID `json:"file_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Album is the album a track belongs to.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Covers []Cover `json:"covers"`
}

// TrackMetadata is the metadata record of a single track.
type TrackMetadata struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	Album   Album    `json:"album"`
}

// TrackSummary is the presentation form of a track sent to the UI.
type TrackSummary struct {
	Name     string
	Artists  string
	Album    string
	CoverURL string
}

// Summarize builds the TrackSummary of a track. The first album cover is used;
// a track without covers cannot be summarized.
func Summarize(t *TrackMetadata) (TrackSummary, error) {
	if t == nil {
		return TrackSummary{}, fmt.Errorf("nil track")
	}
	if len(t.Album.Covers) == 0 {
		return TrackSummary{}, fmt.Errorf("track %s: %w", t.ID, minierrors.ErrNoCovers)
	}

	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}

	return TrackSummary{
		Name:     t.Name,
		Artists:  strings.Join(names, ", "),
		Album:    t.Album.Name,
		CoverURL: CoverURLPrefix + t.Album.Covers[0].FileID.Hex(),
	}, nil
}

// String renders the summary as name|separator|artists|separator|album|separator|cover.
func (s TrackSummary) String() string {
	return strings.Join([]string{s.Name, s.Artists, s.Album, s.CoverURL}, SummarySeparator)
}

// ParseSummary is the inverse of TrackSummary.String.
func ParseSummary(s string) (TrackSummary, error) {
	fields := strings.Split(s, SummarySeparator)
	if len(fields) != 4 {
		return TrackSummary{}, fmt.Errorf("summary has %d fields, want 4", len(fields))
	}
	return TrackSummary{
		Name:     fields[0],
		Artists:  fields[1],
		Album:    fields[2],
		CoverURL: fields[3],
	}, nil
}
