package session

import (
	"encoding/hex"
	"strings"

	"github.com/tessro/minispot/internal/core"
	"github.com/tessro/minispot/internal/spotify/client"
)

func toMetadata(t *client.Track) *core.TrackMetadata {
	md := &core.TrackMetadata{
		ID:   t.ID,
		Name: t.Name,
		Album: core.Album{
			ID:   t.Album.ID,
			Name: t.Album.Name,
		},
	}
	for _, a := range t.Artists {
		md.Artists = append(md.Artists, core.Artist{ID: a.ID, Name: a.Name})
	}
	for _, img := range t.Album.Images {
		id, ok := coverFileID(img.URL)
		if !ok {
			continue
		}
		md.Album.Covers = append(md.Album.Covers, core.Cover{FileID: id, Width: img.Width, Height: img.Height})
	}
	return md
}

// coverFileID recovers the file id from a CDN image URL.
func coverFileID(url string) (core.FileID, bool) {
	rest, ok := strings.CutPrefix(url, core.CoverURLPrefix)
	if !ok || rest == "" {
		return nil, false
	}
	b, err := hex.DecodeString(rest)
	if err != nil {
		return nil, false
	}
	return core.FileID(b), true
}
