package player

import (
	"context"
	"io"

	"github.com/tessro/minispot/internal/session"
)

// Silence is the source used when no decoder is configured. The Web API does
// not expose audio, so the engine keeps the device clocked with zeros while
// the controller reports a track as playing.
func Silence(context.Context, *session.Session, string) (io.ReadCloser, error) {
	return io.NopCloser(zeroReader{}), nil
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
