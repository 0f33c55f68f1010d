// Package session holds the authenticated connection to the Spotify backend
// shared by the player, the Connect supervisor and the metadata lookups.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/core"
	minierrors "github.com/tessro/minispot/internal/errors"
	"github.com/tessro/minispot/internal/spotify/client"
)

// trackTTL bounds how long fetched metadata is reused. Pause and resume of
// the same track hit the cache.
const trackTTL = 10 * time.Minute

// ErrClosed is returned by a session whose last reference was released.
var ErrClosed = errors.New("session closed")

// API is the slice of the Web API a session drives.
type API interface {
	GetCurrentUser(ctx context.Context) (*client.User, error)
	GetTrack(ctx context.Context, id string) (*client.Track, error)
	GetPlaybackState(ctx context.Context) (*client.PlaybackState, error)
	Play(ctx context.Context, deviceID string, opts *client.PlayOptions) error
	Pause(ctx context.Context, deviceID string) error
	Next(ctx context.Context, deviceID string) error
	Previous(ctx context.Context, deviceID string) error
	TransferPlayback(ctx context.Context, deviceID string, play bool) error
}

// Config identifies the device to the backend.
type Config struct {
	ClientID string
	DeviceID string
}

// shared is the state every clone points at.
type shared struct {
	api    API
	logger *zap.Logger
	tracks *cache.Cache

	mu       sync.Mutex
	refs     int
	username string
}

// Session is a reference-counted handle. Clones share the connection; the
// metadata cache is flushed when the last handle is closed, after which
// every handle reports ErrClosed.
type Session struct {
	s      *shared
	closed bool
}

// New creates a session with a single reference. No credentials are cached
// between runs; Connect must be called with fresh ones.
func New(cfg Config, api API, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{s: &shared{
		api:    api,
		logger: logger.Named("session").With(zap.String("device_id", cfg.DeviceID), zap.String("client_id", cfg.ClientID)),
		// No janitor: expired entries are dropped on lookup and on release.
		tracks: cache.New(trackTTL, 0),
		refs:   1,
	}}
}

// Clone returns a new handle sharing this session.
func (s *Session) Clone() *Session {
	s.s.mu.Lock()
	defer s.s.mu.Unlock()
	s.s.refs++
	return &Session{s: s.s}
}

// Close releases this handle. Closing a handle twice is a no-op.
func (s *Session) Close() {
	s.s.mu.Lock()
	defer s.s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.s.refs--
	if s.s.refs == 0 {
		s.s.tracks.Flush()
		s.s.logger.Debug("session released")
	}
}

// Refs returns the number of open handles.
func (s *Session) Refs() int {
	s.s.mu.Lock()
	defer s.s.mu.Unlock()
	return s.s.refs
}

// Username returns the user the session is connected as, if any.
func (s *Session) Username() string {
	s.s.mu.Lock()
	defer s.s.mu.Unlock()
	return s.s.username
}

func (s *Session) check() error {
	s.s.mu.Lock()
	defer s.s.mu.Unlock()
	if s.closed || s.s.refs == 0 {
		return ErrClosed
	}
	return nil
}

// API returns the backend API, or ErrClosed.
func (s *Session) API() (API, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.s.api, nil
}

// Connect establishes the session for the user the credentials belong to.
// The account behind the stored authorization must be that user.
func (s *Session) Connect(ctx context.Context, creds core.Credentials) error {
	if err := s.check(); err != nil {
		return err
	}
	if !creds.Valid() {
		return errors.New("invalid credentials")
	}

	user, err := s.s.api.GetCurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("fetch current user: %w", err)
	}
	if !strings.EqualFold(user.ID, creds.Username) {
		return fmt.Errorf("%w: authorized as %q, controller sent %q",
			minierrors.ErrUserMismatch, user.ID, creds.Username)
	}

	s.s.mu.Lock()
	s.s.username = user.ID
	s.s.mu.Unlock()

	s.s.logger.Info("session connected", zap.String("user", user.ID), zap.String("product", user.Product))
	return nil
}

// Track fetches track metadata by its base-62 id.
func (s *Session) Track(ctx context.Context, id string) (*core.TrackMetadata, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if md, ok := s.s.tracks.Get(id); ok {
		return md.(*core.TrackMetadata), nil
	}
	t, err := s.s.api.GetTrack(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", id, err)
	}
	md := toMetadata(t)
	s.s.tracks.Set(id, md, cache.DefaultExpiration)
	return md, nil
}
