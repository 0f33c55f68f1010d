// Package spirc runs the Connect endpoint: a transport handle the UI steers
// playback with, and a driver task that keeps the local player in step with
// the account's playback state.
package spirc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/core"
	minierrors "github.com/tessro/minispot/internal/errors"
	"github.com/tessro/minispot/internal/session"
)

// Player is the playback engine the driver steers.
type Player interface {
	Load(trackID string, start bool)
	Play()
	Pause()
	Stop()
	EmitVolumeChanged(v uint16)
	Close() error
}

// Mixer holds the endpoint volume.
type Mixer interface {
	SetPercent(p int)
	Volume() uint16
}

// Options tunes the driver.
type Options struct {
	PollInterval  time.Duration
	CommandBuffer int
	Logger        *zap.Logger
}

type command int

const (
	cmdPlay command = iota
	cmdPause
	cmdNext
	cmdPrev
)

func (c command) String() string {
	return [...]string{"play", "pause", "next", "prev"}[c]
}

// Spirc is the transport handle. It implements core.Transport.
type Spirc struct {
	cmds   chan command
	closed chan struct{}
	once   sync.Once
}

var _ core.Transport = (*Spirc)(nil)

// New connects the session with the pushed credentials and builds the
// endpoint. The returned task must be run for the endpoint to do anything.
func New(ctx context.Context, cc core.ConnectConfig, sess *session.Session, creds core.Credentials, player Player, mixer Mixer, opts Options) (*Spirc, *Task, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.CommandBuffer <= 0 {
		opts.CommandBuffer = 16
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := sess.Connect(ctx, creds); err != nil {
		return nil, nil, err
	}
	api, err := sess.API()
	if err != nil {
		return nil, nil, err
	}

	mixer.SetPercent(cc.InitialVolume)

	s := &Spirc{
		cmds:   make(chan command, opts.CommandBuffer),
		closed: make(chan struct{}),
	}
	t := &Task{
		spirc:    s,
		cfg:      cc,
		api:      api,
		player:   player,
		mixer:    mixer,
		interval: opts.PollInterval,
		logger: logger.Named("spirc").With(
			zap.String("device", cc.Name),
			zap.Stringer("type", cc.DeviceType),
			zap.String("user", sess.Username())),
		stop: make(chan struct{}),
	}
	return s, t, nil
}

// Play resumes playback.
func (s *Spirc) Play() error { return s.enqueue(cmdPlay) }

// Pause pauses playback.
func (s *Spirc) Pause() error { return s.enqueue(cmdPause) }

// Next skips to the next track.
func (s *Spirc) Next() error { return s.enqueue(cmdNext) }

// Prev goes back to the previous track.
func (s *Spirc) Prev() error { return s.enqueue(cmdPrev) }

func (s *Spirc) enqueue(c command) error {
	select {
	case <-s.closed:
		return minierrors.ErrSpircClosed
	default:
	}
	select {
	case s.cmds <- c:
		return nil
	case <-s.closed:
		return minierrors.ErrSpircClosed
	default:
		return fmt.Errorf("%s: %w", c, minierrors.ErrCommandQueueFull)
	}
}

func (s *Spirc) close() {
	s.once.Do(func() { close(s.closed) })
}
