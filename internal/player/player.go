// Package player runs the playback engine: it owns the audio sink, pumps PCM
// for the loaded track and reports lifecycle changes as core.PlayerEvents.
package player

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/audio"
	"github.com/tessro/minispot/internal/core"
	"github.com/tessro/minispot/internal/session"
)

// State is the engine's playback state.
type State int

const (
	StateStopped State = iota
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return "stopped"
	}
}

// SourceFunc opens the PCM stream of a track.
type SourceFunc func(ctx context.Context, sess *session.Session, trackID string) (io.ReadCloser, error)

// Config tunes the engine.
type Config struct {
	Format  audio.Format
	ChunkMS int
	// EventBuffer is how many events may wait for the consumer. The engine
	// never blocks on a slow consumer: once the buffer is full further
	// events are dropped (and logged) until it drains.
	EventBuffer int
	// Source provides decoded audio. Defaults to Silence.
	Source SourceFunc
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Format:      audio.DefaultFormat,
		ChunkMS:     20,
		EventBuffer: 64,
		Source:      Silence,
	}
}

type command struct {
	op      op
	trackID string
	start   bool
	volume  uint16
	reply   chan State
}

type op int

const (
	opLoad op = iota
	opPlay
	opPause
	opStop
	opVolume
	opState
)

// Player is a playback engine. Its methods are safe for concurrent use and
// never block on audio I/O.
type Player struct {
	cfg    Config
	sess   *session.Session
	volume audio.Volume
	build  audio.SinkBuilder
	logger *zap.Logger

	cmds   chan command
	events chan core.PlayerEvent
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	// loop-owned
	state   State
	trackID string
	source  io.ReadCloser
	sink    audio.Sink
	chunk   []byte
}

// New starts an engine on a clone of sess. The returned channel carries the
// engine's events and is closed by Close.
func New(cfg Config, sess *session.Session, volume audio.Volume, build audio.SinkBuilder, logger *zap.Logger) (*Player, <-chan core.PlayerEvent) {
	def := DefaultConfig()
	if cfg.Format.SampleRate == 0 {
		cfg.Format = def.Format
	}
	if cfg.ChunkMS <= 0 {
		cfg.ChunkMS = def.ChunkMS
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = def.EventBuffer
	}
	if cfg.Source == nil {
		cfg.Source = def.Source
	}
	if volume == nil {
		volume = audio.NoOpVolume{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		cfg:    cfg,
		sess:   sess.Clone(),
		volume: volume,
		build:  build,
		logger: logger.Named("player"),
		cmds:   make(chan command, 16),
		events: make(chan core.PlayerEvent, cfg.EventBuffer),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		chunk:  make([]byte, cfg.Format.BytesFor(cfg.ChunkMS)),
	}
	go p.run()
	return p, p.events
}

// Load replaces the current track. With start set playback begins at once,
// otherwise the track is left paused.
func (p *Player) Load(trackID string, start bool) {
	p.send(command{op: opLoad, trackID: trackID, start: start})
}

// Play resumes the loaded track.
func (p *Player) Play() { p.send(command{op: opPlay}) }

// Pause pauses the loaded track.
func (p *Player) Pause() { p.send(command{op: opPause}) }

// Stop unloads the current track.
func (p *Player) Stop() { p.send(command{op: opStop}) }

// EmitVolumeChanged reports a mixer change to event consumers.
func (p *Player) EmitVolumeChanged(v uint16) {
	p.send(command{op: opVolume, volume: v})
}

// State returns the current playback state, or StateStopped once closed.
func (p *Player) State() State {
	reply := make(chan State, 1)
	if !p.send(command{op: opState, reply: reply}) {
		return StateStopped
	}
	select {
	case s := <-reply:
		return s
	case <-p.done:
		return StateStopped
	}
}

// Close stops playback, releases the session clone and closes the event
// channel.
func (p *Player) Close() error {
	p.once.Do(func() {
		p.cancel()
		<-p.done
		p.sess.Close()
	})
	return nil
}

func (p *Player) send(c command) bool {
	select {
	case p.cmds <- c:
		return true
	case <-p.done:
		return false
	}
}

func (p *Player) run() {
	defer close(p.done)
	defer close(p.events)
	defer p.teardown()

	for {
		if p.state == StatePlaying {
			select {
			case <-p.ctx.Done():
				return
			case c := <-p.cmds:
				p.handle(c)
			default:
				p.pump()
			}
			continue
		}

		select {
		case <-p.ctx.Done():
			return
		case c := <-p.cmds:
			p.handle(c)
		}
	}
}

func (p *Player) handle(c command) {
	switch c.op {
	case opLoad:
		p.load(c.trackID, c.start)
	case opPlay:
		if p.state == StatePaused {
			p.startSink()
		}
	case opPause:
		if p.state == StatePlaying {
			p.stopSink()
			p.state = StatePaused
			p.emit(core.PlayerEvent{Kind: core.PlayerEventPaused, TrackID: p.trackID})
		}
	case opStop:
		if p.state != StateStopped || p.trackID != "" {
			p.unload()
			p.emit(core.PlayerEvent{Kind: core.PlayerEventStopped})
		}
	case opVolume:
		p.emit(core.PlayerEvent{Kind: core.PlayerEventVolumeChanged, Volume: c.volume})
	case opState:
		c.reply <- p.state
	}
}

func (p *Player) load(trackID string, start bool) {
	p.unload()
	p.trackID = trackID
	p.emit(core.PlayerEvent{Kind: core.PlayerEventLoading, TrackID: trackID})

	src, err := p.cfg.Source(p.ctx, p.sess, trackID)
	if err != nil {
		p.logger.Error("failed to open track", zap.String("track", trackID), zap.Error(err))
		p.trackID = ""
		p.emit(core.PlayerEvent{Kind: core.PlayerEventStopped})
		return
	}
	p.source = src
	p.state = StatePaused

	if start {
		p.startSink()
	} else {
		p.emit(core.PlayerEvent{Kind: core.PlayerEventPaused, TrackID: trackID})
	}
}

func (p *Player) startSink() {
	sink, err := p.build(p.cfg.Format)
	if err == nil {
		err = sink.Start()
	}
	if err != nil {
		p.logger.Error("failed to open audio sink", zap.Error(err))
		p.unload()
		p.emit(core.PlayerEvent{Kind: core.PlayerEventStopped})
		return
	}
	p.sink = sink
	p.state = StatePlaying
	p.emit(core.PlayerEvent{Kind: core.PlayerEventPlaying, TrackID: p.trackID})
}

func (p *Player) stopSink() {
	if p.sink == nil {
		return
	}
	if err := p.sink.Stop(); err != nil {
		p.logger.Warn("failed to stop audio sink", zap.Error(err))
	}
	p.sink = nil
}

func (p *Player) unload() {
	p.stopSink()
	if p.source != nil {
		_ = p.source.Close()
		p.source = nil
	}
	p.trackID = ""
	p.state = StateStopped
}

// pump moves one chunk from the source to the sink.
func (p *Player) pump() {
	n, err := io.ReadFull(p.source, p.chunk)
	if n > 0 {
		pcm := p.chunk[:n]
		if g := p.volume.Attenuation(); g < 1 {
			audio.ScaleS16LE(pcm, g)
		}
		if _, werr := p.sink.Write(p.ctx, pcm); werr != nil && !errors.Is(werr, context.Canceled) {
			p.logger.Warn("audio write failed", zap.Error(werr))
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		id := p.trackID
		p.unload()
		p.emit(core.PlayerEvent{Kind: core.PlayerEventEndOfTrack, TrackID: id})
	default:
		p.logger.Error("track read failed", zap.String("track", p.trackID), zap.Error(err))
		p.unload()
		p.emit(core.PlayerEvent{Kind: core.PlayerEventStopped})
	}
}

func (p *Player) teardown() {
	p.unload()
}

// emit never blocks the engine. A consumer that stopped reading loses
// events rather than stalling playback.
// emit queues ev without blocking the engine; see Config.EventBuffer.
func (p *Player) emit(ev core.PlayerEvent) {
	select {
	case p.events <- ev:
	default:
		p.logger.Warn("event dropped, consumer not keeping up", zap.Stringer("kind", ev.Kind))
	}
}
