package connect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/audio"
	"github.com/tessro/minispot/internal/core"
	"github.com/tessro/minispot/internal/discovery"
	"github.com/tessro/minispot/internal/player"
	"github.com/tessro/minispot/internal/session"
	"github.com/tessro/minispot/internal/spirc"
)

// DiscoveryLauncher launches the zeroconf gate. Without an explicit
// advertiser each launch registers a fresh mDNS record on Interfaces.
type DiscoveryLauncher struct {
	Options    discovery.Options
	Interfaces []string
}

// Launch implements Launcher.
func (l DiscoveryLauncher) Launch(ctx context.Context, cfg core.DiscoveryConfig) (Gate, error) {
	opts := l.Options
	if opts.Advertiser == nil {
		opts.Advertiser = &discovery.MDNS{Interfaces: l.Interfaces}
	}
	g, err := discovery.Launch(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// LiveOptions configures the Web API backed backend.
type LiveOptions struct {
	ClientID      string
	API           session.API
	AudioBackend  string
	Format        audio.Format
	BufferMS      int
	PollInterval  time.Duration
	CommandBuffer int
	Logger        *zap.Logger

	// FindSink selects the audio output. Defaults to audio.Find.
	FindSink func(backend string, bufferMS int, logger *zap.Logger) (audio.SinkBuilder, error)
}

// LiveBackend builds sessions, players and endpoints on the Web API.
type LiveBackend struct {
	opts LiveOptions
}

// NewLiveBackend creates a LiveBackend.
func NewLiveBackend(opts LiveOptions) *LiveBackend {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FindSink == nil {
		opts.FindSink = audio.Find
	}
	if opts.Format.SampleRate == 0 {
		opts.Format = audio.DefaultFormat
	}
	return &LiveBackend{opts: opts}
}

type liveSession struct {
	s *session.Session
}

func (l liveSession) Clone() Session { return liveSession{l.s.Clone()} }
func (l liveSession) Close()         { l.s.Close() }

func (l liveSession) Track(ctx context.Context, id string) (*core.TrackMetadata, error) {
	return l.s.Track(ctx, id)
}

type livePlayer struct {
	p *player.Player
}

func (l livePlayer) Close() error { return l.p.Close() }

// NewSession implements Backend. Only the client and device ids differ from
// the session defaults; nothing is cached between runs.
func (b *LiveBackend) NewSession(deviceName string) (Session, error) {
	cfg := session.Config{
		ClientID: b.opts.ClientID,
		DeviceID: core.DeviceID(deviceName),
	}
	return liveSession{session.New(cfg, b.opts.API, b.opts.Logger)}, nil
}

// NewPlayer implements Backend. Output gain is left alone; the mixer only
// tracks the Connect volume.
func (b *LiveBackend) NewPlayer(sess Session) (Player, <-chan core.PlayerEvent, error) {
	ls, ok := sess.(liveSession)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported session %T", sess)
	}
	build, err := b.opts.FindSink(b.opts.AudioBackend, b.opts.BufferMS, b.opts.Logger)
	if err != nil {
		return nil, nil, err
	}

	format := b.opts.Format
	sinkBuilder := func(audio.Format) (audio.Sink, error) {
		return build(format)
	}

	cfg := player.DefaultConfig()
	cfg.Format = format
	p, events := player.New(cfg, ls.s, audio.NoOpVolume{}, sinkBuilder, b.opts.Logger)
	return livePlayer{p}, events, nil
}

// NewSpirc implements Backend.
func (b *LiveBackend) NewSpirc(ctx context.Context, cfg core.ConnectConfig, sess Session, creds core.Credentials, p Player) (core.Transport, Task, error) {
	ls, ok := sess.(liveSession)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported session %T", sess)
	}
	lp, ok := p.(livePlayer)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported player %T", p)
	}

	transport, task, err := spirc.New(ctx, cfg, ls.s, creds, lp.p, audio.NewSoftMixer(), spirc.Options{
		PollInterval:  b.opts.PollInterval,
		CommandBuffer: b.opts.CommandBuffer,
		Logger:        b.opts.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return transport, &ownedTask{task: task, sess: ls}, nil
}

// ownedTask releases the endpoint's session handle when the driver ends.
type ownedTask struct {
	task *spirc.Task
	sess liveSession
}

func (t *ownedTask) Run(ctx context.Context) error {
	defer t.sess.Close()
	return t.task.Run(ctx)
}
