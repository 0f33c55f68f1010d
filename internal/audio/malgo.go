package audio

import (
	"fmt"
	"strings"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	minierrors "github.com/tessro/minispot/internal/errors"
)

// backends maps config names onto malgo backends.
var backends = map[string]malgo.Backend{
	"alsa":       malgo.BackendAlsa,
	"pulseaudio": malgo.BackendPulseaudio,
	"jack":       malgo.BackendJack,
	"wasapi":     malgo.BackendWasapi,
	"coreaudio":  malgo.BackendCoreaudio,
	"null":       malgo.BackendNull,
}

// Find selects an output and returns a builder for sinks on it. An empty
// backend lets malgo pick the platform default. The "null" backend discards
// audio without touching the sound system.
func Find(backend string, bufferMS int, logger *zap.Logger) (SinkBuilder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("audio")

	if backend == "null" {
		logger.Info("using null audio sink")
		return NullSinkBuilder(bufferMS), nil
	}

	var selected []malgo.Backend
	if backend != "" {
		b, ok := backends[backend]
		if !ok {
			return nil, fmt.Errorf("unknown audio backend %q", backend)
		}
		selected = []malgo.Backend{b}
	}

	// Probe once so a missing device fails at startup, not on first play.
	ctx, err := malgo.InitContext(selected, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	devices, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerate playback devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, minierrors.ErrNoAudioDevice
	}

	name := devices[0].Name()
	for _, d := range devices {
		if d.IsDefault != 0 {
			name = d.Name()
			break
		}
	}
	logger.Info("selected audio output", zap.String("device", strings.TrimSpace(name)), zap.String("backend", backend))

	return func(format Format) (Sink, error) {
		return newMalgoSink(selected, format, bufferMS, logger)
	}, nil
}

// newMalgoSink opens the default playback device of the selected backends.
func newMalgoSink(selected []malgo.Backend, format Format, bufferMS int, logger *zap.Logger) (Sink, error) {
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d", format.BitDepth)
	}

	sink := newBufferedSink(format, bufferMS)

	var (
		mctx   *malgo.AllocatedContext
		device *malgo.Device
	)

	sink.start = func() error {
		var err error
		mctx, err = malgo.InitContext(selected, malgo.ContextConfig{}, func(msg string) {
			logger.Debug("malgo", zap.String("msg", strings.TrimSpace(msg)))
		})
		if err != nil {
			return fmt.Errorf("init audio context: %w", err)
		}

		cfg := malgo.DefaultDeviceConfig(malgo.Playback)
		cfg.Playback.Format = malgo.FormatS16
		cfg.Playback.Channels = uint32(format.Channels)
		cfg.SampleRate = uint32(format.SampleRate)
		cfg.Alsa.NoMMap = 1

		device, err = malgo.InitDevice(mctx.Context, cfg, malgo.DeviceCallbacks{
			Data: func(out, _ []byte, _ uint32) {
				sink.fill(out)
			},
		})
		if err != nil {
			_ = mctx.Uninit()
			mctx.Free()
			return fmt.Errorf("init playback device: %w", err)
		}

		if err := device.Start(); err != nil {
			device.Uninit()
			_ = mctx.Uninit()
			mctx.Free()
			return fmt.Errorf("start playback device: %w", err)
		}
		return nil
	}

	sink.stop = func() error {
		if device != nil {
			_ = device.Stop()
			device.Uninit()
			device = nil
		}
		if mctx != nil {
			_ = mctx.Uninit()
			mctx.Free()
			mctx = nil
		}
		return nil
	}

	return sink, nil
}
