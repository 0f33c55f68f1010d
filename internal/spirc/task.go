package spirc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/core"
	"github.com/tessro/minispot/internal/session"
	"github.com/tessro/minispot/internal/spotify/client"
)

// Task is the endpoint driver.
type Task struct {
	spirc    *Spirc
	cfg      core.ConnectConfig
	api      session.API
	player   Player
	mixer    Mixer
	interval time.Duration
	logger   *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	prev     *core.PlaybackState
}

// Run drives the endpoint until ctx is cancelled or Shutdown is called. On
// return the transport rejects commands and the player is closed.
func (t *Task) Run(ctx context.Context) error {
	defer func() {
		t.spirc.close()
		if err := t.player.Close(); err != nil {
			t.logger.Warn("player close failed", zap.Error(err))
		}
		t.logger.Info("endpoint stopped")
	}()

	t.logger.Info("endpoint running", zap.Duration("poll_interval", t.interval))
	t.poll(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.stop:
			return nil
		case c := <-t.spirc.cmds:
			t.execute(ctx, c)
			t.poll(ctx)
		case <-ticker.C:
			t.poll(ctx)
		}
	}
}

// Shutdown asks Run to return.
func (t *Task) Shutdown() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *Task) execute(ctx context.Context, c command) {
	var err error
	switch c {
	case cmdPlay:
		err = t.api.Play(ctx, "", nil)
		switch {
		case client.IsAlreadyPlayingError(err):
			err = nil
		case client.IsNoActiveDeviceError(err) && t.prev != nil && t.prev.DeviceID != "":
			// The controlling device went idle; resume on the last one seen.
			err = t.api.TransferPlayback(ctx, t.prev.DeviceID, true)
		}
	case cmdPause:
		err = t.api.Pause(ctx, "")
	case cmdNext:
		err = t.api.Next(ctx, "")
	case cmdPrev:
		err = t.api.Previous(ctx, "")
	}
	if err != nil {
		t.logger.Warn("command failed", zap.Stringer("command", c), zap.Error(err))
		return
	}
	t.logger.Debug("command sent", zap.Stringer("command", c))
}

func (t *Task) poll(ctx context.Context) {
	ps, err := t.api.GetPlaybackState(ctx)
	if err != nil {
		if ctx.Err() == nil {
			t.logger.Debug("poll failed", zap.Error(err))
		}
		return
	}
	t.apply(toState(ps))
}

// apply moves the player from the previous snapshot to curr.
func (t *Task) apply(curr *core.PlaybackState) {
	prev := t.prev
	t.prev = curr

	for _, tr := range diffStates(prev, curr) {
		switch tr {
		case transLoad:
			if prev.HasTrack() {
				t.logger.Debug("track changed",
					zap.String("from", prev.TrackID),
					zap.Bool("completed", wasCompleted(prev)))
			}
			t.player.Load(curr.TrackID, curr.IsPlaying)
		case transStop:
			t.player.Stop()
		case transPause:
			t.player.Pause()
		case transResume:
			t.player.Play()
		case transVolume:
			if !t.cfg.HasVolumeCtrl {
				continue
			}
			t.mixer.SetPercent(curr.Volume)
			t.player.EmitVolumeChanged(t.mixer.Volume())
		}
		t.logger.Debug("transition", zap.Stringer("kind", tr))
	}
}
