package connect

import (
	"context"

	"go.uber.org/zap"

	"github.com/tessro/minispot/internal/core"
)

// relay turns player events into UI notifications, in order, until the
// event channel closes. A failed metadata lookup ends the relay.
func (o *Orchestrator) relay(sess Session, events <-chan core.PlayerEvent) {
	defer sess.Close()
	log := o.logger.Named("relay")

	for ev := range events {
		payload, ok, err := o.payloadFor(o.base, sess, ev)
		if err != nil {
			log.Error("metadata lookup failed, relay stopping",
				zap.String("track", ev.TrackID),
				zap.Stringer("event", ev.Kind),
				zap.Error(err))
			return
		}
		if !ok {
			continue
		}
		if err := o.notifier.Emit(EventName, payload); err != nil {
			log.Debug("notification dropped", zap.Error(err))
		}
	}
	log.Debug("event channel closed")
}

// payloadFor builds the notification payload of ev. Events the UI does not
// care about yield ok == false.
func (o *Orchestrator) payloadFor(ctx context.Context, sess Session, ev core.PlayerEvent) (string, bool, error) {
	switch ev.Kind {
	case core.PlayerEventPaused:
		return PayloadPaused, true, nil
	case core.PlayerEventLoading, core.PlayerEventPlaying:
		md, err := sess.Track(ctx, ev.TrackID)
		if err != nil {
			return "", false, err
		}
		summary, err := core.Summarize(md)
		if err != nil {
			return "", false, err
		}
		prefix := PrefixLoaded
		if ev.Kind == core.PlayerEventPlaying {
			prefix = PrefixPlaying
		}
		return prefix + summary.String(), true, nil
	default:
		return "", false, nil
	}
}
