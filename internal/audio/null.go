package audio

import (
	"context"
	"sync"
	"time"
)

// NullSinkBuilder builds sinks that drain at real-time rate and discard the
// samples.
func NullSinkBuilder(bufferMS int) SinkBuilder {
	return func(format Format) (Sink, error) {
		return newNullSink(format, bufferMS), nil
	}
}

type nullSink struct {
	*bufferedSink
	tick time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func newNullSink(format Format, bufferMS int) *nullSink {
	n := &nullSink{
		bufferedSink: newBufferedSink(format, bufferMS),
		tick:         20 * time.Millisecond,
	}
	n.bufferedSink.start = n.run
	n.bufferedSink.stop = n.halt
	return n
}

func (n *nullSink) run() error {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	chunk := make([]byte, n.format.BytesFor(int(n.tick/time.Millisecond)))

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		t := time.NewTicker(n.tick)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n.fill(chunk)
			}
		}
	}()
	return nil
}

func (n *nullSink) halt() error {
	if n.cancel != nil {
		n.cancel()
	}
	n.wg.Wait()
	return nil
}
