package audio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smallnest/ringbuffer"
)

// Sink consumes PCM in a fixed format.
type Sink interface {
	Start() error
	// Write queues PCM, blocking while the sink is saturated.
	Write(ctx context.Context, pcm []byte) (int, error)
	Stop() error
}

// SinkBuilder opens a sink for the given format. Builders can be invoked any
// number of times.
type SinkBuilder func(Format) (Sink, error)

// ErrSinkStopped is returned when writing to a stopped sink.
var ErrSinkStopped = errors.New("sink stopped")

const writeRetryDelay = 5 * time.Millisecond

// bufferedSink decouples producers from the device callback through a ring
// buffer. The callback side never blocks; underruns play silence.
type bufferedSink struct {
	format Format
	rb     *ringbuffer.RingBuffer

	mu      sync.Mutex
	running bool
	done    bool
	stopped chan struct{}

	start func() error
	stop  func() error
}

func newBufferedSink(format Format, bufferMS int) *bufferedSink {
	size := format.BytesFor(bufferMS)
	if size < format.FrameSize() {
		size = format.FrameSize()
	}
	return &bufferedSink{
		format:  format,
		rb:      ringbuffer.New(size),
		stopped: make(chan struct{}),
		start:   func() error { return nil },
		stop:    func() error { return nil },
	}
}

func (s *bufferedSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	if s.done {
		return ErrSinkStopped
	}
	if err := s.start(); err != nil {
		return err
	}
	s.running = true
	return nil
}

func (s *bufferedSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	s.done = true
	close(s.stopped)
	s.rb.Reset()
	return s.stop()
}

func (s *bufferedSink) Write(ctx context.Context, pcm []byte) (int, error) {
	written := 0
	for written < len(pcm) {
		n, err := s.rb.Write(pcm[written:])
		written += n
		if err == nil {
			continue
		}
		if !errors.Is(err, ringbuffer.ErrIsFull) {
			return written, err
		}
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		case <-s.stopped:
			return written, ErrSinkStopped
		case <-time.After(writeRetryDelay):
		}
	}
	return written, nil
}

// fill copies buffered PCM into out and pads the rest with silence.
func (s *bufferedSink) fill(out []byte) int {
	n, err := s.rb.Read(out)
	if err != nil && !errors.Is(err, ringbuffer.ErrIsEmpty) {
		n = 0
	}
	clear(out[n:])
	return n
}

// Buffered returns the number of queued bytes.
func (s *bufferedSink) Buffered() int {
	return s.rb.Length()
}
