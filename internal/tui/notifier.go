package tui

import (
	"errors"

	"github.com/tessro/minispot/internal/connect"
)

var errEventBufferFull = errors.New("tui: event buffer full")

// Notifier queues player_event payloads for the terminal UI.
type Notifier struct {
	events chan string
}

// NewNotifier creates a Notifier holding up to buffer pending payloads.
func NewNotifier(buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 32
	}
	return &Notifier{events: make(chan string, buffer)}
}

// Emit implements connect.Notifier. It never blocks; a full buffer drops
// the payload.
func (n *Notifier) Emit(event, payload string) error {
	if event != connect.EventName {
		return nil
	}
	select {
	case n.events <- payload:
		return nil
	default:
		return errEventBufferFull
	}
}

// Events returns the payload stream.
func (n *Notifier) Events() <-chan string {
	return n.events
}
