package connect

import (
	"sync"

	"github.com/tessro/minispot/internal/core"
)

// State is the process-wide endpoint state shared by the orchestrator and
// the command surface. Both fields are guarded by their own leaf lock.
type State struct {
	startedMu sync.Mutex
	started   bool

	transportMu sync.Mutex
	transport   core.Transport
}

// Started reports whether the endpoint has been brought up.
func (s *State) Started() bool {
	s.startedMu.Lock()
	defer s.startedMu.Unlock()
	return s.started
}

func (s *State) markStarted() {
	s.startedMu.Lock()
	defer s.startedMu.Unlock()
	s.started = true
}

// Transport returns the transport handle once it exists.
func (s *State) Transport() (core.Transport, bool) {
	s.transportMu.Lock()
	defer s.transportMu.Unlock()
	return s.transport, s.transport != nil
}

func (s *State) setTransport(t core.Transport) {
	s.transportMu.Lock()
	defer s.transportMu.Unlock()
	s.transport = t
}
