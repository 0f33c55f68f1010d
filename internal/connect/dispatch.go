package connect

import (
	"go.uber.org/zap"

	minierrors "github.com/tessro/minispot/internal/errors"
)

// Player commands accepted by PlayerCommand.
const (
	CommandPlay  = "play"
	CommandPause = "pause"
	CommandNext  = "next"
	CommandPrev  = "prev"
)

// PlayerCommand forwards a command to the endpoint. Unknown commands are
// ignored once the endpoint exists.
func (o *Orchestrator) PlayerCommand(cmd string) error {
	t, ok := o.state.Transport()
	if !ok {
		return minierrors.ErrPlayerNotStarted
	}

	switch cmd {
	case CommandPlay:
		return t.Play()
	case CommandPause:
		return t.Pause()
	case CommandNext:
		return t.Next()
	case CommandPrev:
		return t.Prev()
	default:
		o.logger.Debug("ignoring unknown command", zap.String("command", cmd))
		return nil
	}
}

// CheckPlayerState reports whether the endpoint is up.
func (o *Orchestrator) CheckPlayerState() bool {
	_, ok := o.state.Transport()
	return ok
}
