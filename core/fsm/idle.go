package fsm

import (
	"time"

	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/internal/eventbus"
)

// Idle is a no-op holding state. Entering it fires the Started signal so the
// owning manager can broadcast a status line.
type Idle struct {
	Started *eventbus.Signal[struct{}]

	log logger.Logger
}

// NewIdle creates an Idle state.
func NewIdle(log logger.Logger) *Idle {
	if log == nil {
		log = logger.Nop{}
	}
	return &Idle{Started: eventbus.NewSignal[struct{}](), log: log}
}

func (s *Idle) OnEnter() {
	s.log.Debugf("entering idle")
	s.Started.Publish(struct{}{})
}

func (s *Idle) OnExit() {}

func (s *Idle) Tick(time.Duration) {}
