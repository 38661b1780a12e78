package system

import (
	"time"

	"github.com/slotecs/slotecs/internal/core/event"
	coresys "github.com/slotecs/slotecs/internal/core/system"
)

// EventDispatchSystem makes last tick's events visible and delivers them.
// It runs first so every later system sees a settled front buffer.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
