package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/slotecs/slotecs/internal/core/ecs"
	"github.com/slotecs/slotecs/internal/core/event"
	coresys "github.com/slotecs/slotecs/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end
// and announces every entity it destroyed.
type CleanupSystem struct {
	world *ecs.World
	bus   *event.Bus
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, bus *event.Bus, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, bus: bus, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	destroyed := s.world.FlushDestroyQueue()
	for _, id := range destroyed {
		event.Emit(s.bus, event.EntityDestroyed{EntityID: id})
	}
	if len(destroyed) > 0 {
		s.log.Debug("entities destroyed",
			zap.Int("count", len(destroyed)),
			zap.Int("live", s.world.Registry().Len()))
	}
}
