package system

import (
	"math"
	"time"

	"github.com/slotecs/slotecs/internal/component"
	"github.com/slotecs/slotecs/internal/core/ecs"
	coresys "github.com/slotecs/slotecs/internal/core/system"
)

// MovementSystem integrates Velocity into Transform for every entity that
// has both. Yaw is kept in [-pi, pi].
type MovementSystem struct {
	reg *ecs.Registry
}

func NewMovementSystem(reg *ecs.Registry) *MovementSystem {
	return &MovementSystem{reg: reg}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	sec := float32(dt.Seconds())
	ecs.Each2(s.reg, func(_ ecs.EntityID, t *component.Transform, v *component.Velocity) {
		t.X += v.X * sec
		t.Y += v.Y * sec
		t.Z += v.Z * sec
		if v.AngularY != 0 {
			t.Yaw = float32(math.Remainder(float64(t.Yaw+v.AngularY*sec), 2*math.Pi))
		}
	})
}
