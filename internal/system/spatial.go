package system

import (
	"sort"
	"time"

	"github.com/slotecs/slotecs/internal/component"
	"github.com/slotecs/slotecs/internal/core/ecs"
	coresys "github.com/slotecs/slotecs/internal/core/system"
	"github.com/slotecs/slotecs/internal/world"
)

// SpatialSystem mirrors every Transform into a world.Grid after movement
// has run, and answers radius queries against it.
type SpatialSystem struct {
	reg   *ecs.Registry
	grid  *world.Grid
	stale []ecs.EntityID
}

func NewSpatialSystem(reg *ecs.Registry, cellSize float32) *SpatialSystem {
	return &SpatialSystem{reg: reg, grid: world.NewGrid(cellSize)}
}

func (s *SpatialSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SpatialSystem) Grid() *world.Grid { return s.grid }

func (s *SpatialSystem) Update(_ time.Duration) {
	ecs.Each1(s.reg, func(id ecs.EntityID, t *component.Transform) {
		s.grid.Place(id, t.X, t.Z)
	})
	s.stale = s.stale[:0]
	s.grid.Each(func(id ecs.EntityID) {
		if !ecs.HasComponent[component.Transform](s.reg, id) {
			s.stale = append(s.stale, id)
		}
	})
	for _, id := range s.stale {
		s.grid.Remove(id)
	}
}

// Nearby returns live entities whose current Transform lies within radius
// of (x, z) on the XZ plane, in slot order. Positions are read from the
// registry, so entities moved since the last Update are still measured
// correctly as long as they stay in a neighbouring cell.
func (s *SpatialSystem) Nearby(x, z, radius float32) []ecs.EntityID {
	var candidates []ecs.EntityID
	if radius > s.grid.CellSize() {
		ecs.Each1(s.reg, func(id ecs.EntityID, _ *component.Transform) {
			candidates = append(candidates, id)
		})
	} else {
		candidates = s.grid.Candidates(nil, x, z)
	}

	out := candidates[:0]
	r2 := radius * radius
	for _, id := range candidates {
		t, ok := ecs.GetComponent[component.Transform](s.reg, id)
		if !ok {
			continue
		}
		dx, dz := t.X-x, t.Z-z
		if dx*dx+dz*dz <= r2 {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}
