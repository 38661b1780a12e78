package system

import (
	"go.uber.org/zap"

	"github.com/slotecs/slotecs/internal/core/ecs"
	"github.com/slotecs/slotecs/internal/core/event"
	"github.com/slotecs/slotecs/internal/data"
)

// Spawner creates entities from the current prefab table and announces them
// on the bus. The table can be swapped at runtime when prefabs are reloaded.
type Spawner struct {
	world *ecs.World
	bus   *event.Bus
	table *data.PrefabTable
	log   *zap.Logger
}

func NewSpawner(world *ecs.World, bus *event.Bus, table *data.PrefabTable, log *zap.Logger) *Spawner {
	return &Spawner{world: world, bus: bus, table: table, log: log}
}

func (s *Spawner) SetTable(table *data.PrefabTable) {
	s.table = table
}

func (s *Spawner) Table() *data.PrefabTable { return s.table }

func (s *Spawner) Spawn(prefab string) (ecs.EntityID, error) {
	id, err := s.table.Spawn(s.world.Registry(), prefab)
	if err != nil {
		return ecs.InvalidID, err
	}
	event.Emit(s.bus, event.EntitySpawned{EntityID: id, Prefab: prefab})
	s.log.Debug("spawned prefab", zap.String("prefab", prefab), zap.Stringer("entity", id))
	return id, nil
}
