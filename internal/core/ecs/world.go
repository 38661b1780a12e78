package ecs

// World is the top-level container handed to systems. It owns the Registry
// and a deferred destruction queue flushed by the cleanup system each tick,
// so systems never destroy an entity another system is still iterating.
type World struct {
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld(maxEntities int) *World {
	return &World{
		registry:     NewRegistry(maxEntities),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() (EntityID, error) {
	return w.registry.CreateEntity()
}

func (w *World) Alive(id EntityID) bool {
	return w.registry.Alive(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Queuing the
// same entity twice is harmless.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending returns the number of queued destructions.
func (w *World) Pending() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities and returns the ones that
// were actually live. Stale or duplicate entries are skipped.
func (w *World) FlushDestroyQueue() []EntityID {
	if len(w.destroyQueue) == 0 {
		return nil
	}
	destroyed := make([]EntityID, 0, len(w.destroyQueue))
	for _, id := range w.destroyQueue {
		if err := w.registry.DestroyEntity(id); err == nil {
			destroyed = append(destroyed, id)
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return destroyed
}
