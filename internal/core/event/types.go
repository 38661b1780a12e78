package event

import "github.com/slotecs/slotecs/internal/core/ecs"

type EntitySpawned struct {
	EntityID ecs.EntityID
	Prefab   string
}

type EntityDestroyed struct {
	EntityID ecs.EntityID
}

// GroupErased fires when an enemy group no longer resolves to any live enemy.
type GroupErased struct {
	GroupID int
}

// GroupCooldownReset fires when every active enemy of a group was cooling
// down and the whole group was made available again.
type GroupCooldownReset struct {
	GroupID int
	Enemies int
}
