package component

import (
	"fmt"

	"github.com/slotecs/slotecs/internal/core/ecs"
)

// Kind names as used by prefabs and scripts.
const (
	KindFoo         = "foo"
	KindBar         = "bar"
	KindTransform   = "transform"
	KindVelocity    = "velocity"
	KindTypingEnemy = "typing_enemy"
)

// Register assigns every component in this package a named kind on reg.
// It must run before prefabs or scripts resolve kinds by name.
func Register(reg *ecs.Registry) error {
	steps := []func() (ecs.ComponentKind, error){
		func() (ecs.ComponentKind, error) { return ecs.RegisterComponent[Foo](reg, KindFoo) },
		func() (ecs.ComponentKind, error) { return ecs.RegisterComponent[Bar](reg, KindBar) },
		func() (ecs.ComponentKind, error) { return ecs.RegisterComponent[Transform](reg, KindTransform) },
		func() (ecs.ComponentKind, error) { return ecs.RegisterComponent[Velocity](reg, KindVelocity) },
		func() (ecs.ComponentKind, error) { return ecs.RegisterComponent[TypingEnemy](reg, KindTypingEnemy) },
	}
	for _, step := range steps {
		if _, err := step(); err != nil {
			return fmt.Errorf("register components: %w", err)
		}
	}
	return nil
}
