package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/slotecs/slotecs/internal/component"
	"github.com/slotecs/slotecs/internal/core/ecs"
)

// runScenario exercises a fresh registry the way the original demo did:
// two entities sharing the Bar kind, only one carrying Foo.
func runScenario(log *zap.Logger) error {
	reg := ecs.NewRegistry(ecs.DefaultMaxEntities)

	e1, err := reg.CreateEntity()
	if err != nil {
		return err
	}
	if _, err := ecs.SetComponent(reg, e1, component.Foo{Str: "howdy"}); err != nil {
		return err
	}
	if _, err := ecs.SetComponent(reg, e1, component.Bar{Int: 999}); err != nil {
		return err
	}
	e2, err := reg.CreateEntity()
	if err != nil {
		return err
	}
	if _, err := ecs.SetComponent(reg, e2, component.Bar{Int: 4}); err != nil {
		return err
	}

	foo, ok := ecs.GetComponent[component.Foo](reg, e1)
	if !ok || foo.Str != "howdy" {
		return fmt.Errorf("%s: foo missing or wrong", e1)
	}
	if bar, ok := ecs.GetComponent[component.Bar](reg, e1); !ok || bar.Int != 999 {
		return fmt.Errorf("%s: bar missing or wrong", e1)
	}
	if bar, ok := ecs.GetComponent[component.Bar](reg, e2); !ok || bar.Int != 4 {
		return fmt.Errorf("%s: bar missing or wrong", e2)
	}
	if ecs.HasComponent[component.Foo](reg, e2) {
		return fmt.Errorf("%s: unexpected foo", e2)
	}

	log.Info("scenario",
		zap.Stringer("e1", e1), zap.String("e1.foo", foo.Str),
		zap.Stringer("e2", e2), zap.Int("kinds", reg.KindCount()))
	return nil
}
