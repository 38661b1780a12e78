package main

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/slotecs/slotecs/internal/component"
	"github.com/slotecs/slotecs/internal/config"
	"github.com/slotecs/slotecs/internal/core/ecs"
	"github.com/slotecs/slotecs/internal/core/event"
	coresys "github.com/slotecs/slotecs/internal/core/system"
	"github.com/slotecs/slotecs/internal/data"
	"github.com/slotecs/slotecs/internal/scripting"
	"github.com/slotecs/slotecs/internal/system"
)

// game is everything the loop ticks, wired together.
type game struct {
	world   *ecs.World
	bus     *event.Bus
	runner  *coresys.Runner
	engine  *scripting.Engine
	spawner *system.Spawner
	scripts *system.ScriptSystem
	groups  *system.EnemyGroupSystem
}

func newGame(cfg *config.Config, log *zap.Logger) (*game, error) {
	world := ecs.NewWorld(cfg.Registry.MaxEntities)
	if err := component.Register(world.Registry()); err != nil {
		return nil, err
	}

	prefabs, err := loadPrefabs(cfg.Data.PrefabFile, log)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus()
	spawner := system.NewSpawner(world, bus, prefabs, log)

	engine, err := scripting.NewEngine("", world, log)
	if err != nil {
		return nil, fmt.Errorf("scripting: %w", err)
	}
	engine.SetNumber("BPM", cfg.Game.BeatsPerMinute)
	engine.SetSpawner(spawner.Spawn)

	// Subscription order matters: groups enroll spawns before on_spawn runs.
	g := &game{
		world:   world,
		bus:     bus,
		runner:  coresys.NewRunner(),
		engine:  engine,
		spawner: spawner,
		groups:  system.NewEnemyGroupSystem(world.Registry(), bus, log),
		scripts: system.NewScriptSystem(engine, bus, log),
	}
	spatial := system.NewSpatialSystem(world.Registry(), cfg.Game.CellSize)
	engine.SetNearby(spatial.Nearby)

	g.runner.Register(system.NewEventDispatchSystem(bus))
	g.runner.Register(g.scripts)
	g.runner.Register(system.NewMovementSystem(world.Registry()))
	g.runner.Register(spatial)
	g.runner.Register(g.groups)
	g.runner.Register(system.NewCleanupSystem(world, bus, log))

	if err := engine.LoadDir(cfg.Data.ScriptsDir); err != nil {
		engine.Close()
		return nil, fmt.Errorf("scripting: %w", err)
	}
	return g, nil
}

func (g *game) Close() {
	g.engine.Close()
}

// loadPrefabs reads the prefab table. A missing file yields an empty table.
func loadPrefabs(path string, log *zap.Logger) (*data.PrefabTable, error) {
	table, err := data.LoadPrefabTable(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("prefab file not found", zap.String("file", path))
		return data.ParsePrefabTable(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load prefabs: %w", err)
	}
	return table, nil
}
