package system

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"gotest.tools/v3/assert"

	"github.com/slotecs/slotecs/internal/component"
	"github.com/slotecs/slotecs/internal/core/ecs"
	"github.com/slotecs/slotecs/internal/core/event"
	coresys "github.com/slotecs/slotecs/internal/core/system"
	"github.com/slotecs/slotecs/internal/data"
	"github.com/slotecs/slotecs/internal/scripting"
)

const pipelinePrefabs = `
prefabs:
  - name: grunt
    components:
      transform: {}
      velocity: {x: 1}
      typing_enemy: {group_id: 1, active: true, cooldown_start: 2}
`

const pipelineScript = `
spawned = 0
destroyed = 0
ticks = 0
function on_spawn(e, prefab) spawned = spawned + 1 end
function on_destroy(e) destroyed = destroyed + 1 end
function update(dt)
	ticks = ticks + 1
	if ticks == 2 then
		ecs.each("typing_enemy", function(e, enemy) ecs.destroy(e) end)
	end
end
`

type pipeline struct {
	world   *ecs.World
	bus     *event.Bus
	runner  *coresys.Runner
	engine  *scripting.Engine
	spawner *Spawner
	groups  *EnemyGroupSystem
	scripts *ScriptSystem
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	world := ecs.NewWorld(8)
	assert.NilError(t, component.Register(world.Registry()))
	table, err := data.ParsePrefabTable([]byte(pipelinePrefabs))
	assert.NilError(t, err)

	log := zap.NewNop()
	bus := event.NewBus()
	engine, err := scripting.NewEngine("", world, log)
	assert.NilError(t, err)
	t.Cleanup(engine.Close)
	assert.NilError(t, engine.DoString(pipelineScript))

	p := &pipeline{
		world:   world,
		bus:     bus,
		runner:  coresys.NewRunner(),
		engine:  engine,
		spawner: NewSpawner(world, bus, table, log),
		groups:  NewEnemyGroupSystem(world.Registry(), bus, log),
		scripts: NewScriptSystem(engine, bus, log),
	}
	engine.SetSpawner(p.spawner.Spawn)
	p.runner.Register(NewCleanupSystem(world, bus, log))
	p.runner.Register(p.groups)
	p.runner.Register(NewMovementSystem(world.Registry()))
	p.runner.Register(p.scripts)
	p.runner.Register(NewEventDispatchSystem(bus))
	return p
}

func TestPipelineLifecycle(t *testing.T) {
	p := newPipeline(t)
	reg := p.world.Registry()

	a, err := p.spawner.Spawn("grunt")
	assert.NilError(t, err)
	b, err := p.spawner.Spawn("grunt")
	assert.NilError(t, err)
	_, err = p.spawner.Spawn("nobody")
	assert.ErrorIs(t, err, data.ErrUnknownPrefab)

	// Tick 1: spawn events reach the group system and on_spawn; both
	// grunts are cooling down, so the group resets at post-update.
	p.runner.Tick(time.Second)
	assert.Equal(t, p.engine.Global("spawned"), 2.0)
	assert.Equal(t, p.groups.GroupSize(1), 2)
	for _, id := range []ecs.EntityID{a, b} {
		e, ok := ecs.GetComponent[component.TypingEnemy](reg, id)
		assert.Assert(t, ok)
		assert.Equal(t, e.CooldownStart, component.NoCooldown)
		tr, _ := ecs.GetComponent[component.Transform](reg, id)
		assert.Equal(t, tr.X, float32(1))
	}

	// Tick 2: the script queues both for destruction; cleanup flushes.
	p.runner.Tick(time.Second)
	assert.Equal(t, reg.Len(), 0)
	assert.Assert(t, !p.world.Alive(a))

	// Tick 3: on_destroy fires; the group no longer resolves.
	p.runner.Tick(time.Second)
	assert.Equal(t, p.engine.Global("destroyed"), 2.0)
	assert.Equal(t, p.groups.GroupCount(), 0)
	assert.Equal(t, p.scripts.Errors(), 0)
	assert.Equal(t, p.runner.Ticks(), uint64(3))
}

func TestScriptSystemCountsErrors(t *testing.T) {
	p := newPipeline(t)
	assert.NilError(t, p.engine.DoString(`function update(dt) error("nope") end`))
	p.runner.TickPhase(coresys.PhaseScript, time.Second)
	p.runner.TickPhase(coresys.PhaseScript, time.Second)
	assert.Equal(t, p.scripts.Errors(), 2)
}

func TestSpawnerFromScript(t *testing.T) {
	p := newPipeline(t)
	assert.NilError(t, p.engine.DoString(`g = ecs.spawn("grunt")`))
	assert.Equal(t, p.world.Registry().Len(), 1)
	assert.Equal(t, p.bus.Pending(), 1)

	table, err := data.ParsePrefabTable([]byte("prefabs:\n  - name: other\n"))
	assert.NilError(t, err)
	p.spawner.SetTable(table)
	assert.Equal(t, p.spawner.Table(), table)
	err = p.engine.DoString(`ecs.spawn("grunt")`)
	assert.ErrorContains(t, err, "unknown prefab")
}
