package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gotest.tools/v3/assert"

	"github.com/slotecs/slotecs/internal/component"
	"github.com/slotecs/slotecs/internal/core/ecs"
)

func newEngine(t *testing.T, dir string) (*Engine, *ecs.World) {
	t.Helper()
	world := ecs.NewWorld(8)
	assert.NilError(t, component.Register(world.Registry()))
	e, err := NewEngine(dir, world, zap.NewNop())
	assert.NilError(t, err)
	t.Cleanup(e.Close)
	return e, world
}

func TestScriptsAttachAndReadComponents(t *testing.T) {
	e, world := newEngine(t, "")
	reg := world.Registry()

	assert.NilError(t, e.DoString(`
		hero = ecs.create()
		ecs.add(hero, "foo", {str = "howdy"})
		ecs.add(hero, "Transform", {x = 1.5, y = 2})
		ecs.add(hero, "typing_enemy", {group_id = 3, active = true, cooldown_start = -1})
		local t = ecs.get(hero, "transform")
		tx = t.x
		missing = ecs.get(hero, "velocity") == nil
		has_foo = ecs.has(hero, "foo")
		count = ecs.count()
	`))
	assert.Equal(t, e.Global("tx"), 1.5)
	assert.Equal(t, e.Global("missing"), true)
	assert.Equal(t, e.Global("has_foo"), true)
	assert.Equal(t, e.Global("count"), 1.0)

	var hero ecs.EntityID
	ecs.Each1(reg, func(id ecs.EntityID, _ *component.Foo) { hero = id })
	foo, ok := ecs.GetComponent[component.Foo](reg, hero)
	assert.Assert(t, ok)
	assert.Equal(t, foo.Str, "howdy")
	enemy, ok := ecs.GetComponent[component.TypingEnemy](reg, hero)
	assert.Assert(t, ok)
	assert.Equal(t, *enemy, component.TypingEnemy{GroupID: 3, Active: true, CooldownStart: -1})
}

func TestScriptsSetRemoveDestroy(t *testing.T) {
	e, world := newEngine(t, "")
	reg := world.Registry()

	assert.NilError(t, e.DoString(`
		e1 = ecs.create()
		ecs.add(e1, "bar", {int = 4})
		ok_set = ecs.set(e1, "bar", {int = 999})
		absent_set = ecs.set(e1, "foo", {str = "x"})
		removed = ecs.remove(e1, "bar")
		removed_again = ecs.remove(e1, "bar")
		queued = ecs.destroy(e1)
		still_alive = ecs.alive(e1)
		label = tostring(e1)
		same = e1 == e1
	`))
	assert.Equal(t, e.Global("ok_set"), true)
	assert.Equal(t, e.Global("absent_set"), false)
	assert.Equal(t, e.Global("removed"), true)
	assert.Equal(t, e.Global("removed_again"), false)
	assert.Equal(t, e.Global("queued"), true)
	assert.Equal(t, e.Global("still_alive"), true, "destroy is deferred")
	assert.Equal(t, e.Global("label"), "entity(0:0)")
	assert.Equal(t, e.Global("same"), true)

	destroyed := world.FlushDestroyQueue()
	assert.Equal(t, len(destroyed), 1)
	assert.Equal(t, reg.Len(), 0)

	assert.NilError(t, e.DoString(`
		alive_after = ecs.alive(e1)
		queued_after = ecs.destroy(e1)
		gone = ecs.get(e1, "bar") == nil
	`))
	assert.Equal(t, e.Global("alive_after"), false)
	assert.Equal(t, e.Global("queued_after"), false)
	assert.Equal(t, e.Global("gone"), true)
}

func TestScriptsEach(t *testing.T) {
	e, world := newEngine(t, "")
	reg := world.Registry()
	for i := 0; i < 3; i++ {
		id, err := world.CreateEntity()
		assert.NilError(t, err)
		_, err = ecs.SetComponent(reg, id, component.Bar{Int: i + 1})
		assert.NilError(t, err)
	}
	other, err := world.CreateEntity()
	assert.NilError(t, err)
	_, err = ecs.AddComponent[component.Foo](reg, other)
	assert.NilError(t, err)

	assert.NilError(t, e.DoString(`
		sum = 0
		visits = 0
		ecs.each("bar", function(ent, bar)
			sum = sum + bar.int
			visits = visits + 1
			ecs.set(ent, "bar", {int = bar.int * 10})
		end)
	`))
	assert.Equal(t, e.Global("sum"), 6.0)
	assert.Equal(t, e.Global("visits"), 3.0)

	total := 0
	ecs.Each1(reg, func(_ ecs.EntityID, b *component.Bar) { total += b.Int })
	assert.Equal(t, total, 60)
}

func TestScriptErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"unknown_kind", `ecs.add(ecs.create(), "wings")`, "unknown component kind wings"},
		{"unknown_field", `ecs.add(ecs.create(), "bar", {count = 1})`, `Bar has no field "count"`},
		{"wrong_type", `ecs.add(ecs.create(), "foo", {str = 5})`, "want string"},
		{"fraction_into_int", `ecs.add(ecs.create(), "bar", {int = 1.5})`, "does not fit int"},
		{"not_an_entity", `ecs.alive(42)`, "userdata expected"},
		{"no_spawner", `ecs.spawn("runner")`, "no prefab table loaded"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, _ := newEngine(t, "")
			err := e.DoString(c.src)
			assert.ErrorContains(t, err, c.want)
		})
	}
}

func TestFailedWritesLeaveComponentsUntouched(t *testing.T) {
	e, world := newEngine(t, "")
	reg := world.Registry()

	assert.NilError(t, e.DoString(`
		hero = ecs.create()
		ecs.add(hero, "bar", {int = 999})
		ecs.add(hero, "transform", {x = 1, z = 2})
	`))
	var hero ecs.EntityID
	ecs.Each1(reg, func(id ecs.EntityID, _ *component.Bar) { hero = id })
	mask, ok := reg.Mask(hero)
	assert.Assert(t, ok)

	cases := []struct {
		name string
		src  string
		want string
	}{
		{"readd_bad_int", `ecs.add(hero, "bar", {int = 1.5})`, "does not fit int"},
		{"add_unknown_field", `ecs.add(hero, "foo", {nope = 1})`, `Foo has no field "nope"`},
		{"set_partial", `ecs.set(hero, "transform", {x = 5, yaw = "left"})`, "want number"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.ErrorContains(t, e.DoString(c.src), c.want)

			got, ok := reg.Mask(hero)
			assert.Assert(t, ok)
			assert.Equal(t, got, mask)
			bar, ok := ecs.GetComponent[component.Bar](reg, hero)
			assert.Assert(t, ok)
			assert.Equal(t, bar.Int, 999)
			tr, ok := ecs.GetComponent[component.Transform](reg, hero)
			assert.Assert(t, ok)
			assert.Equal(t, *tr, component.Transform{X: 1, Z: 2})
			assert.Assert(t, !ecs.HasComponent[component.Foo](reg, hero))
		})
	}

	assert.NilError(t, e.DoString(`ecs.set(hero, "transform", {x = 5})`))
	tr, _ := ecs.GetComponent[component.Transform](reg, hero)
	assert.Equal(t, *tr, component.Transform{X: 5, Z: 2})
}

func TestCapacityErrorSurfacesInLua(t *testing.T) {
	world := ecs.NewWorld(1)
	e, err := NewEngine("", world, zap.NewNop())
	assert.NilError(t, err)
	defer e.Close()

	assert.NilError(t, e.DoString(`ecs.create()`))
	err = e.DoString(`ecs.create()`)
	assert.ErrorContains(t, err, ecs.ErrEntitiesExhausted.Error())
}

func TestSpawner(t *testing.T) {
	e, world := newEngine(t, "")
	var asked []string
	e.SetSpawner(func(prefab string) (ecs.EntityID, error) {
		asked = append(asked, prefab)
		return world.CreateEntity()
	})
	assert.NilError(t, e.DoString(`spawned = ecs.alive(ecs.spawn("runner"))`))
	assert.DeepEqual(t, asked, []string{"runner"})
	assert.Equal(t, e.Global("spawned"), true)
}

func TestHooksAndLoadDir(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "a_state.lua"), []byte(`
		elapsed = 0
		spawned = ""
		destroyed = 0
	`), 0o644))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "b_hooks.lua"), []byte(`
		function update(dt) elapsed = elapsed + dt end
		function on_spawn(e, prefab) spawned = prefab .. ":" .. e:index() end
		function on_destroy(e) destroyed = destroyed + 1 end
	`), 0o644))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0o644))

	e, _ := newEngine(t, dir)
	assert.Assert(t, e.HasFunction("update"))
	assert.Assert(t, !e.HasFunction("elapsed"))

	assert.NilError(t, e.Update(250*time.Millisecond))
	assert.NilError(t, e.Update(250*time.Millisecond))
	assert.Equal(t, e.Global("elapsed"), 0.5)

	assert.NilError(t, e.OnSpawn(ecs.NewEntityID(2, 0), "runner"))
	assert.Equal(t, e.Global("spawned"), "runner:2")
	assert.NilError(t, e.OnDestroy(ecs.NewEntityID(2, 0)))
	assert.Equal(t, e.Global("destroyed"), 1.0)

	// Reloading redefines the hook.
	hooks := filepath.Join(dir, "b_hooks.lua")
	assert.NilError(t, os.WriteFile(hooks, []byte(`function update(dt) elapsed = -1 end`), 0o644))
	assert.NilError(t, e.LoadFile(hooks))
	assert.NilError(t, e.Update(time.Second))
	assert.Equal(t, e.Global("elapsed"), -1.0)
}

func TestMissingHooksAreSkipped(t *testing.T) {
	e, _ := newEngine(t, filepath.Join(t.TempDir(), "absent"))
	assert.NilError(t, e.Update(time.Second))
	assert.NilError(t, e.OnDestroy(ecs.NewEntityID(0, 0)))
}

func TestHookErrorIsReturned(t *testing.T) {
	e, _ := newEngine(t, "")
	assert.NilError(t, e.DoString(`function update(dt) error("boom") end`))
	err := e.Update(time.Second)
	assert.ErrorContains(t, err, "lua update")
	assert.ErrorContains(t, err, "boom")
}

func TestBadScriptFailsEngine(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`this is not lua`), 0o644))
	_, err := NewEngine(dir, ecs.NewWorld(1), zap.NewNop())
	assert.ErrorContains(t, err, "load scripts")
}

func TestLogModule(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e, err := NewEngine("", ecs.NewWorld(1), zap.New(core))
	assert.NilError(t, err)
	defer e.Close()

	assert.NilError(t, e.DoString(`
		log.debug("hidden")
		log.warn("group", 7, "reset")
	`))
	entries := logs.All()
	assert.Equal(t, len(entries), 1)
	assert.Equal(t, entries[0].Message, "group 7 reset")
	assert.Equal(t, entries[0].Level, zapcore.WarnLevel)
	assert.Equal(t, entries[0].ContextMap()["source"], "lua")
}

func TestSetNumberBeforeLoad(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "tempo.lua"), []byte(`beat = 60 / BPM`), 0o644))
	e, _ := newEngine(t, "")
	e.SetNumber("BPM", 120)
	assert.NilError(t, e.LoadDir(dir))
	assert.Equal(t, e.Global("beat"), 0.5)
}

func TestNearby(t *testing.T) {
	e, world := newEngine(t, "")
	err := e.DoString(`ecs.nearby(0, 0, 1)`)
	assert.ErrorContains(t, err, "no spatial index")

	a, err := world.CreateEntity()
	assert.NilError(t, err)
	var asked [3]float32
	e.SetNearby(func(x, z, radius float32) []ecs.EntityID {
		asked = [3]float32{x, z, radius}
		return []ecs.EntityID{a}
	})
	assert.NilError(t, e.DoString(`
		local found = ecs.nearby(1, 2, 3)
		n = #found
		first_alive = ecs.alive(found[1])
	`))
	assert.Equal(t, asked, [3]float32{1, 2, 3})
	assert.Equal(t, e.Global("n"), 1.0)
	assert.Equal(t, e.Global("first_alive"), true)
}
