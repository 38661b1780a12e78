package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/slotecs/slotecs/internal/core/ecs"
)

// SpawnFunc creates an entity from a named template. The engine exposes it
// to scripts as ecs.spawn.
type SpawnFunc func(prefab string) (ecs.EntityID, error)

// NearbyFunc lists entities within radius of (x, z). Exposed as ecs.nearby.
type NearbyFunc func(x, z, radius float32) []ecs.EntityID

// Engine wraps a single gopher-lua VM bound to one World.
// Single-goroutine access only (game loop).
type Engine struct {
	vm     *lua.LState
	log    *zap.Logger
	world  *ecs.World
	spawn  SpawnFunc
	nearby NearbyFunc
}

// NewEngine creates a Lua engine, installs the ecs and log modules, and loads
// every script in scriptsDir. An empty or missing directory loads nothing.
func NewEngine(scriptsDir string, world *ecs.World, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, world: world}
	e.registerEntityType()
	e.registerModules()

	if scriptsDir != "" {
		if err := e.LoadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// SetSpawner enables ecs.spawn. Without one, ecs.spawn raises an error.
func (e *Engine) SetSpawner(fn SpawnFunc) {
	e.spawn = fn
}

// SetNearby enables ecs.nearby.
func (e *Engine) SetNearby(fn NearbyFunc) {
	e.nearby = fn
}

// LoadDir loads all .lua files in a directory, in name order. A missing
// directory loads nothing.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile runs a script file. Reloading a file redefines its globals.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Update calls the global update(dt) with dt in seconds.
func (e *Engine) Update(dt time.Duration) error {
	return e.callHook("update", lua.LNumber(dt.Seconds()))
}

// OnSpawn calls the global on_spawn(entity, prefab).
func (e *Engine) OnSpawn(id ecs.EntityID, prefab string) error {
	return e.callHook("on_spawn", e.newEntity(id), lua.LString(prefab))
}

// OnDestroy calls the global on_destroy(entity). The entity is already dead.
func (e *Engine) OnDestroy(id ecs.EntityID) error {
	return e.callHook("on_destroy", e.newEntity(id))
}

// SetNumber sets a numeric global, e.g. tuning values from config.
func (e *Engine) SetNumber(name string, v float64) {
	e.vm.SetGlobal(name, lua.LNumber(v))
}

// HasFunction reports whether a global function is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// callHook calls a global function if scripts define it. A missing hook is
// not an error.
func (e *Engine) callHook(name string, args ...lua.LValue) error {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		return fmt.Errorf("lua %s: %w", name, err)
	}
	return nil
}

// Global returns a global as a Go value: numbers become float64, strings,
// bools and nil map directly, anything else is returned as its string form.
func (e *Engine) Global(name string) any {
	switch v := e.vm.GetGlobal(name).(type) {
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case lua.LBool:
		return bool(v)
	case *lua.LNilType:
		return nil
	default:
		return v.String()
	}
}

func (e *Engine) Close() {
	e.vm.Close()
}
