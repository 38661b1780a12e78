package scripting

import (
	"reflect"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/slotecs/slotecs/internal/core/ecs"
)

const entityTypeName = "entity"

func (e *Engine) registerEntityType() {
	mt := e.vm.NewTypeMetatable(entityTypeName)
	e.vm.SetField(mt, "__tostring", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkEntity(L, 1).String()))
		return 1
	}))
	e.vm.SetField(mt, "__eq", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkEntity(L, 1) == checkEntity(L, 2)))
		return 1
	}))
	e.vm.SetField(mt, "__index", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"index":      func(L *lua.LState) int { L.Push(lua.LNumber(checkEntity(L, 1).Index())); return 1 },
		"generation": func(L *lua.LState) int { L.Push(lua.LNumber(checkEntity(L, 1).Generation())); return 1 },
	}))
}

func (e *Engine) newEntity(id ecs.EntityID) *lua.LUserData {
	ud := e.vm.NewUserData()
	ud.Value = id
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(entityTypeName))
	return ud
}

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	ud := L.CheckUserData(n)
	if id, ok := ud.Value.(ecs.EntityID); ok {
		return id
	}
	L.ArgError(n, "entity expected")
	return ecs.InvalidID
}

func (e *Engine) registerModules() {
	e.vm.SetGlobal("ecs", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"create":  e.luaCreate,
		"spawn":   e.luaSpawn,
		"destroy": e.luaDestroy,
		"alive":   e.luaAlive,
		"count":   e.luaCount,
		"add":     e.luaAdd,
		"get":     e.luaGet,
		"set":     e.luaSet,
		"has":     e.luaHas,
		"remove":  e.luaRemove,
		"each":    e.luaEach,
		"nearby":  e.luaNearby,
	}))
	e.vm.SetGlobal("log", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"debug": e.luaLog(zap.DebugLevel),
		"info":  e.luaLog(zap.InfoLevel),
		"warn":  e.luaLog(zap.WarnLevel),
		"error": e.luaLog(zap.ErrorLevel),
	}))
}

func (e *Engine) registry() *ecs.Registry { return e.world.Registry() }

// checkKind resolves a kind name argument, raising a Lua error if unknown.
func (e *Engine) checkKind(L *lua.LState, n int) ecs.ComponentKind {
	name := L.CheckString(n)
	k, ok := e.registry().KindByName(name)
	if !ok {
		L.ArgError(n, "unknown component kind "+name)
	}
	return k
}

// ecs.create() -> entity
func (e *Engine) luaCreate(L *lua.LState) int {
	id, err := e.world.CreateEntity()
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(e.newEntity(id))
	return 1
}

// ecs.spawn(prefab) -> entity
func (e *Engine) luaSpawn(L *lua.LState) int {
	name := L.CheckString(1)
	if e.spawn == nil {
		L.RaiseError("ecs.spawn: no prefab table loaded")
	}
	id, err := e.spawn(name)
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(e.newEntity(id))
	return 1
}

// ecs.destroy(e) -> bool. Destruction is deferred to the end of the tick;
// the result reports whether the entity was alive to be queued.
func (e *Engine) luaDestroy(L *lua.LState) int {
	id := checkEntity(L, 1)
	alive := e.world.Alive(id)
	if alive {
		e.world.MarkForDestruction(id)
	}
	L.Push(lua.LBool(alive))
	return 1
}

// ecs.alive(e) -> bool
func (e *Engine) luaAlive(L *lua.LState) int {
	L.Push(lua.LBool(e.world.Alive(checkEntity(L, 1))))
	return 1
}

// ecs.count() -> number of live entities
func (e *Engine) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.registry().Len()))
	return 1
}

// ecs.add(e, kind [, fields]) attaches a zeroed component, then applies
// fields if given. Re-adding resets the component. Fields are decoded before
// anything is attached, so a bad field leaves the entity untouched.
func (e *Engine) luaAdd(L *lua.LState) int {
	id := checkEntity(L, 1)
	k := e.checkKind(L, 2)
	fields := L.OptTable(3, nil)
	reg := e.registry()
	if err := reg.Validate(id); err != nil {
		L.RaiseError("%s", err.Error())
	}
	value := reflect.New(reg.KindType(k)).Elem()
	if fields != nil {
		if err := fromTable(fields, value); err != nil {
			L.RaiseError("ecs.add: %s", err.Error())
		}
	}
	ptr, err := reg.AddComponentByKind(id, k)
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	reflect.ValueOf(ptr).Elem().Set(value)
	return 0
}

// ecs.get(e, kind) -> table or nil. The table is a copy.
func (e *Engine) luaGet(L *lua.LState) int {
	id := checkEntity(L, 1)
	k := e.checkKind(L, 2)
	ptr, ok := e.registry().ComponentByKind(id, k)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(toTable(L, reflect.ValueOf(ptr).Elem()))
	return 1
}

// ecs.set(e, kind, fields) -> bool. Updates only the named fields of an
// attached component; returns false if the component is absent. Either every
// field is written or none is.
func (e *Engine) luaSet(L *lua.LState) int {
	id := checkEntity(L, 1)
	k := e.checkKind(L, 2)
	fields := L.CheckTable(3)
	ptr, ok := e.registry().ComponentByKind(id, k)
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	current := reflect.ValueOf(ptr).Elem()
	updated := reflect.New(current.Type()).Elem()
	updated.Set(current)
	if err := fromTable(fields, updated); err != nil {
		L.RaiseError("ecs.set: %s", err.Error())
	}
	current.Set(updated)
	L.Push(lua.LTrue)
	return 1
}

// ecs.has(e, kind) -> bool
func (e *Engine) luaHas(L *lua.LState) int {
	id := checkEntity(L, 1)
	k := e.checkKind(L, 2)
	_, ok := e.registry().ComponentByKind(id, k)
	L.Push(lua.LBool(ok))
	return 1
}

// ecs.remove(e, kind) -> bool
func (e *Engine) luaRemove(L *lua.LState) int {
	id := checkEntity(L, 1)
	k := e.checkKind(L, 2)
	removed, err := e.registry().RemoveComponentByKind(id, k)
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	L.Push(lua.LBool(removed))
	return 1
}

// ecs.each(kind, fn) calls fn(e, fields) for every live entity carrying
// kind, in slot order. Changes to fields are not written back; use ecs.set.
func (e *Engine) luaEach(L *lua.LState) int {
	k := e.checkKind(L, 1)
	fn := L.CheckFunction(2)

	reg := e.registry()
	var ids []ecs.EntityID
	reg.EachWith(ecs.MaskOf(k), func(id ecs.EntityID) {
		ids = append(ids, id)
	})
	for _, id := range ids {
		ptr, ok := reg.ComponentByKind(id, k)
		if !ok {
			continue // removed by an earlier callback
		}
		L.Push(fn)
		L.Push(e.newEntity(id))
		L.Push(toTable(L, reflect.ValueOf(ptr).Elem()))
		L.Call(2, 0)
	}
	return 0
}

// ecs.nearby(x, z, radius) -> array of entities in slot order.
func (e *Engine) luaNearby(L *lua.LState) int {
	x := float32(L.CheckNumber(1))
	z := float32(L.CheckNumber(2))
	radius := float32(L.CheckNumber(3))
	if e.nearby == nil {
		L.RaiseError("ecs.nearby: no spatial index")
	}
	t := L.NewTable()
	for _, id := range e.nearby(x, z, radius) {
		t.Append(e.newEntity(id))
	}
	L.Push(t)
	return 1
}

// log.info(msg, ...) and friends. Extra arguments are joined with spaces.
func (e *Engine) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if ce := e.log.Check(level, strings.Join(parts, " ")); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}
