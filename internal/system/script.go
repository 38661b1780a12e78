package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/slotecs/slotecs/internal/core/event"
	coresys "github.com/slotecs/slotecs/internal/core/system"
	"github.com/slotecs/slotecs/internal/scripting"
)

// ScriptSystem drives the Lua update hook each tick and forwards spawn and
// destroy events to on_spawn / on_destroy. Script errors are logged, never
// fatal.
type ScriptSystem struct {
	engine *scripting.Engine
	log    *zap.Logger
	errors int
}

func NewScriptSystem(engine *scripting.Engine, bus *event.Bus, log *zap.Logger) *ScriptSystem {
	s := &ScriptSystem{engine: engine, log: log}
	event.Subscribe(bus, func(ev event.EntitySpawned) {
		s.report("on_spawn", engine.OnSpawn(ev.EntityID, ev.Prefab))
	})
	event.Subscribe(bus, func(ev event.EntityDestroyed) {
		s.report("on_destroy", engine.OnDestroy(ev.EntityID))
	})
	return s
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseScript }

func (s *ScriptSystem) Update(dt time.Duration) {
	s.report("update", s.engine.Update(dt))
}

// Errors returns how many hook calls have failed so far.
func (s *ScriptSystem) Errors() int { return s.errors }

func (s *ScriptSystem) report(hook string, err error) {
	if err == nil {
		return
	}
	s.errors++
	s.log.Warn("lua hook failed", zap.String("hook", hook), zap.Error(err))
}
