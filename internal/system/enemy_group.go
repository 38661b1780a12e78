package system

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/slotecs/slotecs/internal/component"
	"github.com/slotecs/slotecs/internal/core/ecs"
	"github.com/slotecs/slotecs/internal/core/event"
	coresys "github.com/slotecs/slotecs/internal/core/system"
)

// EnemyGroupSystem keeps typing enemies that share a GroupID on a common
// cooldown. Once every active member of a group is cooling down, the whole
// group is made available again. A group whose members no longer resolve is
// forgotten.
//
// Membership is a set of handles; the registry is only read through lookups,
// so destroyed or recycled members simply stop resolving.
type EnemyGroupSystem struct {
	reg    *ecs.Registry
	bus    *event.Bus
	log    *zap.Logger
	groups map[int]map[ecs.EntityID]struct{}
	order  []int // scratch for deterministic iteration
}

func NewEnemyGroupSystem(reg *ecs.Registry, bus *event.Bus, log *zap.Logger) *EnemyGroupSystem {
	s := &EnemyGroupSystem{
		reg:    reg,
		bus:    bus,
		log:    log,
		groups: make(map[int]map[ecs.EntityID]struct{}),
	}
	event.Subscribe(bus, func(ev event.EntitySpawned) {
		s.AddEnemy(ev.EntityID)
	})
	return s
}

func (s *EnemyGroupSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// AddEnemy enrolls an entity in its group. Entities without a TypingEnemy
// component or with a negative GroupID are ignored.
func (s *EnemyGroupSystem) AddEnemy(id ecs.EntityID) bool {
	enemy, ok := ecs.GetComponent[component.TypingEnemy](s.reg, id)
	if !ok || enemy.GroupID < 0 {
		return false
	}
	members := s.groups[enemy.GroupID]
	if members == nil {
		members = make(map[ecs.EntityID]struct{})
		s.groups[enemy.GroupID] = members
	}
	members[id] = struct{}{}
	return true
}

// GroupCount returns the number of tracked groups.
func (s *EnemyGroupSystem) GroupCount() int { return len(s.groups) }

// GroupSize returns how many handles are enrolled in a group, resolvable or not.
func (s *EnemyGroupSystem) GroupSize(groupID int) int { return len(s.groups[groupID]) }

func (s *EnemyGroupSystem) Update(_ time.Duration) {
	s.order = s.order[:0]
	for groupID := range s.groups {
		s.order = append(s.order, groupID)
	}
	sort.Ints(s.order)

	for _, groupID := range s.order {
		members := s.groups[groupID]
		sawEnemy := false
		allOnCooldown := true
		for id := range members {
			enemy, ok := ecs.GetComponent[component.TypingEnemy](s.reg, id)
			if !ok {
				if !s.reg.Alive(id) {
					delete(members, id)
				}
				continue
			}
			sawEnemy = true
			if enemy.Active && enemy.CooldownStart < 0 {
				allOnCooldown = false
			}
		}

		if !sawEnemy {
			delete(s.groups, groupID)
			event.Emit(s.bus, event.GroupErased{GroupID: groupID})
			s.log.Debug("enemy group erased", zap.Int("group", groupID))
			continue
		}
		if !allOnCooldown {
			continue
		}

		reset := 0
		for id := range members {
			if enemy, ok := ecs.GetComponent[component.TypingEnemy](s.reg, id); ok {
				enemy.CooldownStart = component.NoCooldown
				reset++
			}
		}
		event.Emit(s.bus, event.GroupCooldownReset{GroupID: groupID, Enemies: reset})
		s.log.Debug("enemy group cooldown reset", zap.Int("group", groupID), zap.Int("enemies", reset))
	}
}
