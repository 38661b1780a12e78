package ecs

import (
	"fmt"
	"math"
	"reflect"
)

// DefaultMaxEntities is the slot table capacity used when NewRegistry is
// given a non-positive size.
const DefaultMaxEntities = 256

// MaxEntities is the largest capacity a Registry accepts; slot indexes are
// 32-bit.
const MaxEntities = math.MaxInt32

// slot is one row of the entity table. While the slot is free, id carries
// the generation the next occupant will be issued.
type slot struct {
	id   EntityID
	mask ComponentMask
	live bool
}

// Registry owns the slot table, the free list and one ComponentPool per
// component kind. It is not safe for concurrent use; the game loop owns it.
type Registry struct {
	slots    []slot
	free     []int32
	pools    []*ComponentPool // indexed by ComponentKind; nil until first attach
	kinds    kindTable
	capacity int
	live     int
}

// NewRegistry creates a registry holding at most maxEntities live entities.
// Non-positive sizes select DefaultMaxEntities and sizes above MaxEntities
// are clamped.
func NewRegistry(maxEntities int) *Registry {
	if maxEntities <= 0 {
		maxEntities = DefaultMaxEntities
	}
	if maxEntities > MaxEntities {
		maxEntities = MaxEntities
	}
	return &Registry{
		slots:    make([]slot, 0, min(maxEntities, 1024)),
		free:     make([]int32, 0, 64),
		pools:    make([]*ComponentPool, 0, 16),
		kinds:    newKindTable(),
		capacity: maxEntities,
	}
}

func (r *Registry) Capacity() int { return r.capacity }

// Len returns the number of live entities.
func (r *Registry) Len() int { return r.live }

// CreateEntity issues a handle for a free slot. Recycled slots keep the
// generation that was bumped when their previous occupant was destroyed.
func (r *Registry) CreateEntity() (EntityID, error) {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		s := &r.slots[idx]
		s.id = NewEntityID(idx, s.id.Generation())
		s.mask = 0
		s.live = true
		r.live++
		return s.id, nil
	}
	if len(r.slots) >= r.capacity {
		return InvalidID, fmt.Errorf("%w: %d live entities", ErrEntitiesExhausted, r.capacity)
	}
	id := NewEntityID(int32(len(r.slots)), 0)
	r.slots = append(r.slots, slot{id: id, live: true})
	r.live++
	return id, nil
}

// DestroyEntity releases a live entity. Its components are zeroed, its mask
// cleared and the slot generation bumped so every outstanding handle to it
// goes stale.
func (r *Registry) DestroyEntity(id EntityID) error {
	s, err := r.slotFor(id)
	if err != nil {
		return err
	}
	idx := int(id.Index())
	s.mask.Each(func(k ComponentKind) {
		r.pools[k].Reset(idx)
	})
	s.mask = 0
	s.live = false
	s.id = NewEntityID(id.Index(), id.Generation()+1)
	r.free = append(r.free, id.Index())
	r.live--
	return nil
}

// Alive reports whether id currently resolves to a live entity.
func (r *Registry) Alive(id EntityID) bool {
	_, err := r.slotFor(id)
	return err == nil
}

// Validate returns ErrInvalidEntity or ErrStaleEntity when id does not
// resolve, nil otherwise.
func (r *Registry) Validate(id EntityID) error {
	_, err := r.slotFor(id)
	return err
}

// Mask returns the component mask of a live entity.
func (r *Registry) Mask(id EntityID) (ComponentMask, bool) {
	s, err := r.slotFor(id)
	if err != nil {
		return 0, false
	}
	return s.mask, true
}

// slotFor is the generation check every accessor runs first.
func (r *Registry) slotFor(id EntityID) (*slot, error) {
	idx := id.Index()
	if idx < 0 || int(idx) >= len(r.slots) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntity, id)
	}
	s := &r.slots[idx]
	if !s.live || s.id != id {
		return nil, fmt.Errorf("%w: %s", ErrStaleEntity, id)
	}
	return s, nil
}

// Each visits every live entity in slot order.
func (r *Registry) Each(fn func(EntityID, ComponentMask)) {
	for i := range r.slots {
		if s := &r.slots[i]; s.live {
			fn(s.id, s.mask)
		}
	}
}

// EachWith visits live entities whose mask contains every bit of mask.
func (r *Registry) EachWith(mask ComponentMask, fn func(EntityID)) {
	for i := range r.slots {
		if s := &r.slots[i]; s.live && s.mask.Contains(mask) {
			fn(s.id)
		}
	}
}

// KindByName resolves a registered kind name, ignoring case.
func (r *Registry) KindByName(name string) (ComponentKind, bool) {
	return r.kinds.byNameLookup(name)
}

func (r *Registry) KindName(k ComponentKind) string {
	if !r.kinds.valid(k) {
		return ""
	}
	return r.kinds.names[k]
}

func (r *Registry) KindType(k ComponentKind) reflect.Type {
	if !r.kinds.valid(k) {
		return nil
	}
	return r.kinds.types[k]
}

func (r *Registry) KindCount() int { return len(r.kinds.types) }

// pool returns the pool for k, materializing it on first use.
func (r *Registry) pool(k ComponentKind) *ComponentPool {
	if int(k) >= len(r.pools) {
		grown := make([]*ComponentPool, int(k)+1)
		copy(grown, r.pools)
		r.pools = grown
	}
	p := r.pools[k]
	if p == nil {
		p = &ComponentPool{}
		p.Initialize(r.kinds.types[k], r.capacity)
		r.pools[k] = p
	}
	return p
}

// existingPool returns the pool for k or nil when no entity has attached it
// yet. A set mask bit guarantees the pool exists.
func (r *Registry) existingPool(k ComponentKind) *ComponentPool {
	if int(k) >= len(r.pools) {
		return nil
	}
	return r.pools[k]
}

// attach zeroes the element for k at the entity's slot and sets its bit.
func (r *Registry) attach(s *slot, k ComponentKind) *ComponentPool {
	p := r.pool(k)
	p.Reset(int(s.id.Index()))
	s.mask = s.mask.Set(k)
	return p
}

// AddComponentByKind attaches a zero value of kind k and returns a pointer to
// it boxed as any. It is the untyped twin of AddComponent for callers that
// only know kind names (prefabs, scripts).
func (r *Registry) AddComponentByKind(id EntityID, k ComponentKind) (any, error) {
	s, err := r.slotFor(id)
	if err != nil {
		return nil, err
	}
	if !r.kinds.valid(k) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	return r.attach(s, k).Value(int(id.Index())), nil
}

// ComponentByKind returns a pointer to an attached component boxed as any.
func (r *Registry) ComponentByKind(id EntityID, k ComponentKind) (any, bool) {
	s, err := r.slotFor(id)
	if err != nil || !s.mask.Has(k) {
		return nil, false
	}
	return r.pools[k].Value(int(id.Index())), true
}

// RemoveComponentByKind detaches kind k. It reports whether the component was
// attached.
func (r *Registry) RemoveComponentByKind(id EntityID, k ComponentKind) (bool, error) {
	s, err := r.slotFor(id)
	if err != nil {
		return false, err
	}
	if !s.mask.Has(k) {
		return false, nil
	}
	r.pools[k].Reset(int(id.Index()))
	s.mask = s.mask.Clear(k)
	return true, nil
}
