package ecs

import "fmt"

// EntityID encodes a 32-bit slot index in the upper bits and a 32-bit
// generation in the lower bits. The generation is bumped each time the slot
// is recycled so handles to a destroyed entity stop resolving.
type EntityID int64

// InvalidID is the "no entity" handle. It is never live.
const InvalidID EntityID = -1 << 32

func NewEntityID(index int32, generation int32) EntityID {
	return EntityID(int64(index)<<32 | int64(uint32(generation)))
}

func (id EntityID) Index() int32      { return int32(id >> 32) }
func (id EntityID) Generation() int32 { return int32(uint32(id)) }

// IsValid reports whether the handle names a slot at all. It says nothing
// about liveness; only the owning Registry can answer that.
func (id EntityID) IsValid() bool { return id.Index() >= 0 }

func (id EntityID) String() string {
	if !id.IsValid() {
		return "entity(invalid)"
	}
	return fmt.Sprintf("entity(%d:%d)", id.Index(), id.Generation())
}
