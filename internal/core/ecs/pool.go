package ecs

import (
	"fmt"
	"reflect"
	"unsafe"
)

// ComponentPool is a fixed-capacity column holding one component kind for
// every slot index. The backing array is allocated once by Initialize and
// never moves, so a pointer returned by ElementAt stays valid until the
// registry itself is dropped.
type ComponentPool struct {
	typ      reflect.Type
	elemSize uintptr
	capacity int
	data     reflect.Value // []T of len == capacity; keeps the array reachable
	base     unsafe.Pointer
}

// Initialize allocates zeroed storage for capacity elements of typ.
// Calling it twice is a bookkeeping bug and panics.
func (p *ComponentPool) Initialize(typ reflect.Type, capacity int) {
	if p.Initialized() {
		panic(fmt.Sprintf("ecs: component pool for %s initialized twice", p.typ))
	}
	if capacity <= 0 {
		panic(fmt.Sprintf("ecs: invalid component pool capacity %d", capacity))
	}
	p.typ = typ
	p.elemSize = typ.Size()
	p.capacity = capacity
	p.data = reflect.MakeSlice(reflect.SliceOf(typ), capacity, capacity)
	p.base = p.data.UnsafePointer()
}

func (p *ComponentPool) Initialized() bool    { return p.data.IsValid() }
func (p *ComponentPool) Type() reflect.Type   { return p.typ }
func (p *ComponentPool) ElementSize() uintptr { return p.elemSize }
func (p *ComponentPool) Capacity() int        { return p.capacity }

// ElementAt returns the address of the element for a slot index. The pool
// does no type checking; callers cast to the pool's element type.
func (p *ComponentPool) ElementAt(index int) unsafe.Pointer {
	p.checkIndex(index)
	return unsafe.Add(p.base, uintptr(index)*p.elemSize)
}

// Value returns a pointer to the element boxed as any, e.g. *Transform.
func (p *ComponentPool) Value(index int) any {
	p.checkIndex(index)
	return p.data.Index(index).Addr().Interface()
}

// Reset stores the zero value of the element type at index.
func (p *ComponentPool) Reset(index int) {
	p.checkIndex(index)
	p.data.Index(index).SetZero()
}

func (p *ComponentPool) checkIndex(index int) {
	if !p.Initialized() {
		panic("ecs: component pool used before Initialize")
	}
	if index < 0 || index >= p.capacity {
		panic(fmt.Sprintf("ecs: component pool index %d out of range [0,%d)", index, p.capacity))
	}
}
