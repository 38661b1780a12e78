package ecs

import "math/bits"

// MaxComponents is the number of distinct component kinds one Registry can
// hold. It is the bit width of ComponentMask.
const MaxComponents = 64

// ComponentMask records which component kinds are attached to a slot.
type ComponentMask uint64

// MaskOf builds a mask with the given kinds set.
func MaskOf(kinds ...ComponentKind) ComponentMask {
	var m ComponentMask
	for _, k := range kinds {
		m = m.Set(k)
	}
	return m
}

func (m ComponentMask) Set(k ComponentKind) ComponentMask   { return m | 1<<k }
func (m ComponentMask) Clear(k ComponentKind) ComponentMask { return m &^ (1 << k) }
func (m ComponentMask) Has(k ComponentKind) bool            { return m&(1<<k) != 0 }

// Contains reports whether every bit of sub is also set in m.
func (m ComponentMask) Contains(sub ComponentMask) bool { return m&sub == sub }

func (m ComponentMask) Count() int { return bits.OnesCount64(uint64(m)) }

// Each calls fn for every set kind in ascending order.
func (m ComponentMask) Each(fn func(ComponentKind)) {
	for v := uint64(m); v != 0; v &= v - 1 {
		fn(ComponentKind(bits.TrailingZeros64(v)))
	}
}
