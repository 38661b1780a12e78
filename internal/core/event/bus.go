package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during tick N are
// delivered in tick N+1, after SwapBuffers, in the order they were emitted.
type Bus struct {
	mu       sync.Mutex // guards handlers only
	front    []queued
	back     []queued
	handlers map[reflect.Type][]reflect.Value
}

type queued struct {
	typ   reflect.Type
	event reflect.Value
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]queued, 0, 64),
		back:     make([]queued, 0, 64),
		handlers: make(map[reflect.Type][]reflect.Value),
	}
}

// Emit queues an event into the back buffer.
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, queued{typ: reflect.TypeFor[T](), event: reflect.ValueOf(&event).Elem()})
}

// Subscribe registers a handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeFor[T]()
	b.handlers[t] = append(b.handlers[t], reflect.ValueOf(fn))
}

// SwapBuffers makes last tick's events readable and empties the back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// Pending returns the number of events waiting for the next swap.
func (b *Bus) Pending() int { return len(b.back) }

// DispatchAll delivers the front buffer to subscribed handlers and returns
// the number of events delivered. Events with no handler are dropped.
func (b *Bus) DispatchAll() int {
	b.mu.Lock()
	handlers := b.handlers
	b.mu.Unlock()

	n := 0
	for _, q := range b.front {
		hs := handlers[q.typ]
		if len(hs) == 0 {
			continue
		}
		args := []reflect.Value{q.event}
		for _, h := range hs {
			h.Call(args)
		}
		n++
	}
	b.front = b.front[:0]
	return n
}
