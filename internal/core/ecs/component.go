package ecs

import "reflect"

// RegisterComponent assigns T a kind under an explicit name. Registering the
// same type under the same name again returns the existing kind.
func RegisterComponent[T any](r *Registry, name string) (ComponentKind, error) {
	return r.kinds.register(reflect.TypeFor[T](), name)
}

// KindOf returns the kind assigned to T, if any.
func KindOf[T any](r *Registry) (ComponentKind, bool) {
	return r.kinds.lookup(reflect.TypeFor[T]())
}

// AddComponent attaches a zero-valued T to the entity and returns a pointer
// into the pool. Attaching a kind the entity already has resets it.
func AddComponent[T any](r *Registry, id EntityID) (*T, error) {
	s, err := r.slotFor(id)
	if err != nil {
		return nil, err
	}
	k, err := r.kinds.resolve(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	p := r.attach(s, k)
	return (*T)(p.ElementAt(int(id.Index()))), nil
}

// SetComponent attaches T if missing and stores value into it.
func SetComponent[T any](r *Registry, id EntityID, value T) (*T, error) {
	if c, ok := GetComponent[T](r, id); ok {
		*c = value
		return c, nil
	}
	c, err := AddComponent[T](r, id)
	if err != nil {
		return nil, err
	}
	*c = value
	return c, nil
}

// GetComponent returns the entity's T. A stale handle, an unknown kind and a
// missing component all report absent.
func GetComponent[T any](r *Registry, id EntityID) (*T, bool) {
	s, err := r.slotFor(id)
	if err != nil {
		return nil, false
	}
	k, ok := r.kinds.lookup(reflect.TypeFor[T]())
	if !ok || !s.mask.Has(k) {
		return nil, false
	}
	return (*T)(r.pools[k].ElementAt(int(id.Index()))), true
}

func HasComponent[T any](r *Registry, id EntityID) bool {
	_, ok := GetComponent[T](r, id)
	return ok
}

// RemoveComponent detaches T and zeroes its storage. It reports whether the
// component was attached.
func RemoveComponent[T any](r *Registry, id EntityID) (bool, error) {
	if err := r.Validate(id); err != nil {
		return false, err
	}
	k, ok := r.kinds.lookup(reflect.TypeFor[T]())
	if !ok {
		return false, nil
	}
	return r.RemoveComponentByKind(id, k)
}
