package ecs

import (
	"fmt"
	"reflect"

	"golang.org/x/text/cases"
)

// ComponentKind identifies a component type within one Registry. Kinds are
// handed out from 0 in first-seen order and never change afterwards.
type ComponentKind uint8

// kindTable is the per-registry type -> kind mapping. Two registries in the
// same process number their kinds independently.
type kindTable struct {
	byType map[reflect.Type]ComponentKind
	byName map[string]ComponentKind // keyed by case-folded name
	types  []reflect.Type
	names  []string
}

func newKindTable() kindTable {
	return kindTable{
		byType: make(map[reflect.Type]ComponentKind, 16),
		byName: make(map[string]ComponentKind, 16),
	}
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

func (t *kindTable) lookup(typ reflect.Type) (ComponentKind, bool) {
	k, ok := t.byType[typ]
	return k, ok
}

// resolve returns the kind for typ, assigning one named after the Go type if
// it has not been seen yet.
func (t *kindTable) resolve(typ reflect.Type) (ComponentKind, error) {
	if k, ok := t.byType[typ]; ok {
		return k, nil
	}
	name := typ.Name()
	if name == "" {
		name = typ.String()
	}
	if _, taken := t.byName[foldName(name)]; taken {
		// Same short name from another package; the qualified form is unique.
		name = typ.String()
	}
	return t.register(typ, name)
}

func (t *kindTable) register(typ reflect.Type, name string) (ComponentKind, error) {
	folded := foldName(name)
	if k, ok := t.byType[typ]; ok {
		if foldName(t.names[k]) == folded {
			return k, nil
		}
		return 0, fmt.Errorf("%w: %s already registered as %q", ErrDuplicateKind, typ, t.names[k])
	}
	if k, ok := t.byName[folded]; ok {
		return 0, fmt.Errorf("%w: name %q taken by %s", ErrDuplicateKind, name, t.types[k])
	}
	if len(t.types) >= MaxComponents {
		return 0, fmt.Errorf("%w: cannot register %s (max %d)", ErrKindsExhausted, typ, MaxComponents)
	}
	k := ComponentKind(len(t.types))
	t.byType[typ] = k
	t.byName[folded] = k
	t.types = append(t.types, typ)
	t.names = append(t.names, name)
	return k, nil
}

func (t *kindTable) byNameLookup(name string) (ComponentKind, bool) {
	k, ok := t.byName[foldName(name)]
	return k, ok
}

func (t *kindTable) valid(k ComponentKind) bool {
	return int(k) < len(t.types)
}
