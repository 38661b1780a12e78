package data

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/slotecs/slotecs/internal/core/ecs"
)

var ErrUnknownPrefab = errors.New("data: unknown prefab")

// Prefab is an entity template: a name plus component kind names mapped to
// field values. Components are attached in file order.
type Prefab struct {
	Name       string    `yaml:"name"`
	Components yaml.Node `yaml:"components"`
}

type prefabFile struct {
	Prefabs []Prefab `yaml:"prefabs"`
}

// PrefabTable holds prefabs indexed by name.
type PrefabTable struct {
	prefabs map[string]*Prefab
}

// LoadPrefabTable loads prefab templates from a YAML file.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefabs: %w", err)
	}
	return ParsePrefabTable(data)
}

func ParsePrefabTable(data []byte) (*PrefabTable, error) {
	var f prefabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse prefabs: %w", err)
	}
	t := &PrefabTable{prefabs: make(map[string]*Prefab, len(f.Prefabs))}
	for i := range f.Prefabs {
		p := &f.Prefabs[i]
		if p.Name == "" {
			return nil, fmt.Errorf("parse prefabs: entry %d has no name", i)
		}
		if _, dup := t.prefabs[p.Name]; dup {
			return nil, fmt.Errorf("parse prefabs: duplicate prefab %q", p.Name)
		}
		if p.Components.Kind != 0 && p.Components.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse prefabs: %s: components must be a mapping (line %d)", p.Name, p.Components.Line)
		}
		t.prefabs[p.Name] = p
	}
	return t, nil
}

func (t *PrefabTable) Get(name string) *Prefab {
	return t.prefabs[name]
}

func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

// Names returns all prefab names in sorted order.
func (t *PrefabTable) Names() []string {
	names := make([]string, 0, len(t.prefabs))
	for name := range t.prefabs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spawn creates an entity from the named prefab. Kinds are resolved by
// name, so they must be registered on reg beforehand. A failed spawn leaves
// no entity behind.
func (t *PrefabTable) Spawn(reg *ecs.Registry, name string) (ecs.EntityID, error) {
	p := t.prefabs[name]
	if p == nil {
		return ecs.InvalidID, fmt.Errorf("%w: %q", ErrUnknownPrefab, name)
	}
	id, err := reg.CreateEntity()
	if err != nil {
		return ecs.InvalidID, fmt.Errorf("spawn %s: %w", name, err)
	}
	if err := p.apply(reg, id); err != nil {
		_ = reg.DestroyEntity(id)
		return ecs.InvalidID, fmt.Errorf("spawn %s: %w", name, err)
	}
	return id, nil
}

func (p *Prefab) apply(reg *ecs.Registry, id ecs.EntityID) error {
	content := p.Components.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, value := content[i], content[i+1]
		kind, ok := reg.KindByName(key.Value)
		if !ok {
			return fmt.Errorf("%w: %q (line %d)", ecs.ErrUnknownKind, key.Value, key.Line)
		}
		ptr, err := reg.AddComponentByKind(id, kind)
		if err != nil {
			return err
		}
		if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
			continue
		}
		if err := value.Decode(ptr); err != nil {
			return fmt.Errorf("decode %s: %w", key.Value, err)
		}
	}
	return nil
}
