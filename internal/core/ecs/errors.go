package ecs

import "errors"

var (
	ErrEntitiesExhausted = errors.New("ecs: entity capacity exhausted")
	ErrKindsExhausted    = errors.New("ecs: component kind capacity exhausted")
	ErrInvalidEntity     = errors.New("ecs: invalid entity")
	ErrStaleEntity       = errors.New("ecs: stale entity")
	ErrDuplicateKind     = errors.New("ecs: duplicate component kind")
	ErrUnknownKind       = errors.New("ecs: unknown component kind")
)
