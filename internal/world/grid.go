package world

import (
	"math"

	"github.com/slotecs/slotecs/internal/core/ecs"
)

// Grid is a cell-based spatial index over the XZ plane. Queries return the
// entities in the 3x3 cell neighbourhood around a point; callers do the
// fine-grained distance filtering. Accessed only from the game loop
// goroutine, no locks.
type Grid struct {
	cellSize float32
	cells    map[cellKey]map[ecs.EntityID]struct{}
	where    map[ecs.EntityID]cellKey
}

type cellKey struct {
	cx int32
	cz int32
}

func NewGrid(cellSize float32) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
		where:    make(map[ecs.EntityID]cellKey),
	}
}

func (g *Grid) CellSize() float32 { return g.cellSize }

// Len returns the number of indexed entities.
func (g *Grid) Len() int { return len(g.where) }

func (g *Grid) key(x, z float32) cellKey {
	return cellKey{
		cx: int32(math.Floor(float64(x / g.cellSize))),
		cz: int32(math.Floor(float64(z / g.cellSize))),
	}
}

// Place inserts id at (x, z), moving it if it is already indexed.
func (g *Grid) Place(id ecs.EntityID, x, z float32) {
	k := g.key(x, z)
	if old, ok := g.where[id]; ok {
		if old == k {
			return
		}
		g.removeFrom(id, old)
	}
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
	g.where[id] = k
}

// Remove takes id out of the grid. It reports whether id was indexed.
func (g *Grid) Remove(id ecs.EntityID) bool {
	k, ok := g.where[id]
	if !ok {
		return false
	}
	g.removeFrom(id, k)
	delete(g.where, id)
	return true
}

func (g *Grid) removeFrom(id ecs.EntityID, k cellKey) {
	if cell := g.cells[k]; cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Each visits every indexed entity in no particular order.
func (g *Grid) Each(fn func(ecs.EntityID)) {
	for id := range g.where {
		fn(id)
	}
}

// Candidates returns every entity in the 3x3 neighbourhood of cells around
// (x, z), appended to dst.
func (g *Grid) Candidates(dst []ecs.EntityID, x, z float32) []ecs.EntityID {
	c := g.key(x, z)
	for dx := int32(-1); dx <= 1; dx++ {
		for dz := int32(-1); dz <= 1; dz++ {
			for id := range g.cells[cellKey{cx: c.cx + dx, cz: c.cz + dz}] {
				dst = append(dst, id)
			}
		}
	}
	return dst
}
