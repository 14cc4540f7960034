// Package systems provides the flocking algorithms: the spatial index,
// neighbor cache construction, steering rules and heading integration.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// SpatialGrid indexes agents over the square domain [-size, size]² using
// unit cells. There are (2*size+1)² cells; positions outside the domain
// resolve to the nearest edge cell.
type SpatialGrid struct {
	size  int
	dim   int
	cells [][]ecs.Entity // flat grid, index = row*dim + col
	count int
}

// NewSpatialGrid creates an empty grid covering [-size, size]².
func NewSpatialGrid(size int) *SpatialGrid {
	if size < 0 {
		size = 0
	}
	dim := 2*size + 1

	cells := make([][]ecs.Entity, dim*dim)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 4)
	}

	return &SpatialGrid{
		size:  size,
		dim:   dim,
		cells: cells,
	}
}

// Size returns the domain half extent.
func (g *SpatialGrid) Size() int {
	return g.size
}

// Dim returns the number of cells along one axis.
func (g *SpatialGrid) Dim() int {
	return g.dim
}

// Len returns the number of handles stored in the grid.
func (g *SpatialGrid) Len() int {
	return g.count
}

// CellOf returns the (col, row) of the cell containing (x, y).
func (g *SpatialGrid) CellOf(x, y float32) (col, row int) {
	return g.axisKey(x), g.axisKey(y)
}

// Cell returns the handles stored in the given cell, or nil when out of range.
// The slice aliases grid storage; callers must not retain or modify it.
func (g *SpatialGrid) Cell(col, row int) []ecs.Entity {
	if col < 0 || col >= g.dim || row < 0 || row >= g.dim {
		return nil
	}
	return g.cells[row*g.dim+col]
}

// Insert adds a handle to the cell containing (x, y).
// The caller guarantees the handle is not already stored anywhere in the grid.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], e)
	g.count++
}

// Move relocates a handle from the cell of the old position to the cell of the
// new one. Returns false without touching the grid when both positions map to
// the same cell.
func (g *SpatialGrid) Move(e ecs.Entity, oldX, oldY, newX, newY float32) bool {
	from := g.cellIndex(oldX, oldY)
	to := g.cellIndex(newX, newY)
	if from == to {
		return false
	}

	if g.remove(from, e) {
		g.count--
	}
	g.cells[to] = append(g.cells[to], e)
	g.count++
	return true
}

// Remove deletes a handle from the cell containing (x, y).
// Returns false if the handle was not stored there.
func (g *SpatialGrid) Remove(e ecs.Entity, x, y float32) bool {
	if g.remove(g.cellIndex(x, y), e) {
		g.count--
		return true
	}
	return false
}

// QueryInto appends every handle stored in a cell intersecting the square
// [x-radius, x+radius] × [y-radius, y+radius] to dst and returns it.
// The result is a superset of the agents within the disk of that radius;
// exact distance filtering is the caller's job. Reuse dst across calls to
// avoid allocations.
func (g *SpatialGrid) QueryInto(dst []ecs.Entity, x, y, radius float32) []ecs.Entity {
	if radius < 0 {
		radius = -radius
	}
	fromCol, fromRow := g.CellOf(x-radius, y-radius)
	toCol, toRow := g.CellOf(x+radius, y+radius)

	for row := fromRow; row <= toRow; row++ {
		base := row * g.dim
		for col := fromCol; col <= toCol; col++ {
			dst = append(dst, g.cells[base+col]...)
		}
	}
	return dst
}

// Query returns every handle in the cells intersecting the query square.
func (g *SpatialGrid) Query(x, y, radius float32) []ecs.Entity {
	return g.QueryInto(nil, x, y, radius)
}

// OccupiedCells returns how many cells hold at least one handle.
func (g *SpatialGrid) OccupiedCells() int {
	n := 0
	for i := range g.cells {
		if len(g.cells[i]) > 0 {
			n++
		}
	}
	return n
}

// Clear removes all handles from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// remove swap-deletes e from the cell at idx.
func (g *SpatialGrid) remove(idx int, e ecs.Entity) bool {
	cell := g.cells[idx]
	for i := range cell {
		if cell[i] == e {
			last := len(cell) - 1
			cell[i] = cell[last]
			cell[last] = ecs.Entity{}
			g.cells[idx] = cell[:last]
			return true
		}
	}
	return false
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	return g.axisKey(y)*g.dim + g.axisKey(x)
}

// axisKey maps one coordinate to clamp(floor(v)+size, 0, 2*size).
// The clamp happens before the integer conversion so huge and NaN inputs
// still land on an edge cell.
func (g *SpatialGrid) axisKey(v float32) int {
	k := math.Floor(float64(v)) + float64(g.size)
	if !(k >= 0) {
		return 0
	}
	if k > float64(g.dim-1) {
		return g.dim - 1
	}
	return int(k)
}
