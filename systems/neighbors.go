package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
)

// Neighbor is one cached neighbor of an agent.
// DX, DY hold self minus neighbor, so they point away from the neighbor.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float32
	DistSq float32
}

// PositionLookup resolves a handle to its position for the current tick.
// ok is false when the handle no longer refers to a live agent.
type PositionLookup func(e ecs.Entity) (components.Position, bool)

// NeighborQuery holds per-caller scratch for neighbor cache rebuilds.
// One NeighborQuery per worker; it is not safe for concurrent use.
type NeighborQuery struct {
	candidates []ecs.Entity
}

// NewNeighborQuery creates a query buffer sized for typical densities.
func NewNeighborQuery() *NeighborQuery {
	return &NeighborQuery{candidates: make([]ecs.Entity, 0, 64)}
}

// BuildNeighbors replaces dst with every agent B != self whose squared
// distance d to p0 satisfies 0 < d <= viewRadius². Candidates come from the
// grid's bounding-box query and are filtered exactly against the disk.
// Handles that fail to resolve are skipped and counted in stale.
func (q *NeighborQuery) BuildNeighbors(
	dst []Neighbor,
	self ecs.Entity,
	p0 components.Position,
	grid *SpatialGrid,
	viewRadius float32,
	resolve PositionLookup,
) (out []Neighbor, stale int) {
	dst = dst[:0]
	viewSq := viewRadius * viewRadius

	q.candidates = grid.QueryInto(q.candidates[:0], p0.X, p0.Y, viewRadius)
	for _, e := range q.candidates {
		if e == self {
			continue
		}
		p1, ok := resolve(e)
		if !ok {
			stale++
			continue
		}

		dx := p0.X - p1.X
		dy := p0.Y - p1.Y
		d := dx*dx + dy*dy
		if d == 0 || d > viewSq {
			continue
		}

		dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: d})
	}
	return dst, stale
}

// BuildNeighbors is a convenience wrapper that allocates its own scratch.
func BuildNeighbors(
	dst []Neighbor,
	self ecs.Entity,
	p0 components.Position,
	grid *SpatialGrid,
	viewRadius float32,
	resolve PositionLookup,
) ([]Neighbor, int) {
	var q NeighborQuery
	return q.BuildNeighbors(dst, self, p0, grid, viewRadius, resolve)
}
