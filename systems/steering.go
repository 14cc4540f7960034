package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
)

// Weights scales each steering rule.
type Weights struct {
	Separation float32
	Cohesion   float32
	Alignment  float32
	Border     float32
}

// Bounds describes the square domain [-Size, Size]² and its border margin.
type Bounds struct {
	Size   float32
	Border float32
}

// VelocityLookup resolves a handle to the heading it had before this tick's
// integration. ok is false for stale handles.
type VelocityLookup func(e ecs.Entity) (components.Velocity, bool)

// Separation returns Σ(diff/d) over the cache scaled by weight.
// Closer neighbors (smaller d) contribute more.
func Separation(neighbors []Neighbor, weight float32) Vec2 {
	var sum Vec2
	for i := range neighbors {
		n := &neighbors[i]
		inv := 1 / n.DistSq
		sum.X += n.DX * inv
		sum.Y += n.DY * inv
	}
	return sum.Scale(weight)
}

// BorderRepulsion returns an inward push on each axis where the position lies
// within the border margin of the domain edge, scaled by weight.
func BorderRepulsion(p components.Position, b Bounds, weight float32) Vec2 {
	return Vec2{
		X: axisRepulsion(p.X, b.Size, b.Border),
		Y: axisRepulsion(p.Y, b.Size, b.Border),
	}.Scale(weight)
}

// Cohesion returns -Σ(diff) scaled by weight, pulling toward the neighbor centroid.
func Cohesion(neighbors []Neighbor, weight float32) Vec2 {
	var sum Vec2
	for i := range neighbors {
		sum.X -= neighbors[i].DX
		sum.Y -= neighbors[i].DY
	}
	return sum.Scale(weight)
}

// Alignment returns Σ(neighbor heading) scaled by weight.
// Neighbors whose heading cannot be resolved are skipped and counted.
func Alignment(neighbors []Neighbor, weight float32, heading VelocityLookup) (Vec2, int) {
	var sum Vec2
	stale := 0
	for i := range neighbors {
		v, ok := heading(neighbors[i].E)
		if !ok {
			stale++
			continue
		}
		sum.X += v.X
		sum.Y += v.Y
	}
	return sum.Scale(weight), stale
}

// Steering is an agent's per-tick direction accumulator.
type Steering struct {
	dirs []Vec2
}

// Push appends one rule contribution.
func (s *Steering) Push(v Vec2) {
	s.dirs = append(s.dirs, v)
}

// Len returns the number of contributions pushed since the last Reset.
func (s *Steering) Len() int {
	return len(s.dirs)
}

// Dirs returns the accumulated contributions. The slice is reused after Reset.
func (s *Steering) Dirs() []Vec2 {
	return s.dirs
}

// Sum returns the total of all contributions.
func (s *Steering) Sum() Vec2 {
	var sum Vec2
	for _, d := range s.dirs {
		sum = sum.Add(d)
	}
	return sum
}

// Reset clears the accumulator, keeping its capacity.
func (s *Steering) Reset() {
	s.dirs = s.dirs[:0]
}

// ApplyRules pushes every rule contribution for one agent into acc: separation
// with its border term, cohesion, then alignment. Returns the number of stale
// neighbor handles met by alignment.
func ApplyRules(
	acc *Steering,
	p components.Position,
	neighbors []Neighbor,
	w Weights,
	b Bounds,
	heading VelocityLookup,
) int {
	acc.Push(Separation(neighbors, w.Separation))
	acc.Push(BorderRepulsion(p, b, w.Border))
	acc.Push(Cohesion(neighbors, w.Cohesion))
	ali, stale := Alignment(neighbors, w.Alignment, heading)
	acc.Push(ali)
	return stale
}
