package sim

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// Stats holds cumulative counters and the latest telemetry.
type Stats struct {
	Tick       int32
	Population int
	StaleRefs  int
	Degenerate int
	CellMoves  int
	Occupied   int
	Window     telemetry.WindowStats // last flushed window
	Perf       telemetry.PerfStats
}

// Each calls fn for every agent with its current position and heading.
// fn must not call back into the simulation.
func (s *Simulation) Each(fn func(e ecs.Entity, pos components.Position, vel components.Velocity)) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel := query.Get()
		fn(query.Entity(), *pos, *vel)
	}
}

// Neighbors returns a copy of the neighbor cache built for e during the last
// step, or nil if e was not part of it.
func (s *Simulation) Neighbors(e ecs.Entity) []systems.Neighbor {
	id := int(e.ID())
	if id >= len(s.slots) {
		return nil
	}
	slot := s.slots[id]
	if slot == noSlot || int(slot) >= len(s.agents) || s.agents[slot].Entity != e {
		return nil
	}
	return append([]systems.Neighbor(nil), s.caches[slot]...)
}

// Alive reports whether e is a live agent.
func (s *Simulation) Alive(e ecs.Entity) bool {
	return s.world.Alive(e)
}

// Breakdown is the per-rule steering of one agent in the last step.
type Breakdown struct {
	Separation systems.Vec2
	Border     systems.Vec2
	Cohesion   systems.Vec2
	Alignment  systems.Vec2
	Inertia    systems.Vec2
	Sum        systems.Vec2
	Neighbors  int
	Nearest    float32 // Distance to the closest neighbor; 0 when isolated
}

// Breakdown recomputes the rule contributions e received in the last step
// from that step's snapshot and neighbor cache.
func (s *Simulation) Breakdown(e ecs.Entity) (Breakdown, bool) {
	a, ok := s.lookup(e)
	if !ok {
		return Breakdown{}, false
	}
	cache := s.caches[s.slots[e.ID()]]
	w := s.params.weights()

	b := Breakdown{
		Separation: systems.Separation(cache, w.Separation),
		Border:     systems.BorderRepulsion(a.Pos, s.bounds, w.Border),
		Cohesion:   systems.Cohesion(cache, w.Cohesion),
		Neighbors:  len(cache),
	}
	b.Alignment, _ = systems.Alignment(cache, w.Alignment, s.headingOf)
	if s.params.Inertia > 0 {
		b.Inertia = systems.Vec2{X: a.Vel.X, Y: a.Vel.Y}.Scale(s.params.Inertia)
	}
	b.Sum = b.Separation.Add(b.Border).Add(b.Cohesion).Add(b.Alignment).Add(b.Inertia)

	for i, nb := range cache {
		if i == 0 || nb.DistSq < b.Nearest {
			b.Nearest = nb.DistSq
		}
	}
	b.Nearest = float32(math.Sqrt(float64(b.Nearest)))
	return b, true
}

// Position returns the current position of e.
func (s *Simulation) Position(e ecs.Entity) (components.Position, bool) {
	if !s.world.Alive(e) {
		return components.Position{}, false
	}
	pos := s.posMap.Get(e)
	if pos == nil {
		return components.Position{}, false
	}
	return *pos, true
}

// Velocity returns the current heading of e.
func (s *Simulation) Velocity(e ecs.Entity) (components.Velocity, bool) {
	if !s.world.Alive(e) {
		return components.Velocity{}, false
	}
	vel := s.velMap.Get(e)
	if vel == nil {
		return components.Velocity{}, false
	}
	return *vel, true
}

// Nearest returns the agent closest to (x, y) within radius.
func (s *Simulation) Nearest(x, y, radius float32) (ecs.Entity, bool) {
	var best ecs.Entity
	bestD := radius * radius
	found := false

	for _, e := range s.grid.Query(x, y, radius) {
		p, ok := s.Position(e)
		if !ok {
			continue
		}
		dx, dy := p.X-x, p.Y-y
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD, found = e, d, true
		}
	}
	return best, found
}

// Len returns the number of live agents.
func (s *Simulation) Len() int {
	query := s.filter.Query()
	n := query.Count()
	query.Close()
	return n
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Grid exposes the spatial index for read-only diagnostics.
func (s *Simulation) Grid() *systems.SpatialGrid {
	return s.grid
}

// Params returns the current steering parameters.
func (s *Simulation) Params() Params {
	return s.params
}

// SetParams replaces the steering parameters; they take effect on the next step.
// Must not be called while Step is running.
func (s *Simulation) SetParams(p Params) {
	s.params = p
}

// Perf returns the perf collector so frame drivers can record frame timing.
func (s *Simulation) Perf() *telemetry.PerfCollector {
	return s.perf
}

// Stats returns cumulative counters and the latest telemetry.
func (s *Simulation) Stats() Stats {
	return Stats{
		Tick:       s.tick,
		Population: s.Len(),
		StaleRefs:  s.staleTotal,
		Degenerate: s.degenTotal,
		CellMoves:  s.movesTotal,
		Occupied:   s.grid.OccupiedCells(),
		Window:     s.lastWindow,
		Perf:       s.perf.Stats(),
	}
}

// Verify checks that every live agent is stored in exactly one grid cell,
// the one its position maps to.
func (s *Simulation) Verify() error {
	cells := make(map[ecs.Entity][2]int, s.grid.Len())
	dim := s.grid.Dim()
	for row := 0; row < dim; row++ {
		for col := 0; col < dim; col++ {
			for _, e := range s.grid.Cell(col, row) {
				if prev, dup := cells[e]; dup {
					return fmt.Errorf("agent %d stored in cells %v and %v", e.ID(), prev, [2]int{col, row})
				}
				cells[e] = [2]int{col, row}
			}
		}
	}

	var err error
	live := 0
	s.Each(func(e ecs.Entity, pos components.Position, _ components.Velocity) {
		live++
		if err != nil {
			return
		}
		got, ok := cells[e]
		if !ok {
			err = fmt.Errorf("agent %d missing from grid", e.ID())
			return
		}
		col, row := s.grid.CellOf(pos.X, pos.Y)
		if got != [2]int{col, row} {
			err = fmt.Errorf("agent %d in cell %v but position (%g, %g) maps to (%d, %d)",
				e.ID(), got, pos.X, pos.Y, col, row)
		}
	})
	if err != nil {
		return err
	}
	if live != len(cells) {
		return fmt.Errorf("grid holds %d handles for %d live agents", len(cells), live)
	}
	return nil
}
