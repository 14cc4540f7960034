// Package sim runs the flock: it owns the ECS world, the spatial grid and the
// worker pool, and advances every agent one phase at a time.
package sim

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// Options configures a Simulation beyond the loaded config.
type Options struct {
	Seed          int64                       // RNG seed for placement; 0 uses population.seed
	Workers       int                         // Worker goroutines; 0 uses the config value
	Output        *telemetry.OutputManager    // Optional CSV output
	LogStats      bool                        // Log window stats and perf via slog
	StatsCallback func(telemetry.WindowStats) // Called at every stats window flush
}

// Params are the tunable steering parameters.
type Params struct {
	Separation float32
	Cohesion   float32
	Alignment  float32
	Border     float32
	Inertia    float32
	Speed      float32
}

// ParamsFromConfig reads steering parameters from the flocking section.
func ParamsFromConfig(cfg *config.Config) Params {
	f := cfg.Flocking
	return Params{
		Separation: float32(f.Separation),
		Cohesion:   float32(f.Cohesion),
		Alignment:  float32(f.Alignment),
		Border:     float32(f.BorderWeight),
		Inertia:    float32(f.Inertia),
		Speed:      float32(f.Speed),
	}
}

func (p Params) weights() systems.Weights {
	return systems.Weights{
		Separation: p.Separation,
		Cohesion:   p.Cohesion,
		Alignment:  p.Alignment,
		Border:     p.Border,
	}
}

// agent is the per-tick snapshot of one ECS entity.
type agent struct {
	Entity ecs.Entity
	Pos    components.Position
	Vel    components.Velocity
}

// intent is the integration result committed during apply.
type intent struct {
	Pos components.Position
	Vel components.Velocity
}

// noSlot marks an entity ID with no snapshot entry.
const noSlot = -1

// Simulation holds the flock state.
type Simulation struct {
	cfg *config.Config

	// ECS
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Velocity]
	filter *ecs.Filter2[components.Position, components.Velocity]
	posMap *ecs.Map1[components.Position]
	velMap *ecs.Map1[components.Velocity]

	// Spatial index
	grid       *systems.SpatialGrid
	bounds     systems.Bounds
	viewRadius float32

	params Params
	rng    *rand.Rand

	// Dense per-tick agent store, indexed by snapshot slot
	agents  []agent
	slots   []int32 // entity ID -> snapshot slot
	caches  [][]systems.Neighbor
	steer   []systems.Steering
	intents []intent

	parallel *parallelState

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	lastWindow    telemetry.WindowStats

	// State
	tick       int32
	staleTotal int
	degenTotal int
	movesTotal int
}

// New creates an empty simulation for the given config. Call Populate or
// Spawn to add agents, and Close when done.
func New(cfg *config.Config, opts Options) *Simulation {
	world := ecs.NewWorld()

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Population.Seed
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = cfg.Derived.Workers
	}

	s := &Simulation{
		cfg:    cfg,
		world:  world,
		mapper: ecs.NewMap2[components.Position, components.Velocity](world),
		filter: ecs.NewFilter2[components.Position, components.Velocity](world),
		posMap: ecs.NewMap1[components.Position](world),
		velMap: ecs.NewMap1[components.Velocity](world),

		grid: systems.NewSpatialGrid(cfg.World.Size),
		bounds: systems.Bounds{
			Size:   cfg.Derived.Size32,
			Border: cfg.Derived.Border32,
		},
		viewRadius: cfg.Derived.ViewRadius32,

		params: ParamsFromConfig(cfg),
		rng:    rand.New(rand.NewSource(seed)),

		parallel: newParallelState(workers, cfg.Parallel.Threshold),

		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32),
		output:        opts.Output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	return s
}

// Populate spawns population.count agents uniformly inside the border margin
// with random unit headings.
func (s *Simulation) Populate() {
	n := s.cfg.Population.Count
	lo := -s.bounds.Size + s.bounds.Border
	span := 2 * (s.bounds.Size - s.bounds.Border)
	if span < 0 {
		lo, span = 0, 0
	}

	for i := 0; i < n; i++ {
		pos := components.Position{
			X: lo + s.rng.Float32()*span,
			Y: lo + s.rng.Float32()*span,
		}
		angle := s.rng.Float64() * 2 * math.Pi
		vel := components.Velocity{
			X: float32(math.Cos(angle)),
			Y: float32(math.Sin(angle)),
		}
		s.Spawn(pos, vel)
	}

	slog.Info("population spawned", "count", n, "size", s.cfg.World.Size)
}

// Spawn adds one agent and registers it with the grid exactly once.
// The position is clamped into the domain and the heading normalized; a zero
// heading becomes +X. Must not be called while Step is running.
func (s *Simulation) Spawn(pos components.Position, vel components.Velocity) ecs.Entity {
	pos = systems.ClampPosition(pos, s.bounds.Size)

	if unit, ok := (systems.Vec2{X: vel.X, Y: vel.Y}).Normalize(); ok {
		vel = components.Velocity{X: unit.X, Y: unit.Y}
	} else {
		vel = components.Velocity{X: 1, Y: 0}
	}

	e := s.mapper.NewEntity(&pos, &vel)
	s.grid.Insert(e, pos.X, pos.Y)
	return e
}

// Step advances every agent by dt seconds.
func (s *Simulation) Step(dt float32) {
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseSnapshot)
	n := s.snapshot()

	stale, degenerate, moves := 0, 0, 0
	if n > 0 {
		s.perf.StartPhase(telemetry.PhaseNeighbors)
		s.runPhase(phaseNeighbors, n, dt)
		st, _ := s.parallel.faults()
		stale += st

		s.perf.StartPhase(telemetry.PhaseRules)
		s.runPhase(phaseRules, n, dt)
		st, _ = s.parallel.faults()
		stale += st

		s.perf.StartPhase(telemetry.PhaseIntegrate)
		s.runPhase(phaseIntegrate, n, dt)
		_, degenerate = s.parallel.faults()

		s.perf.StartPhase(telemetry.PhaseApply)
		moves = s.applyIntents()
	}

	s.tick++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	if stale > 0 {
		slog.Warn("stale agent handles skipped", "tick", s.tick, "count", stale)
	}
	s.staleTotal += stale
	s.degenTotal += degenerate
	s.movesTotal += moves
	s.collector.RecordStale(stale)
	s.collector.RecordDegenerate(degenerate)
	s.collector.RecordMoves(moves)
	s.flushTelemetry()

	s.perf.EndTick()
}

// snapshot copies agent state out of the ECS world into the dense store and
// rebuilds the ID-to-slot index. Returns the number of agents.
func (s *Simulation) snapshot() int {
	for i := range s.slots {
		s.slots[i] = noSlot
	}
	s.agents = s.agents[:0]

	query := s.filter.Query()
	for query.Next() {
		e := query.Entity()
		pos, vel := query.Get()

		id := int(e.ID())
		for id >= len(s.slots) {
			s.slots = append(s.slots, noSlot)
		}
		s.slots[id] = int32(len(s.agents))
		s.agents = append(s.agents, agent{Entity: e, Pos: *pos, Vel: *vel})
	}

	n := len(s.agents)
	if cap(s.intents) < n {
		s.intents = make([]intent, n)
	}
	s.intents = s.intents[:n]
	for len(s.caches) < n {
		s.caches = append(s.caches, make([]systems.Neighbor, 0, 16))
	}
	for len(s.steer) < n {
		s.steer = append(s.steer, systems.Steering{})
	}
	return n
}

// lookup resolves a handle to its snapshot slot.
func (s *Simulation) lookup(e ecs.Entity) (*agent, bool) {
	id := int(e.ID())
	if id >= len(s.slots) {
		return nil, false
	}
	slot := s.slots[id]
	if slot == noSlot {
		return nil, false
	}
	a := &s.agents[slot]
	if a.Entity != e {
		return nil, false
	}
	return a, true
}

// positionOf resolves a handle to its snapshot position.
func (s *Simulation) positionOf(e ecs.Entity) (components.Position, bool) {
	a, ok := s.lookup(e)
	if !ok {
		return components.Position{}, false
	}
	return a.Pos, true
}

// headingOf resolves a handle to its pre-integration heading.
func (s *Simulation) headingOf(e ecs.Entity) (components.Velocity, bool) {
	a, ok := s.lookup(e)
	if !ok {
		return components.Velocity{}, false
	}
	return a.Vel, true
}

// buildNeighbors rebuilds the neighbor cache of agents [i0, i1).
func (s *Simulation) buildNeighbors(i0, i1 int, scratch *workerScratch) {
	for i := i0; i < i1; i++ {
		a := &s.agents[i]
		cache, stale := scratch.query.BuildNeighbors(
			s.caches[i], a.Entity, a.Pos, s.grid, s.viewRadius, s.positionOf,
		)
		s.caches[i] = cache
		scratch.stale += stale
	}
}

// applyRules fills the steering accumulator of agents [i0, i1).
func (s *Simulation) applyRules(i0, i1 int, scratch *workerScratch) {
	w := s.params.weights()
	inertia := s.params.Inertia

	for i := i0; i < i1; i++ {
		a := &s.agents[i]
		acc := &s.steer[i]
		acc.Reset()
		scratch.stale += systems.ApplyRules(acc, a.Pos, s.caches[i], w, s.bounds, s.headingOf)
		if inertia > 0 {
			acc.Push(systems.Vec2{X: a.Vel.X, Y: a.Vel.Y}.Scale(inertia))
		}
	}
}

// integrate turns accumulators into headings and next positions for agents [i0, i1).
func (s *Simulation) integrate(i0, i1 int, dt float32, scratch *workerScratch) {
	speed := s.params.Speed
	size := s.bounds.Size

	for i := i0; i < i1; i++ {
		a := &s.agents[i]
		acc := &s.steer[i]

		vel, ok := systems.Steer(a.Vel, acc.Dirs())
		if !ok {
			scratch.degenerate++
		}
		acc.Reset()

		s.intents[i] = intent{
			Pos: systems.Advance(a.Pos, vel, speed, dt, size),
			Vel: vel,
		}
	}
}

// applyIntents commits positions, headings and grid moves in snapshot order.
// This is the only place the grid changes after startup. Returns the number
// of cell changes.
func (s *Simulation) applyIntents() int {
	moves := 0
	for i := range s.agents {
		a := &s.agents[i]
		in := &s.intents[i]

		pos := s.posMap.Get(a.Entity)
		vel := s.velMap.Get(a.Entity)
		if pos == nil || vel == nil {
			continue
		}

		if in.Pos != a.Pos {
			if s.grid.Move(a.Entity, a.Pos.X, a.Pos.Y, in.Pos.X, in.Pos.Y) {
				moves++
			}
		}

		*pos = in.Pos
		*vel = in.Vel
	}
	return moves
}

// Close stops the worker pool.
func (s *Simulation) Close() {
	if s.parallel != nil {
		s.parallel.stopWorkers()
	}
}
