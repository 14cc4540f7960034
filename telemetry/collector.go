package telemetry

import "math"

// Sample is the flock state measured at the end of a stats window.
type Sample struct {
	Population    int
	HeadingSumX   float64
	HeadingSumY   float64
	NeighborCount []float64 // one entry per agent
	NearestDist   []float64 // one entry per agent with at least one neighbor
	OccupiedCells int
}

// Collector accumulates per-tick counters within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	staleRefs  int
	degenerate int
	cellMoves  int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(math.Round(windowDurationSec / float64(dt)))
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStale adds stale handle lookups seen during one tick.
func (c *Collector) RecordStale(n int) {
	c.staleRefs += n
}

// RecordDegenerate adds agents that kept their heading because the steering sum was degenerate.
func (c *Collector) RecordDegenerate(n int) {
	c.degenerate += n
}

// RecordMoves adds grid cell changes committed during one tick.
func (c *Collector) RecordMoves(n int) {
	c.cellMoves += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the end-of-window sample and resets
// counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	mean, std, p10, p50, p90 := Distribution(s.NeighborCount)

	isolated := 0
	for _, n := range s.NeighborCount {
		if n == 0 {
			isolated++
		}
	}

	var nearest float64
	if len(s.NearestDist) > 0 {
		nearest, _, _, _, _ = Distribution(s.NearestDist)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Population:   s.Population,
		Polarization: Polarization(s.HeadingSumX, s.HeadingSumY, s.Population),

		NeighborMean: mean,
		NeighborStd:  std,
		NeighborP10:  p10,
		NeighborP50:  p50,
		NeighborP90:  p90,

		NearestMean: nearest,

		OccupiedCells: s.OccupiedCells,
		Isolated:      isolated,

		StaleRefs:  c.staleRefs,
		Degenerate: c.degenerate,
		CellMoves:  c.cellMoves,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.staleRefs = 0
	c.degenerate = 0
	c.cellMoves = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
