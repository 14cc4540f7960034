package sim

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/flock/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and reports it.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sample())
	s.lastWindow = stats
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sample measures the flock from the last step's snapshot, caches and intents.
func (s *Simulation) sample() telemetry.Sample {
	n := len(s.agents)
	out := telemetry.Sample{
		Population:    n,
		NeighborCount: make([]float64, n),
		NearestDist:   make([]float64, 0, n),
		OccupiedCells: s.grid.OccupiedCells(),
	}

	for i := 0; i < n; i++ {
		v := s.intents[i].Vel
		out.HeadingSumX += float64(v.X)
		out.HeadingSumY += float64(v.Y)

		cache := s.caches[i]
		out.NeighborCount[i] = float64(len(cache))
		if len(cache) == 0 {
			continue
		}
		minD := cache[0].DistSq
		for _, nb := range cache[1:] {
			if nb.DistSq < minD {
				minD = nb.DistSq
			}
		}
		out.NearestDist = append(out.NearestDist, math.Sqrt(float64(minD)))
	}
	return out
}
