package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated flock statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Population int `csv:"population"`

	// Order parameter: |Σ heading| / N, 1 when every agent points the same way
	Polarization float64 `csv:"polarization"`

	// Neighbor count distribution (sampled at window end)
	NeighborMean float64 `csv:"neighbors_mean"`
	NeighborStd  float64 `csv:"neighbors_std"`
	NeighborP10  float64 `csv:"neighbors_p10"`
	NeighborP50  float64 `csv:"neighbors_p50"`
	NeighborP90  float64 `csv:"neighbors_p90"`

	// Mean distance to the closest cached neighbor, over agents that have one
	NearestMean float64 `csv:"nearest_mean"`

	// Spatial spread
	OccupiedCells int `csv:"occupied_cells"`
	Isolated      int `csv:"isolated"`

	// Fault and maintenance counters accumulated over the window
	StaleRefs  int `csv:"stale_refs"`
	Degenerate int `csv:"degenerate"`
	CellMoves  int `csv:"cell_moves"`
}

// Distribution summarizes a sample: mean, sample standard deviation and the
// 10th, 50th and 90th empirical quantiles. Returns zeros for an empty sample.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// Polarization returns |Σv|/n for the given heading sums.
func Polarization(sumX, sumY float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Hypot(sumX, sumY) / float64(n)
}

// LogStats logs the window statistics.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Float64("polarization", round3(s.Polarization)),
		slog.Float64("neighbors_mean", round3(s.NeighborMean)),
		slog.Float64("neighbors_p50", s.NeighborP50),
		slog.Float64("nearest_mean", round3(s.NearestMean)),
		slog.Int("occupied_cells", s.OccupiedCells),
		slog.Int("isolated", s.Isolated),
		slog.Int("stale_refs", s.StaleRefs),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("cell_moves", s.CellMoves),
	)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
