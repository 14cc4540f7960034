package telemetry

import (
	"math"
	"testing"
)

func TestDistribution(t *testing.T) {
	tests := []struct {
		name                     string
		values                   []float64
		mean, std, p10, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0, 0, 0},
		{"single", []float64{4}, 4, 0, 4, 4, 4},
		{"constant", []float64{2, 2, 2, 2}, 2, 0, 2, 2, 2},
		{"odd run", []float64{5, 1, 4, 2, 3}, 3, math.Sqrt(2.5), 1, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, p10, p50, p90 := Distribution(tt.values)
			got := []float64{mean, std, p10, p50, p90}
			want := []float64{tt.mean, tt.std, tt.p10, tt.p50, tt.p90}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Errorf("Distribution(%v) = %v, want %v", tt.values, got, want)
					break
				}
			}
		})
	}
}

func TestDistributionDoesNotSortInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Distribution(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input was modified: %v", values)
	}
}

func TestPolarization(t *testing.T) {
	if got := Polarization(0, 0, 0); got != 0 {
		t.Errorf("empty flock polarization = %v", got)
	}
	// Ten agents all heading +x.
	if got := Polarization(10, 0, 10); math.Abs(got-1) > 1e-12 {
		t.Errorf("aligned polarization = %v, want 1", got)
	}
	// Two opposing agents.
	if got := Polarization(0, 0, 2); got != 0 {
		t.Errorf("opposed polarization = %v, want 0", got)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("window = %d ticks, want 10", c.WindowDurationTicks())
	}

	c.RecordStale(2)
	c.RecordDegenerate(3)
	c.RecordMoves(40)
	c.RecordMoves(2)

	if c.ShouldFlush(9) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Error("should flush once the window ends")
	}

	stats := c.Flush(10, Sample{
		Population:    4,
		HeadingSumX:   4,
		NeighborCount: []float64{0, 1, 2, 3},
		NearestDist:   []float64{0.5, 0.5, 0.5},
		OccupiedCells: 3,
	})

	if stats.Population != 4 || stats.OccupiedCells != 3 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.Polarization != 1 {
		t.Errorf("polarization = %v, want 1", stats.Polarization)
	}
	if stats.Isolated != 1 {
		t.Errorf("isolated = %d, want 1", stats.Isolated)
	}
	if stats.NeighborMean != 1.5 || stats.NearestMean != 0.5 {
		t.Errorf("means = %v / %v, want 1.5 / 0.5", stats.NeighborMean, stats.NearestMean)
	}
	if stats.StaleRefs != 2 || stats.Degenerate != 3 || stats.CellMoves != 42 {
		t.Errorf("counters = %d/%d/%d, want 2/3/42", stats.StaleRefs, stats.Degenerate, stats.CellMoves)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-6 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}

	// Counters reset for the next window.
	next := c.Flush(20, Sample{})
	if next.StaleRefs != 0 || next.CellMoves != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
}
