package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseNeighbors)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseRules)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[PhaseNeighbors]; !ok {
		t.Error("expected neighbors phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseRules]; !ok {
		t.Error("expected rules phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseApply]; ok {
		t.Error("apply phase was never started and should be absent")
	}
}

func TestPerfCollector_RollingWindowReusesSlots(t *testing.T) {
	pc := NewPerfCollector(3)

	// First ticks record only the snapshot phase.
	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSnapshot)
		pc.EndTick()
	}
	// Later ticks overwrite every slot with the apply phase only.
	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseApply)
		pc.EndTick()
	}

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg[PhaseSnapshot]; ok {
		t.Error("snapshot timings should have rolled out of the window")
	}
	if _, ok := stats.PhaseAvg[PhaseApply]; !ok {
		t.Error("expected apply phase in the window")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIntegrate)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseNeighbors)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct[PhaseIntegrate]
	slowPct := stats.PhasePct[PhaseNeighbors]
	if slowPct <= fastPct {
		t.Errorf("expected neighbors phase (%v%%) > integrate phase (%v%%)", slowPct, fastPct)
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.NeighborsPct != slowPct {
		t.Errorf("CSV row mismatch: %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	// EndTick without StartTick must not panic or record.
	pc.EndTick()

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	for i := 0; i < 3; i++ {
		time.Sleep(16 * time.Millisecond)
		pc.RecordFrame()
	}

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	// With 16ms frames, expect ~60 FPS (allow a wide range for slow machines)
	if stats.FPS < 20 || stats.FPS > 70 {
		t.Errorf("expected FPS between 20-70 with 16ms frame time, got %v", stats.FPS)
	}
}
