package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/telemetry"
)

func TestParamVectorNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-9 {
			t.Errorf("%s: config default %v, param default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{-1, 0.05, 99, 0.3})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"separation clamped to min", cfg.Flocking.Separation, 0.001},
		{"cohesion kept", cfg.Flocking.Cohesion, 0.05},
		{"alignment clamped to max", cfg.Flocking.Alignment, 2.0},
		{"border kept", cfg.Flocking.BorderWeight, 0.3},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestScoreSkipsWarmup(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), 0, []int64{1}, config.Default(), Target{Polarization: 0.8, NeighborsMean: 4})

	windows := []telemetry.WindowStats{
		{Polarization: 0.1, NeighborMean: 0},
		{Polarization: 0.1, NeighborMean: 0},
		{Polarization: 0.8, NeighborMean: 4},
		{Polarization: 0.8, NeighborMean: 4},
	}
	out := fe.score(windows)
	if out.Fitness != 0 {
		t.Errorf("fitness = %v, want 0 once warmup is discarded", out.Fitness)
	}

	out = fe.score([]telemetry.WindowStats{{Polarization: 0.3, NeighborMean: 6}, {Polarization: 0.3, NeighborMean: 6}})
	want := 0.5*0.5 + 0.5*0.5
	if math.Abs(out.Fitness-want) > 1e-12 {
		t.Errorf("fitness = %v, want %v", out.Fitness, want)
	}

	if out := fe.score(nil); !math.IsInf(out.Fitness, 1) {
		t.Errorf("no windows should score +Inf, got %v", out.Fitness)
	}
}

func TestEvaluateSmallRun(t *testing.T) {
	cfg := config.Default()
	cfg.World.Size = 8
	cfg.Population.Count = 150
	cfg.Telemetry.StatsWindow = 0.1
	cfg.Derive()

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 30, []int64{1, 2}, cfg, Target{Polarization: 0.5, NeighborsMean: 3})

	f := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		t.Fatalf("fitness = %v", f)
	}
	last := fe.Last()
	if last.Polarization < 0 || last.Polarization > 1.0001 {
		t.Errorf("polarization out of range: %v", last.Polarization)
	}
	if cfg.Flocking.Alignment != 0.2 {
		t.Error("Evaluate must not modify the base config")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"45s", "0m45s"},
		{"1h2m3s", "1h02m03s"},
	}
	for _, tt := range tests {
		d, _ := time.ParseDuration(tt.in)
		if got := formatDuration(d); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
