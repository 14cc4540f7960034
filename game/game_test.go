package game

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestFrameDT(t *testing.T) {
	const fixed = float32(1.0 / 60)

	tests := []struct {
		name  string
		frame float32
		want  float32
	}{
		{"normal frame", 0.02, 0.02},
		{"zero falls back", 0, fixed},
		{"negative falls back", -1, fixed},
		{"NaN falls back", float32(math.NaN()), fixed},
		{"stall clipped", 2, fixed * maxFrameSteps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameDT(tt.frame, fixed); got != tt.want {
				t.Errorf("frameDT(%v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestZoomFactor(t *testing.T) {
	tests := []struct {
		notches, step, want float32
	}{
		{1, 0.25, 1.25},
		{-1, 0.25, 0.75},
		{2, 0.25, 1.5625},
		{0.5, 0.2, 1.1},
		{0, 0.25, 1},
	}

	for _, tt := range tests {
		if got := zoomFactor(tt.notches, tt.step); !near(got, tt.want) {
			t.Errorf("zoomFactor(%v, %v) = %v, want %v", tt.notches, tt.step, got, tt.want)
		}
	}
}

func TestOrientedTrianglePointsAlongHeading(t *testing.T) {
	tests := []struct {
		name       string
		vel        components.Velocity
		tipX, tipY float32
	}{
		{"east", components.Velocity{X: 1}, 115, 100},
		{"north is screen up", components.Velocity{Y: 1}, 100, 85},
		{"west", components.Velocity{X: -1}, 85, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tip, left, right := orientedTriangle(100, 100, tt.vel, 10)
			if !near(tip.X, tt.tipX) || !near(tip.Y, tt.tipY) {
				t.Errorf("tip = %+v, want (%v, %v)", tip, tt.tipX, tt.tipY)
			}
			// Back corners sit behind the center, symmetric about the heading.
			mx, my := (left.X+right.X)/2-100, (left.Y+right.Y)/2-100
			dot := mx*(tip.X-100) + my*(tip.Y-100)
			if dot >= 0 {
				t.Errorf("back corners are not behind the agent: %+v %+v", left, right)
			}
		})
	}
}

func TestHeadlessRunWritesOutput(t *testing.T) {
	cfg := config.Default()
	cfg.World.Size = 10
	cfg.Population.Count = 200
	cfg.Telemetry.StatsWindow = 0.1
	cfg.Derive()

	dir := t.TempDir()
	g, err := NewGameWithOptions(cfg, Options{Headless: true, OutputDir: dir, StepsPerUpdate: 3})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}

	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 12 {
		t.Errorf("tick = %d, want 12", g.Tick())
	}
	if err := g.Simulation().Verify(); err != nil {
		t.Error(err)
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
