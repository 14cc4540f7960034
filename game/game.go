// Package game drives the flock in a raylib window, or headless for batch
// runs. It owns the simulation and everything that reads it for display.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/ui"
)

const (
	maxStepsPerUpdate = 10
	// Frame steps longer than this many fixed steps are clipped so a stalled
	// window does not teleport the flock.
	maxFrameSteps = 4
)

// Options configures a game run beyond the loaded config.
type Options struct {
	Seed           int64  // 0 uses population.seed
	Workers        int    // 0 uses parallel.workers
	LogStats       bool   // Log window and perf stats via slog
	OutputDir      string // Directory for CSV logs and config snapshot (empty = off)
	Headless       bool   // No window, fixed physics.dt per step
	StepsPerUpdate int    // Simulation steps per Update call
}

// Game holds the simulation and its presentation state.
type Game struct {
	cfg    *config.Config
	sim    *sim.Simulation
	output *telemetry.OutputManager

	headless       bool
	paused         bool
	stepsPerUpdate int
	defaults       sim.Params

	// Presentation (nil when headless)
	camera      *camera.Camera
	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	paramsPanel *ui.ParamsPanel
	agentPanel  *ui.AgentPanel
	fps         *ui.FPSMeter
	registry    *systems.SystemRegistry

	screenWidth, screenHeight float32

	showPerf   bool
	showParams bool

	selected    ecs.Entity
	hasSelected bool

	dragging bool
	dragDist float32
}

// NewGameWithOptions builds the simulation, populates it and prepares the
// output directory. Graphical runs must call it after the window exists.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	var output *telemetry.OutputManager
	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		output = om
	}

	s := sim.New(cfg, sim.Options{
		Seed:     opts.Seed,
		Workers:  opts.Workers,
		Output:   output,
		LogStats: opts.LogStats,
	})
	s.Populate()

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		sim:            s,
		output:         output,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
		defaults:       s.Params(),
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
		showParams:     true,
	}

	if !g.headless {
		g.camera = camera.New(
			g.screenWidth, g.screenHeight, cfg.Derived.Size32,
			float32(cfg.Camera.InitialZoom), float32(cfg.Camera.MinZoom), float32(cfg.Camera.MaxZoom),
		)
		g.hud = ui.NewHUD()
		g.registry = systems.NewSystemRegistry()
		g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-260, 10)
		g.paramsPanel = ui.NewParamsPanel(int32(g.screenWidth)-270, int32(g.screenHeight)-240, 260)
		g.agentPanel = ui.NewAgentPanel(10, 100, 280)
		g.fps = ui.NewFPSMeter(500 * time.Millisecond)
	}

	if output != nil {
		slog.Info("writing output", "dir", output.Dir())
	}
	return g, nil
}

// UpdateHeadless advances stepsPerUpdate fixed steps.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.Step(g.cfg.Derived.DT32)
	}
}

// Update processes input and advances the simulation by the last frame's
// duration, split over stepsPerUpdate steps.
func (g *Game) Update(frameTime float32) {
	g.handleInput()

	if g.paused {
		return
	}
	dt := frameDT(frameTime, g.cfg.Derived.DT32)
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.Step(dt)
	}
	if g.hasSelected && !g.sim.Alive(g.selected) {
		g.hasSelected = false
	}
}

// frameDT clips a measured frame duration to a usable step length.
func frameDT(frameTime, fixed float32) float32 {
	if !(frameTime > 0) {
		return fixed
	}
	if limit := fixed * maxFrameSteps; frameTime > limit {
		return limit
	}
	return frameTime
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Simulation exposes the underlying simulation.
func (g *Game) Simulation() *sim.Simulation {
	return g.sim
}

// Unload stops the workers and closes output files.
func (g *Game) Unload() {
	g.sim.Close()
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
