package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Count          int
	Tick           int32
	StepsPerUpdate int
	FPS            int
	Paused         bool
	Polarization   float64
	NeighborsMean  float64
	Zoom           float32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Boids: %d | Polarization: %.2f | Neighbors: %.1f", data.Count, data.Polarization, data.NeighborsMean),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Zoom: %.1f", data.Tick, data.StepsPerUpdate, data.FPS, data.Zoom),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// FPSMeter counts frames and publishes a rate at a fixed interval so the
// readout does not flicker every frame.
type FPSMeter struct {
	interval time.Duration
	elapsed  time.Duration
	frames   int
	value    int
}

// NewFPSMeter creates a meter that refreshes every interval.
func NewFPSMeter(interval time.Duration) *FPSMeter {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &FPSMeter{interval: interval}
}

// Frame records one rendered frame that took dt.
func (m *FPSMeter) Frame(dt time.Duration) {
	m.frames++
	m.elapsed += dt
	if m.elapsed < m.interval {
		return
	}
	m.value = int(float64(m.frames)/m.elapsed.Seconds() + 0.5)
	m.frames = 0
	m.elapsed = 0
}

// Value returns the last published rate.
func (m *FPSMeter) Value() int {
	return m.value
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Stats    telemetry.PerfStats
	Registry *systems.SystemRegistry
}

// PerfPanel renders the phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders one line per tick phase in execution order.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Tick: %s  (%.0f/s)", data.Stats.AvgTickDuration.Round(time.Microsecond), data.Stats.TicksPerSecond),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, id := range phaseOrder(data.Registry) {
		avg := data.Stats.PhaseAvg[id]
		pct := data.Stats.PhasePct[id]

		name := id
		if data.Registry != nil {
			name = data.Registry.GetName(id)
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, p.renderer.PctColor(pct),
		)
		y += 14
	}
}

// phaseOrder returns phase IDs from the registry, or the telemetry order
// when no registry is set.
func phaseOrder(reg *systems.SystemRegistry) []string {
	if reg == nil {
		return telemetry.Phases
	}
	return reg.IDs()
}
