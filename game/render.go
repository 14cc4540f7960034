package game

import (
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/ui"
)

const controlsText = "SPACE: Pause | < >: Speed | Drag: Pan | Wheel: Zoom | Click: Select | C: Clear | R: Reset view | P: Perf | T: Tuning"

var (
	backgroundColor = rl.Color{R: 12, G: 14, B: 20, A: 255}
	borderColor     = rl.Color{R: 70, G: 80, B: 95, A: 255}
	neighborColor   = rl.Color{R: 255, G: 220, B: 120, A: 160}
)

// Draw renders one frame.
func (g *Game) Draw() {
	g.sim.Perf().RecordFrame()
	g.fps.Frame(time.Duration(rl.GetFrameTime() * float32(time.Second)))

	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	g.drawDomain()
	g.drawAgents()
	if g.hasSelected {
		g.drawSelection()
	}
	g.drawUI()

	rl.EndDrawing()
}

// drawDomain outlines [-Size, Size]² and the border margin.
func (g *Game) drawDomain() {
	size := g.cfg.Derived.Size32
	g.drawWorldRect(-size, -size, size, size, borderColor)

	inner := size - g.cfg.Derived.Border32
	if inner > 0 && g.camera.Zoom*g.cfg.Derived.Border32 >= 4 {
		g.drawWorldRect(-inner, -inner, inner, inner, rl.Fade(borderColor, 0.4))
	}
}

func (g *Game) drawWorldRect(minX, minY, maxX, maxY float32, color rl.Color) {
	x0, y0 := g.camera.WorldToScreen(minX, maxY)
	x1, y1 := g.camera.WorldToScreen(maxX, minY)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, color)
}

// drawAgents draws every visible agent as a triangle along its heading,
// or as a single pixel when zoomed far out.
func (g *Game) drawAgents() {
	radius := agentRadius(g.camera.Zoom)
	margin := radius * 2 / g.camera.Zoom

	g.sim.Each(func(_ ecs.Entity, pos components.Position, vel components.Velocity) {
		if !g.camera.IsVisible(pos.X, pos.Y, margin) {
			return
		}
		sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
		color := headingColor(vel)
		if radius < 1.5 {
			rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, color)
			return
		}
		v1, v2, v3 := orientedTriangle(sx, sy, vel, radius)
		// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
		rl.DrawTriangle(v1, v3, v2, color)
	})
}

// drawSelection highlights the selected agent, its view radius and the
// neighbors cached for it in the last step.
func (g *Game) drawSelection() {
	pos, ok := g.sim.Position(g.selected)
	if !ok {
		g.hasSelected = false
		return
	}
	sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
	view := g.cfg.Derived.ViewRadius32 * g.camera.Zoom
	rl.DrawCircleLines(int32(sx), int32(sy), view, rl.Yellow)

	for _, nb := range g.sim.Neighbors(g.selected) {
		// DX, DY point from the neighbor to the selected agent.
		nx, ny := g.camera.WorldToScreen(pos.X-nb.DX, pos.Y-nb.DY)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: nx, Y: ny}, neighborColor)
	}

	r := agentRadius(g.camera.Zoom) + 3
	rl.DrawCircleLines(int32(sx), int32(sy), r, rl.White)

	if b, ok := g.sim.Breakdown(g.selected); ok {
		vel, _ := g.sim.Velocity(g.selected)
		g.agentPanel.Draw(ui.AgentPanelData{
			ID:        g.selected.ID(),
			Pos:       pos,
			Vel:       vel,
			Breakdown: b,
		})
	}
}

// drawUI renders the HUD and panels, applying slider edits to the simulation.
func (g *Game) drawUI() {
	stats := g.sim.Stats()

	g.hud.Draw(ui.HUDData{
		Title:          g.cfg.Screen.Title,
		Count:          stats.Population,
		Tick:           stats.Tick,
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            g.fps.Value(),
		Paused:         g.paused,
		Polarization:   stats.Window.Polarization,
		NeighborsMean:  stats.Window.NeighborMean,
		Zoom:           g.camera.Zoom,
	})
	g.hud.DrawControls(int32(g.screenHeight), controlsText)

	if g.showPerf {
		g.perfPanel.Draw(ui.PerfPanelData{Stats: stats.Perf, Registry: g.registry})
	}

	if g.showParams {
		if p, changed := g.paramsPanel.Draw(g.sim.Params(), g.defaults); changed {
			g.sim.SetParams(p)
		}
	}
}

// agentRadius returns the on-screen agent size for a zoom level.
func agentRadius(zoom float32) float32 {
	r := zoom * 0.35
	if r > 12 {
		r = 12
	}
	return r
}

// orientedTriangle returns screen-space vertices of a triangle pointing
// along the world heading vel: the tip first, then the back corners.
func orientedTriangle(sx, sy float32, vel components.Velocity, radius float32) (tip, backLeft, backRight rl.Vector2) {
	// Screen Y grows downward.
	heading := math.Atan2(float64(-vel.Y), float64(vel.X))

	tip = rl.Vector2{
		X: sx + float32(math.Cos(heading))*radius*1.5,
		Y: sy + float32(math.Sin(heading))*radius*1.5,
	}
	back := heading + math.Pi*0.8
	backLeft = rl.Vector2{
		X: sx + float32(math.Cos(back))*radius,
		Y: sy + float32(math.Sin(back))*radius,
	}
	back = heading - math.Pi*0.8
	backRight = rl.Vector2{
		X: sx + float32(math.Cos(back))*radius,
		Y: sy + float32(math.Sin(back))*radius,
	}
	return tip, backLeft, backRight
}

// headingColor maps the heading angle onto the hue wheel.
func headingColor(vel components.Velocity) rl.Color {
	deg := math.Atan2(float64(vel.Y), float64(vel.X)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return rl.ColorFromHSV(float32(deg), 0.55, 0.95)
}
