package game

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	selectRadiusPx = 8 // Click tolerance for picking an agent
	clickSlopPx    = 3 // Mouse travel below which a drag is a click
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.showParams = !g.showParams
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.hasSelected = false
	}

	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.perfPanel.SetPosition(int32(w)-260, 10)
	g.paramsPanel.SetPosition(int32(w)-270, int32(h)-240)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()

	// Left drag pans, unless the drag started on a panel. A release that
	// barely moved counts as a click and selects an agent.
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !g.overPanel(mouse) {
		g.dragging = true
		g.dragDist = 0
	}
	if g.dragging {
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			g.camera.Pan(d.X, d.Y)
			g.dragDist += absf(d.X) + absf(d.Y)
		}
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) && g.dragging {
		g.dragging = false
		if g.dragDist < clickSlopPx {
			g.selectAt(mouse.X, mouse.Y)
		}
	}

	// Arrow keys move a fixed number of pixels per frame
	const panPx = 8
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(-panPx, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(panPx, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, -panPx)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, panPx)
	}

	// Wheel zooms toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomAt(mouse.X, mouse.Y, zoomFactor(wheel, float32(g.cfg.Camera.ZoomStep)))
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(zoomFactor(1, float32(g.cfg.Camera.ZoomStep)))
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(zoomFactor(-1, float32(g.cfg.Camera.ZoomStep)))
	}

	if rl.IsKeyPressed(rl.KeyHome) || rl.IsKeyPressed(rl.KeyR) {
		g.camera.Reset()
	}
}

// zoomFactor converts wheel notches into a multiplicative zoom change.
// Each notch scales by (1 ± step), so in and out are not exact inverses.
func zoomFactor(notches, step float32) float32 {
	f := float32(1)
	for ; notches >= 1; notches-- {
		f *= 1 + step
	}
	for ; notches <= -1; notches++ {
		f *= 1 - step
	}
	if notches != 0 {
		f *= 1 + notches*step
	}
	return f
}

// selectAt picks the agent nearest to a screen point, or clears the
// selection when none is close enough.
func (g *Game) selectAt(sx, sy float32) {
	wx, wy := g.camera.ScreenToWorld(sx, sy)
	e, ok := g.sim.Nearest(wx, wy, selectRadiusPx/g.camera.Zoom)
	g.selected, g.hasSelected = e, ok
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// overPanel reports whether a screen point lies on a visible UI panel.
func (g *Game) overPanel(p rl.Vector2) bool {
	if !g.showParams {
		return false
	}
	x, y := float32(int32(g.screenWidth)-270), float32(int32(g.screenHeight)-240)
	return p.X >= x && p.Y >= y
}
