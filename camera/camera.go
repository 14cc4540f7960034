// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport into the bounded square world [-Size, Size]².
// World Y points up; screen Y points down.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom in pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World half extent; the center is kept inside [-Size, Size]
	Size float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	initialZoom float32
}

// New creates a camera centered on the origin.
func New(viewportW, viewportH, size, zoom, minZoom, maxZoom float32) *Camera {
	if minZoom <= 0 {
		minZoom = 0.01
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	c := &Camera{
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		Size:        size,
		MinZoom:     minZoom,
		MaxZoom:     maxZoom,
		initialZoom: clamp(zoom, minZoom, maxZoom),
	}
	c.Zoom = c.initialZoom
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y - (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the view by a drag of (dx, dy) screen pixels: the world follows
// the cursor. The center stays inside the world.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X-dx/c.Zoom, -c.Size, c.Size)
	c.Y = clamp(c.Y+dy/c.Zoom, -c.Size, c.Size)
}

// Move shifts the center by (dx, dy) world units.
func (c *Camera) Move(dx, dy float32) {
	c.X = clamp(c.X+dx, -c.Size, c.Size)
	c.Y = clamp(c.Y+dy, -c.Size, c.Size)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.Move(wx-nx, wy-ny)
}

// Reset returns the camera to the origin and initial zoom.
func (c *Camera) Reset() {
	c.X = 0
	c.Y = 0
	c.Zoom = c.initialZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY) in world coordinates.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
