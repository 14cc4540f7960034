package systems

import "math"

// Vec2 is a 2D float32 vector used by the steering passes.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale multiplies both components by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// LenSq returns the squared magnitude. Use for comparisons.
func (v Vec2) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the magnitude.
func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.LenSq())))
}

// Normalize returns the unit vector in the direction of v.
// ok is false when v has zero or non-finite length; the result is then the zero vector.
func (v Vec2) Normalize() (Vec2, bool) {
	l := v.Len()
	if l == 0 || math.IsInf(float64(l), 0) || math.IsNaN(float64(l)) {
		return Vec2{}, false
	}
	inv := 1 / l
	return Vec2{v.X * inv, v.Y * inv}, true
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// axisRepulsion returns +1 below the low margin, -1 above the high margin, 0 otherwise.
func axisRepulsion(p, size, border float32) float32 {
	switch {
	case p < -size+border:
		return 1
	case p > size-border:
		return -1
	default:
		return 0
	}
}
