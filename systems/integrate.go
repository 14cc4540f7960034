package systems

import (
	"github.com/pthm-cable/flock/components"
)

// Steer normalizes the sum of dirs into a new heading.
// When the sum has zero or non-finite length the previous heading is returned
// unchanged and ok is false.
func Steer(prev components.Velocity, dirs []Vec2) (v components.Velocity, ok bool) {
	var sum Vec2
	for _, d := range dirs {
		sum = sum.Add(d)
	}
	unit, ok := sum.Normalize()
	if !ok {
		return prev, false
	}
	return components.Velocity{X: unit.X, Y: unit.Y}, true
}

// Advance moves p along heading v by speed*dt and clamps each axis to [-size, size].
// An axis whose step is not a number keeps its previous coordinate.
func Advance(p components.Position, v components.Velocity, speed, dt, size float32) components.Position {
	step := speed * dt
	return components.Position{
		X: advanceAxis(p.X, v.X*step, size),
		Y: advanceAxis(p.Y, v.Y*step, size),
	}
}

// ClampPosition clamps p into [-size, size]². A coordinate that is not a
// number maps to 0.
func ClampPosition(p components.Position, size float32) components.Position {
	if p.X != p.X {
		p.X = 0
	}
	if p.Y != p.Y {
		p.Y = 0
	}
	return components.Position{
		X: clampFloat(p.X, -size, size),
		Y: clampFloat(p.Y, -size, size),
	}
}

func advanceAxis(p, delta, size float32) float32 {
	next := p + delta
	if next != next {
		next = p
	}
	return clampFloat(next, -size, size)
}
