// Package components defines ECS components for the simulation.
package components

// Position represents an agent's location in the bounded plane.
type Position struct {
	X, Y float32
}

// Velocity represents an agent's heading.
// It is renormalized to unit length every tick, so it carries direction only;
// travel speed comes from the flocking parameters.
type Velocity struct {
	X, Y float32
}
