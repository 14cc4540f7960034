package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/flock/components"
)

func TestSteerNormalizes(t *testing.T) {
	prev := components.Velocity{X: 0, Y: 1}
	v, ok := Steer(prev, []Vec2{{X: 3, Y: 0}, {X: 0, Y: 4}})
	if !ok {
		t.Fatal("non-zero sum should normalize")
	}
	if !approxEq(v.X, 0.6) || !approxEq(v.Y, 0.8) {
		t.Errorf("Steer = %+v, want (0.6, 0.8)", v)
	}
}

func TestSteerDegenerateKeepsHeading(t *testing.T) {
	prev := components.Velocity{X: 0.6, Y: -0.8}
	inf := float32(math.Inf(1))

	tests := []struct {
		name string
		dirs []Vec2
	}{
		{"no contributions", nil},
		{"all zero", []Vec2{{}, {}, {}, {}}},
		{"cancelling", []Vec2{{X: 1, Y: 2}, {X: -1, Y: -2}}},
		{"infinite", []Vec2{{X: inf, Y: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Steer(prev, tt.dirs)
			if ok {
				t.Error("degenerate sum should report ok=false")
			}
			if v != prev {
				t.Errorf("heading changed to %+v, want %+v", v, prev)
			}
		})
	}
}

func TestAdvanceContainment(t *testing.T) {
	const size = 10

	tests := []struct {
		name  string
		pos   components.Position
		vel   components.Velocity
		speed float32
		dt    float32
		want  components.Position
	}{
		{"interior step", components.Position{X: 0, Y: 0}, components.Velocity{X: 1, Y: 0}, 1, 0.5, components.Position{X: 0.5, Y: 0}},
		{"clamped high", components.Position{X: 9.9, Y: 0}, components.Velocity{X: 1, Y: 0}, 1, 1, components.Position{X: 10, Y: 0}},
		{"clamped low", components.Position{X: 0, Y: -9.9}, components.Velocity{X: 0, Y: -1}, 5, 1, components.Position{X: 0, Y: -10}},
		{"huge speed", components.Position{X: 1, Y: 1}, components.Velocity{X: 0.6, Y: 0.8}, 1e30, 1e10, components.Position{X: 10, Y: 10}},
		{"zero dt", components.Position{X: 3, Y: 4}, components.Velocity{X: 1, Y: 0}, 1, 0, components.Position{X: 3, Y: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advance(tt.pos, tt.vel, tt.speed, tt.dt, size)
			if !approxEq(got.X, tt.want.X) || !approxEq(got.Y, tt.want.Y) {
				t.Errorf("Advance = %+v, want %+v", got, tt.want)
			}
			if got.X < -size || got.X > size || got.Y < -size || got.Y > size {
				t.Errorf("position %+v escaped the domain", got)
			}
		})
	}
}

func TestIsolatedAgentKeepsHeading(t *testing.T) {
	w := Weights{Separation: 0.02, Cohesion: 0.02, Alignment: 0.2, Border: 0.2}
	b := Bounds{Size: 10, Border: 1}
	prev := components.Velocity{X: 0, Y: 1}

	var acc Steering
	ApplyRules(&acc, components.Position{X: 2, Y: 2}, nil, w, b, nil)
	v, ok := Steer(prev, acc.Dirs())
	if ok {
		t.Error("isolated agent should hit the degenerate fallback")
	}
	if v != prev {
		t.Errorf("heading = %+v, want %+v", v, prev)
	}
}
