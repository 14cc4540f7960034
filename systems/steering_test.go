package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/components"
)

func approxEq(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) < 1e-5
}

func TestSeparationInverseDistance(t *testing.T) {
	// Equal-magnitude offsets, different squared distances.
	near := []Neighbor{{DX: 0.3, DY: 0, DistSq: 0.09}}
	far := []Neighbor{{DX: 0.3, DY: 0, DistSq: 0.64}}

	sNear := Separation(near, 1)
	sFar := Separation(far, 1)
	if sNear.Len() <= sFar.Len() {
		t.Errorf("closer neighbor should push harder: near %v, far %v", sNear.Len(), sFar.Len())
	}

	got := Separation([]Neighbor{{DX: -0.5, DY: 0, DistSq: 0.25}}, 0.02)
	if !approxEq(got.X, -0.04) || got.Y != 0 {
		t.Errorf("Separation = %+v, want (-0.04, 0)", got)
	}
}

func TestBorderRepulsion(t *testing.T) {
	b := Bounds{Size: 10, Border: 1}

	tests := []struct {
		name string
		pos  components.Position
		want Vec2
	}{
		{"center", components.Position{X: 0, Y: 0}, Vec2{}},
		{"near right", components.Position{X: 9.5, Y: 0}, Vec2{X: -0.2}},
		{"near left", components.Position{X: -9.5, Y: 0}, Vec2{X: 0.2}},
		{"near top right corner", components.Position{X: 9.1, Y: 9.9}, Vec2{X: -0.2, Y: -0.2}},
		{"near bottom", components.Position{X: 3, Y: -9.2}, Vec2{Y: 0.2}},
		{"on margin line", components.Position{X: 9, Y: -9}, Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BorderRepulsion(tt.pos, b, 0.2)
			if !approxEq(got.X, tt.want.X) || !approxEq(got.Y, tt.want.Y) {
				t.Errorf("BorderRepulsion(%+v) = %+v, want %+v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestCohesionPullsTowardCentroid(t *testing.T) {
	// Neighbors at (1,0) and (0,1) relative to self at origin.
	neighbors := []Neighbor{
		{DX: -1, DY: 0, DistSq: 1},
		{DX: 0, DY: -1, DistSq: 1},
	}
	got := Cohesion(neighbors, 0.5)
	if !approxEq(got.X, 0.5) || !approxEq(got.Y, 0.5) {
		t.Errorf("Cohesion = %+v, want (0.5, 0.5)", got)
	}
}

func TestAlignmentSumsHeadings(t *testing.T) {
	_, entities := testAgents(t, make([]components.Position, 3))
	headings := map[ecs.Entity]components.Velocity{
		entities[0]: {X: 1, Y: 0},
		entities[1]: {X: 0, Y: 1},
	}
	lookup := func(e ecs.Entity) (components.Velocity, bool) {
		v, ok := headings[e]
		return v, ok
	}

	neighbors := []Neighbor{{E: entities[0]}, {E: entities[1]}, {E: entities[2]}}
	got, stale := Alignment(neighbors, 0.2, lookup)
	if stale != 1 {
		t.Errorf("stale = %d, want 1", stale)
	}
	if !approxEq(got.X, 0.2) || !approxEq(got.Y, 0.2) {
		t.Errorf("Alignment = %+v, want (0.2, 0.2)", got)
	}
}

func TestRulesEmptyNeighborhood(t *testing.T) {
	noHeading := func(ecs.Entity) (components.Velocity, bool) { return components.Velocity{}, false }

	if v := Separation(nil, 1); v != (Vec2{}) {
		t.Errorf("Separation of empty cache = %+v", v)
	}
	if v := Cohesion(nil, 1); v != (Vec2{}) {
		t.Errorf("Cohesion of empty cache = %+v", v)
	}
	if v, stale := Alignment(nil, 1, noHeading); v != (Vec2{}) || stale != 0 {
		t.Errorf("Alignment of empty cache = %+v (stale %d)", v, stale)
	}
}

func TestApplyRulesPushesOncePerRule(t *testing.T) {
	w := Weights{Separation: 0.02, Cohesion: 0.02, Alignment: 0.2, Border: 0.2}
	b := Bounds{Size: 10, Border: 1}
	noHeading := func(ecs.Entity) (components.Velocity, bool) { return components.Velocity{}, false }

	var acc Steering
	ApplyRules(&acc, components.Position{X: 9.5, Y: 0}, nil, w, b, noHeading)
	if acc.Len() != 4 {
		t.Fatalf("accumulator holds %d vectors, want 4", acc.Len())
	}

	// Only the border term is non-zero for an isolated agent near the edge.
	sum := acc.Sum()
	if !approxEq(sum.X, -0.2) || sum.Y != 0 {
		t.Errorf("sum = %+v, want (-0.2, 0)", sum)
	}

	acc.Reset()
	if acc.Len() != 0 {
		t.Error("Reset should clear the accumulator")
	}
}
