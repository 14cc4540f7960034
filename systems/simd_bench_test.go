package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/blas/blas32"
)

// soaNeighbors holds a neighbor cache as parallel columns for blas32.
type soaNeighbors struct {
	dx, dy, inv []float32
}

func randomCache(n int, seed int64) ([]Neighbor, soaNeighbors) {
	rng := rand.New(rand.NewSource(seed))
	aos := make([]Neighbor, n)
	soa := soaNeighbors{
		dx:  make([]float32, n),
		dy:  make([]float32, n),
		inv: make([]float32, n),
	}
	for i := range aos {
		dx := rng.Float32()*2 - 1
		dy := rng.Float32()*2 - 1
		d := dx*dx + dy*dy + 1e-3
		aos[i] = Neighbor{DX: dx, DY: dy, DistSq: d}
		soa.dx[i], soa.dy[i], soa.inv[i] = dx, dy, 1/d
	}
	return aos, soa
}

// separationBLAS computes Σ diff/d as two dot products.
func separationBLAS(c soaNeighbors, weight float32) Vec2 {
	n := len(c.dx)
	inv := blas32.Vector{N: n, Inc: 1, Data: c.inv}
	return Vec2{
		X: blas32.Dot(blas32.Vector{N: n, Inc: 1, Data: c.dx}, inv),
		Y: blas32.Dot(blas32.Vector{N: n, Inc: 1, Data: c.dy}, inv),
	}.Scale(weight)
}

func TestSeparationBLASAgrees(t *testing.T) {
	aos, soa := randomCache(64, 7)

	want := Separation(aos, 0.02)
	got := separationBLAS(soa, 0.02)
	if !relEq(want.X, got.X) || !relEq(want.Y, got.Y) {
		t.Errorf("blas separation %+v, scalar %+v", got, want)
	}
}

// relEq compares sums whose summation order differs.
func relEq(a, b float32) bool {
	scale := float32(math.Max(1, math.Abs(float64(a))))
	return float32(math.Abs(float64(a-b))) <= 1e-4*scale
}

// Typical caches hold a handful of neighbors; dense flocks a few dozen.
func BenchmarkSeparationScalar(b *testing.B) {
	aos, _ := randomCache(32, 1)

	b.ResetTimer()
	var sink Vec2
	for n := 0; n < b.N; n++ {
		sink = Separation(aos, 0.02)
	}
	_ = sink
}

func BenchmarkSeparationBLAS(b *testing.B) {
	_, soa := randomCache(32, 1)

	b.ResetTimer()
	var sink Vec2
	for n := 0; n < b.N; n++ {
		sink = separationBLAS(soa, 0.02)
	}
	_ = sink
}
