package main

import (
	"math"
	"runtime"
	"sync"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

// Target describes the flock shape the tuner steers toward.
type Target struct {
	Polarization  float64 // Desired |Σv|/N in [0, 1]
	NeighborsMean float64 // Desired mean neighbor count
}

// Outcome is the measured behavior of one parameter vector.
type Outcome struct {
	Fitness       float64
	Polarization  float64
	NeighborsMean float64
}

// FitnessEvaluator runs headless simulations and scores them against a target.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int
	seeds      []int64
	baseConfig *config.Config
	target     Target

	// Fraction of windows discarded as transient before scoring
	warmup float64

	mu   sync.Mutex
	last Outcome
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config, target Target) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		ticks:      ticks,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     target,
		warmup:     0.5,
	}
}

// Last returns the outcome of the most recent Evaluate call.
func (fe *FitnessEvaluator) Last() Outcome {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run concurrently and their outcomes are averaged.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	workers := max(1, runtime.GOMAXPROCS(0)/len(fe.seeds))

	results := make([]Outcome, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(cfg, s, workers)
			results[idx] = fe.score(windows)
		}(i, seed)
	}
	wg.Wait()

	var avg Outcome
	for _, r := range results {
		avg.Fitness += r.Fitness
		avg.Polarization += r.Polarization
		avg.NeighborsMean += r.NeighborsMean
	}
	n := float64(len(results))
	avg.Fitness /= n
	avg.Polarization /= n
	avg.NeighborsMean /= n

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return avg.Fitness
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// runSimulation runs one seed headless and returns every flushed window.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64, workers int) []telemetry.WindowStats {
	var windows []telemetry.WindowStats
	s := sim.New(cfg, sim.Options{
		Seed:    seed,
		Workers: workers,
		StatsCallback: func(w telemetry.WindowStats) {
			windows = append(windows, w)
		},
	})
	defer s.Close()
	s.Populate()

	for i := 0; i < fe.ticks; i++ {
		s.Step(cfg.Derived.DT32)
	}
	return windows
}

// score averages the windows after warmup and measures the distance to the
// target. The neighbor term is relative so both terms share a scale.
func (fe *FitnessEvaluator) score(windows []telemetry.WindowStats) Outcome {
	skip := int(float64(len(windows)) * fe.warmup)
	kept := windows[skip:]
	if len(kept) == 0 {
		return Outcome{Fitness: math.Inf(1)}
	}

	var out Outcome
	for _, w := range kept {
		out.Polarization += w.Polarization
		out.NeighborsMean += w.NeighborMean
	}
	out.Polarization /= float64(len(kept))
	out.NeighborsMean /= float64(len(kept))

	dp := out.Polarization - fe.target.Polarization
	dn := (out.NeighborsMean - fe.target.NeighborsMean) / math.Max(fe.target.NeighborsMean, 1)
	out.Fitness = dp*dp + dn*dn
	return out
}
