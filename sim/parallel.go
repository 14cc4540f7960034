package sim

import (
	"sync"

	"github.com/pthm-cable/flock/systems"
)

// phase selects the per-agent work a chunk performs.
type phase uint8

const (
	phaseNeighbors phase = iota
	phaseRules
	phaseIntegrate
)

// workerScratch holds per-worker reusable buffers and fault counters.
// Counters are summed by the dispatcher after each barrier.
type workerScratch struct {
	query      *systems.NeighborQuery
	stale      int
	degenerate int
}

func (w *workerScratch) resetCounters() {
	w.stale = 0
	w.degenerate = 0
}

// workChunk represents a range of agents for a worker to process in one phase.
type workChunk struct {
	start, end int
	phase      phase
	dt         float32
}

// parallelState holds the worker pool.
type parallelState struct {
	scratches  []workerScratch
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(numWorkers, threshold int) *parallelState {
	if numWorkers < 1 {
		numWorkers = 1
	}
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].query = systems.NewNeighborQuery()
	}
	return &parallelState{
		numWorkers: numWorkers,
		threshold:  threshold,
		scratches:  scratches,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Simulation) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(s *Simulation, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// runPhase executes one phase over n agents and returns once every agent is
// done (the barrier). Small populations run inline on the caller.
func (s *Simulation) runPhase(ph phase, n int, dt float32) {
	p := s.parallel
	for i := range p.scratches {
		p.scratches[i].resetCounters()
	}

	if n < p.threshold || p.numWorkers == 1 {
		s.computeChunk(workChunk{start: 0, end: n, phase: ph, dt: dt}, &p.scratches[0])
		return
	}

	if !p.running {
		p.startWorkers(s)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, phase: ph, dt: dt}
		dispatched++
	}

	// Barrier: wait for all chunks to complete
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// faults sums the per-worker counters of the last phase.
func (p *parallelState) faults() (stale, degenerate int) {
	for i := range p.scratches {
		stale += p.scratches[i].stale
		degenerate += p.scratches[i].degenerate
	}
	return stale, degenerate
}

// computeChunk processes agents [start, end) for one phase.
func (s *Simulation) computeChunk(c workChunk, scratch *workerScratch) {
	switch c.phase {
	case phaseNeighbors:
		s.buildNeighbors(c.start, c.end, scratch)
	case phaseRules:
		s.applyRules(c.start, c.end, scratch)
	case phaseIntegrate:
		s.integrate(c.start, c.end, c.dt, scratch)
	}
}
