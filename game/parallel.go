package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/gridevo/neural"
	"github.com/pthm-cable/gridevo/systems"
)

// workChunk represents a range of slots for a worker to evaluate.
type workChunk struct {
	start, end int
}

// parallelState holds resources for the sense/decide phase.
type parallelState struct {
	// activations[slot] is written only by the worker evaluating slot.
	activations [][]neural.Activation
	numWorkers  int
	threshold   int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(workers, threshold int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{
		numWorkers: workers,
		threshold:  threshold,
	}
}

// resize makes room for n per-slot activation buffers, keeping old capacity.
func (p *parallelState) resize(n int) {
	if cap(p.activations) < n {
		grown := make([][]neural.Activation, n)
		copy(grown, p.activations)
		p.activations = grown
	}
	p.activations = p.activations[:n]
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
		go p.worker(s)
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
func (p *parallelState) worker(s *Simulation) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// sense runs every brain against the current world and fills the per-slot
// activation buffers. The world is only read until the phase joins.
func (s *Simulation) sense() {
	n := min(len(s.brains), s.world.Population())
	s.parallel.resize(n)
	if n == 0 {
		return
	}

	if n < s.parallel.threshold || s.parallel.numWorkers == 1 {
		s.computeChunk(0, n)
		return
	}
	s.computeParallel(n)
}

// computeParallel dispatches work to the worker pool.
func (s *Simulation) computeParallel(n int) {
	if !s.parallel.running {
		s.parallel.startWorkers(s)
	}

	numWorkers := s.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		s.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Implicit join: nothing is applied until every chunk reports back.
	for i := 0; i < chunksDispatched; i++ {
		<-s.parallel.doneChan
	}
}

// computeChunk evaluates slots [i0, i1).
func (s *Simulation) computeChunk(i0, i1 int) {
	inds := s.world.Individuals()
	for slot := i0; slot < i1; slot++ {
		reader := systems.SensorReader{World: s.world, Individual: &inds[slot]}
		s.parallel.activations[slot] = s.brains[slot].Run(reader, slot, s.parallel.activations[slot][:0])
	}
}

// apply performs every activation serially, in slot order and then in
// action-neuron creation order. This is the only phase that writes the world.
func (s *Simulation) apply() {
	for _, acts := range s.parallel.activations {
		for _, act := range acts {
			systems.PerformAction(s.world, act, s.emit)
		}
	}
}

// stopParallelWorkers should be called when shutting down the simulation.
func (s *Simulation) stopParallelWorkers() {
	if s.parallel != nil {
		s.parallel.stopWorkers()
	}
}
