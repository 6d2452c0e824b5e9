package game

import (
	"fmt"

	"github.com/pthm-cable/gridevo/neural"
	"github.com/pthm-cable/gridevo/telemetry"
)

// Step advances the simulation by one step and reports whether this call
// completed the current generation. A generation that has completed is
// replaced by its offspring at the start of the next call.
//
// Order within a step: pending transition, pheromone decay, parallel
// sense/decide, serial apply.
func (s *Simulation) Step() (bool, error) {
	if !s.initialized {
		return false, ErrNotInitialized
	}

	s.perf.StartStep()

	if s.step >= s.cfg.Generation.Steps {
		s.perf.StartPhase(telemetry.PhaseTransition)
		if err := s.transition(); err != nil {
			s.perf.EndStep()
			return false, err
		}
	}

	s.perf.StartPhase(telemetry.PhaseDecay)
	s.world.Grid().DecayPheromones(s.decay)

	s.perf.StartPhase(telemetry.PhaseSense)
	s.sense()

	s.perf.StartPhase(telemetry.PhaseApply)
	s.apply()

	s.perf.EndStep()
	s.step++
	s.flushPerf()

	if s.step < s.cfg.Generation.Steps {
		return false, nil
	}
	if s.reporting() {
		s.completedGeneration()
	}
	return true, nil
}

// RunGeneration steps until the generation counter advances. Because the
// transition runs lazily, it returns one step into the next generation.
func (s *Simulation) RunGeneration() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	start := s.generation
	for s.generation == start {
		if _, err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// completedGeneration returns the memoized end-of-generation record, computing
// it on first use. It reports false while the generation is still running.
func (s *Simulation) completedGeneration() (*generationEnd, bool) {
	if !s.initialized || s.step < s.cfg.Generation.Steps {
		return nil, false
	}
	if s.ended != nil && s.ended.generation == s.generation {
		return s.ended, true
	}

	survivors := s.SurvivingIndexes()
	stats := telemetry.ComputeGenerationStats(telemetry.GenerationInput{
		Generation:   s.generation,
		Steps:        s.step,
		Survivors:    len(survivors),
		MutatedGenes: s.mutatedGenes,
		Rows:         s.rows(),
		Pheromone:    s.world.Grid().PheromoneLevels(nil),
		Genomes:      s.genomes(),
	})
	s.ended = &generationEnd{generation: s.generation, survivors: survivors, stats: stats}
	s.history.Record(stats)
	s.report(stats)
	return s.ended, true
}

// reporting reports whether anything consumes per-generation stats as soon
// as a generation completes.
func (s *Simulation) reporting() bool {
	return s.logStats || s.output != nil || s.onGeneration != nil
}

func (s *Simulation) report(stats telemetry.GenerationStats) {
	if s.logStats {
		s.logger.Info("generation complete", "stats", stats)
	}
	for _, b := range s.bookmarks.Check(stats) {
		b.Log(s.logger)
		s.marks = append(s.marks, b)
		if err := s.output.WriteBookmark(b); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}
	}
	if s.output != nil {
		if err := s.output.WriteGeneration(stats); err != nil {
			s.logger.Error("failed to write generation", "error", err)
		}
	}
	if s.onGeneration != nil {
		s.onGeneration(stats)
	}
}

// flushPerf emits and resets step timing once per full window.
func (s *Simulation) flushPerf() {
	if !s.perf.WindowFull() {
		return
	}
	stats := s.perf.Stats()
	if s.logStats {
		s.logger.Info("perf", "generation", s.generation, "step", s.step, "timing", stats)
	}
	if s.output != nil {
		if err := s.output.WritePerf(stats, s.generation, s.step); err != nil {
			s.logger.Error("failed to write perf", "error", err)
		}
	}
	s.perf.Reset()
}

func (s *Simulation) rows() []float64 {
	inds := s.world.Individuals()
	h := s.world.Size().Y
	out := make([]float64, len(inds))
	if h <= 1 {
		return out
	}
	for i := range inds {
		row := s.world.Grid().IndexToCoord(inds[i].GridIndex).Y
		out[i] = float64(row) / float64(h-1)
	}
	return out
}

func (s *Simulation) genomes() []neural.Genome {
	inds := s.world.Individuals()
	out := make([]neural.Genome, len(inds))
	for i := range inds {
		out[i] = inds[i].Genome
	}
	return out
}

func (s *Simulation) String() string {
	return fmt.Sprintf("generation %d step %d/%d population %d",
		s.generation, s.step, s.cfg.Generation.Steps, s.world.Population())
}
