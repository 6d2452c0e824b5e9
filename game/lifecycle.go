package game

import (
	"fmt"

	"github.com/pthm-cable/gridevo/components"
	"github.com/pthm-cable/gridevo/neural"
)

// InitializeFirstGeneration seeds generation 0 with population.size genomes
// from gen (nil = neural.RandomGenome) on a fully cleared grid.
func (s *Simulation) InitializeFirstGeneration(gen neural.GenomeFunc) error {
	if gen == nil {
		gen = neural.RandomGenome
	}
	s.genomeFunc = gen

	n := s.cfg.Population.Size
	length := s.cfg.Genome.Length
	inds := make([]components.Individual, n)
	for i := range inds {
		inds[i].Genome = gen(s.rng, length)
	}

	s.generation = 0
	s.step = 0
	s.mutatedGenes = 0
	s.ended = nil
	s.history.Clear()
	s.bookmarks.Reset()
	s.marks = nil
	if err := s.setupIndividuals(inds, true); err != nil {
		return err
	}
	s.initialized = true

	s.logger.Debug("first generation initialized", "population", n, "genome_length", length)
	return nil
}

// Reset clears the grid, pheromones included, and reseeds generation 0 with
// the generator last passed to InitializeFirstGeneration.
func (s *Simulation) Reset() error {
	return s.InitializeFirstGeneration(s.genomeFunc)
}

// ResetGeneration restarts the current generation: the same genomes are
// placed on fresh random tiles, brains are rebuilt and the step counter
// returns to 0. Pheromones are kept.
func (s *Simulation) ResetGeneration() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	old := s.world.Individuals()
	inds := make([]components.Individual, len(old))
	for i := range old {
		inds[i].Genome = old[i].Genome
	}
	s.step = 0
	s.ended = nil
	return s.setupIndividuals(inds, false)
}

// transition replaces the completed generation with offspring of its
// survivors. On ErrNoSurvivors nothing is changed.
func (s *Simulation) transition() error {
	end, ok := s.completedGeneration()
	if !ok {
		return nil
	}
	if len(end.survivors) == 0 {
		return fmt.Errorf("generation %d under %v: %w", s.generation, s.criterion, ErrNoSurvivors)
	}

	parents := s.world.Individuals()
	rate := s.cfg.Mutation.Rate
	inds := make([]components.Individual, s.cfg.Population.Size)
	mutated := 0
	for i := range inds {
		parent := &parents[end.survivors[s.rng.Intn(len(end.survivors))]]
		genome := parent.Genome.Clone()
		mutated += neural.MutateGenome(s.rng, rate, genome)
		inds[i].Genome = genome
	}

	s.generation++
	s.step = 0
	s.mutatedGenes = mutated
	if err := s.setupIndividuals(inds, false); err != nil {
		return err
	}

	s.logger.Debug("generation transition",
		"generation", s.generation,
		"parents", len(end.survivors),
		"mutated_genes", mutated,
	)
	return nil
}

// setupIndividuals places inds on distinct random tiles with random facing
// and rebuilds one brain per slot. clearGrid also wipes pheromones.
func (s *Simulation) setupIndividuals(inds []components.Individual, clearGrid bool) error {
	cells := s.world.Grid().Len()
	if len(inds) > cells {
		return fmt.Errorf("%d individuals do not fit on %d tiles", len(inds), cells)
	}

	perm := s.rng.Perm(cells)
	for i := range inds {
		inds[i].GridIndex = perm[i]
		inds[i].Forward = components.Dir(s.rng.Intn(4))
	}

	var err error
	if clearGrid {
		err = s.world.Reset(inds)
	} else {
		err = s.world.Repopulate(inds)
	}
	if err != nil {
		return err
	}

	s.rebuildBrains()
	return nil
}

// rebuildBrains decodes every slot's genome, reusing existing networks.
func (s *Simulation) rebuildBrains() {
	inds := s.world.Individuals()
	for len(s.brains) < len(inds) {
		s.brains = append(s.brains, neural.NewNetwork())
	}
	s.brains = s.brains[:len(inds)]

	hidden := s.cfg.Neural.HiddenNeurons
	sensors := s.cfg.Derived.Sensors
	actions := s.cfg.Derived.Actions
	for i := range inds {
		s.brains[i].Rebuild(inds[i].Genome, hidden, sensors, actions)
	}
}
