package main

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridevo/config"
	"github.com/pthm-cable/gridevo/game"
)

// tailGenerations is how many final generations the fitness averages over.
const tailGenerations = 5

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config
	logger      *slog.Logger

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	rates   []float64 // survival rate per completed generation
	extinct bool      // ended with ErrNoSurvivors
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean survival rate over the final generations.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	// Seeds already run concurrently; one worker each avoids oversubscription.
	cfg.Parallel.Workers = 1

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(cfg, s)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: computeQuality(result.rates),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation runs one seed for the configured number of generations.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	var result runResult

	sim, err := game.New(cfg, game.Options{Seed: seed, Logger: fe.logger})
	if err != nil {
		result.extinct = true
		return result
	}
	defer sim.Close()

	if err := sim.InitializeFirstGeneration(nil); err != nil {
		result.extinct = true
		return result
	}

	for sim.Generation() < fe.generations {
		if err := sim.RunGeneration(); err != nil {
			if errors.Is(err, game.ErrNoSurvivors) {
				result.extinct = true
			}
			break
		}
	}
	for _, st := range sim.History() {
		result.rates = append(result.rates, st.SurvivalRate)
	}
	return result
}

// computeFitness averages the tail of the survival curve. Extinct runs are
// scaled by how far they got.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	if len(r.rates) == 0 {
		return 0
	}
	tail := r.rates[max(0, len(r.rates)-tailGenerations):]
	fitness := -stat.Mean(tail, nil)
	if r.extinct {
		fitness *= float64(len(r.rates)) / float64(fe.generations)
	}
	return fitness
}

// computeQuality is the slope of survival rate over generations, in
// percentage points per generation. Positive means selection is working.
func computeQuality(rates []float64) float64 {
	if len(rates) < 2 {
		return 0
	}
	gens := make([]float64, len(rates))
	for i := range gens {
		gens[i] = float64(i)
	}
	_, slope := stat.LinearRegression(gens, rates, nil, false)
	if math.IsNaN(slope) {
		return 0
	}
	return slope
}
