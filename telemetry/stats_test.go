package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/gridevo/neural"
)

func TestComputeDistribution(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, p10, p50, p90 := ComputeDistribution(values)

	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if p10 != 1 || p50 != 5 || p90 != 9 {
		t.Errorf("percentiles = %v, %v, %v, want 1, 5, 9", p10, p50, p90)
	}
	if values[0] != 10 {
		t.Error("input slice was reordered")
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeDistribution(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestComputeGenerationStats(t *testing.T) {
	a := neural.FixedGenome(4, 0, 0)
	b := neural.FixedGenome(4, 1, 0)

	s := ComputeGenerationStats(GenerationInput{
		Generation: 3,
		Steps:      300,
		Survivors:  1,
		Rows:       []float64{0, 0.5, 1, 1},
		Pheromone:  []float64{0, 0, 4, 4},
		Genomes:    []neural.Genome{a, b, a.Clone(), b},
	})

	if s.Population != 4 || s.Survivors != 1 {
		t.Errorf("population/survivors = %d/%d", s.Population, s.Survivors)
	}
	if s.SurvivalRate != 25 {
		t.Errorf("survival rate = %v, want 25", s.SurvivalRate)
	}
	if s.DistinctGenomes != 2 {
		t.Errorf("distinct genomes = %d, want 2", s.DistinctGenomes)
	}
	if s.PheromoneMean != 2 || s.PheromoneMax != 4 || s.PheromoneCoverage != 0.5 {
		t.Errorf("pheromone = mean %v max %v coverage %v", s.PheromoneMean, s.PheromoneMax, s.PheromoneCoverage)
	}
	// sample standard deviation of {0,0,4,4}
	if want := math.Sqrt(16.0 / 3); math.Abs(s.PheromoneStd-want) > 1e-9 {
		t.Errorf("pheromone std = %v, want %v", s.PheromoneStd, want)
	}
}

func TestComputeGenerationStatsEmptyPopulation(t *testing.T) {
	s := ComputeGenerationStats(GenerationInput{Generation: 1})
	if s.SurvivalRate != 0 || s.DistinctGenomes != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestHistory(t *testing.T) {
	var h History
	if _, ok := h.Last(); ok {
		t.Error("empty history has a last entry")
	}

	h.Record(GenerationStats{Generation: 0, SurvivalRate: 10})
	h.Record(GenerationStats{Generation: 1, SurvivalRate: 20})
	h.Record(GenerationStats{Generation: 1, SurvivalRate: 30})

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	if s, ok := h.Get(1); !ok || s.SurvivalRate != 30 {
		t.Errorf("Get(1) = %+v, %v", s, ok)
	}
	if _, ok := h.Get(5); ok {
		t.Error("Get(5) found an entry")
	}
	rates := h.SurvivalRates()
	if len(rates) != 2 || rates[0] != 10 || rates[1] != 30 {
		t.Errorf("SurvivalRates() = %v", rates)
	}

	h.Clear()
	if h.Len() != 0 {
		t.Error("Clear left entries")
	}
}
