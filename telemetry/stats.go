package telemetry

import (
	"encoding/binary"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridevo/neural"
)

// GenerationStats summarizes one completed generation, sampled after its
// last step and before survivors are resampled.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Steps      int `csv:"steps"`

	// Selection
	Population   int     `csv:"population"`
	Survivors    int     `csv:"survivors"`
	SurvivalRate float64 `csv:"survival_rate"` // percent, 0..100

	// Position distribution (row / (height-1), 0 = top)
	RowMean float64 `csv:"row_mean"`
	RowP10  float64 `csv:"row_p10"`
	RowP50  float64 `csv:"row_p50"`
	RowP90  float64 `csv:"row_p90"`

	// Pheromone field
	PheromoneMean     float64 `csv:"pheromone_mean"`
	PheromoneStd      float64 `csv:"pheromone_std"`
	PheromoneMax      float64 `csv:"pheromone_max"`
	PheromoneCoverage float64 `csv:"pheromone_coverage"` // fraction of tiles > 0

	// Genetic diversity
	DistinctGenomes int `csv:"distinct_genomes"`
	MutatedGenes    int `csv:"mutated_genes"` // bit flips that produced this generation
}

// GenerationInput is the raw material for ComputeGenerationStats.
type GenerationInput struct {
	Generation   int
	Steps        int
	Survivors    int
	MutatedGenes int
	Rows         []float64 // normalized row of every individual
	Pheromone    []float64 // level of every tile
	Genomes      []neural.Genome
}

// ComputeGenerationStats aggregates a generation's end state.
func ComputeGenerationStats(in GenerationInput) GenerationStats {
	s := GenerationStats{
		Generation:      in.Generation,
		Steps:           in.Steps,
		Population:      len(in.Genomes),
		Survivors:       in.Survivors,
		MutatedGenes:    in.MutatedGenes,
		DistinctGenomes: DistinctGenomes(in.Genomes),
	}
	if s.Population > 0 {
		s.SurvivalRate = float64(in.Survivors) / float64(s.Population) * 100
	}

	s.RowMean, s.RowP10, s.RowP50, s.RowP90 = ComputeDistribution(in.Rows)

	if len(in.Pheromone) > 0 {
		s.PheromoneMean, s.PheromoneStd = meanStd(in.Pheromone)
		nonzero := 0
		for _, v := range in.Pheromone {
			if v > s.PheromoneMax {
				s.PheromoneMax = v
			}
			if v > 0 {
				nonzero++
			}
		}
		s.PheromoneCoverage = float64(nonzero) / float64(len(in.Pheromone))
	}
	return s
}

// ComputeDistribution returns the mean and the 10th, 50th and 90th
// empirical percentiles of values. Empty input yields zeros.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) < 2 {
		return stat.Mean(values, nil), 0
	}
	return stat.MeanStdDev(values, nil)
}

// DistinctGenomes counts genomes that differ in at least one gene.
func DistinctGenomes(genomes []neural.Genome) int {
	seen := make(map[string]struct{}, len(genomes))
	var buf []byte
	for _, g := range genomes {
		buf = buf[:0]
		for _, gene := range g {
			buf = binary.LittleEndian.AppendUint32(buf, gene.Bits())
		}
		seen[string(buf)] = struct{}{}
	}
	return len(seen)
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("population", s.Population),
		slog.Int("survivors", s.Survivors),
		slog.Float64("survival_rate", s.SurvivalRate),
		slog.Float64("row_mean", s.RowMean),
		slog.Float64("row_p50", s.RowP50),
		slog.Float64("pheromone_mean", s.PheromoneMean),
		slog.Float64("pheromone_coverage", s.PheromoneCoverage),
		slog.Int("distinct_genomes", s.DistinctGenomes),
		slog.Int("mutated_genes", s.MutatedGenes),
	)
}

// History records GenerationStats by generation number.
type History struct {
	stats []GenerationStats
}

// Record appends s, replacing any earlier entry for the same generation.
func (h *History) Record(s GenerationStats) {
	if n := len(h.stats); n > 0 && h.stats[n-1].Generation == s.Generation {
		h.stats[n-1] = s
		return
	}
	h.stats = append(h.stats, s)
}

// Get returns the stats recorded for generation.
func (h *History) Get(generation int) (GenerationStats, bool) {
	i := sort.Search(len(h.stats), func(i int) bool { return h.stats[i].Generation >= generation })
	if i < len(h.stats) && h.stats[i].Generation == generation {
		return h.stats[i], true
	}
	return GenerationStats{}, false
}

// Last returns the most recent entry.
func (h *History) Last() (GenerationStats, bool) {
	if len(h.stats) == 0 {
		return GenerationStats{}, false
	}
	return h.stats[len(h.stats)-1], true
}

// Len returns the number of recorded generations.
func (h *History) Len() int { return len(h.stats) }

// All returns every entry in generation order.
func (h *History) All() []GenerationStats { return h.stats }

// SurvivalRates returns the survival rate of every entry in order.
func (h *History) SurvivalRates() []float64 {
	out := make([]float64, len(h.stats))
	for i, s := range h.stats {
		out[i] = s.SurvivalRate
	}
	return out
}

// Clear drops all entries.
func (h *History) Clear() { h.stats = h.stats[:0] }
