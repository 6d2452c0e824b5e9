// Package main provides CMA-ES optimization of evolution parameters.
package main

import (
	"math"

	"github.com/pthm-cable/gridevo/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Genetics
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.0005, Max: 0.1, Default: 0.01},
			{Name: "genome_length", Path: "genome.length", Min: 4, Max: 64, Default: 16, Integer: true},
			{Name: "hidden_neurons", Path: "neural.hidden_neurons", Min: 0, Max: 16, Default: 4, Integer: true},
			// Pheromone field
			{Name: "pheromone_base", Path: "pheromone.base", Min: 1, Max: 60, Default: 10},
			{Name: "pheromone_decay", Path: "pheromone.decay", Min: 0, Max: 8, Default: 1, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Mutation.Rate = clamped[0]
	cfg.Genome.Length = int(clamped[1])
	cfg.Neural.HiddenNeurons = int(clamped[2])
	cfg.Pheromone.Base = clamped[3]
	cfg.Pheromone.Decay = int(clamped[4])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Mutation.Rate,
		float64(cfg.Genome.Length),
		float64(cfg.Neural.HiddenNeurons),
		cfg.Pheromone.Base,
		float64(cfg.Pheromone.Decay),
	}
}
