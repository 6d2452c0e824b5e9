package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/gridevo/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestClampBoundsAndRounds(t *testing.T) {
	pv := NewParamVector()
	v := []float64{-1, 100.4, 3.6, 1000, -5}
	got := pv.Clamp(v)
	want := []float64{0.0005, 64, 4, 60, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyExtract(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	pv.ApplyToConfig(cfg, []float64{0.02, 12.2, 7.8, 25, 2})

	if err := cfg.Validate(); err != nil {
		t.Fatalf("applied config is invalid: %v", err)
	}
	got := pv.ExtractFromConfig(cfg)
	want := []float64{0.02, 12, 8, 25, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	fromCfg := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if fromCfg[i] != spec.Default {
			t.Errorf("%s: default %v, config has %v", spec.Name, spec.Default, fromCfg[i])
		}
	}
}

func TestComputeQuality(t *testing.T) {
	tests := []struct {
		name  string
		rates []float64
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 0},
		{"flat", []float64{10, 10, 10}, 0},
		{"rising", []float64{10, 12, 14, 16}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeQuality(tt.rates); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFitnessPenalizesExtinction(t *testing.T) {
	fe := &FitnessEvaluator{generations: 10}
	alive := fe.computeFitness(runResult{rates: []float64{20, 20, 20, 20, 20}})
	extinct := fe.computeFitness(runResult{rates: []float64{20, 20, 20, 20, 20}, extinct: true})
	if alive != -20 {
		t.Errorf("alive fitness = %v, want -20", alive)
	}
	if extinct != -10 {
		t.Errorf("extinct fitness = %v, want -10", extinct)
	}
}
