// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gridevo/neural"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Survival criterion kinds accepted in survival.kind.
const (
	SurvivalTopPart           = "top_part"
	SurvivalBottomPart        = "bottom_part"
	SurvivalBorder            = "border"
	SurvivalCenter            = "center"
	SurvivalNoPheromones      = "no_pheromones"
	SurvivalRequirePheromones = "require_pheromones"
)

// SurvivalKinds lists every accepted survival.kind.
var SurvivalKinds = []string{
	SurvivalTopPart,
	SurvivalBottomPart,
	SurvivalBorder,
	SurvivalCenter,
	SurvivalNoPheromones,
	SurvivalRequirePheromones,
}

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Genome     GenomeConfig     `yaml:"genome"`
	Neural     NeuralConfig     `yaml:"neural"`
	Generation GenerationConfig `yaml:"generation"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Survival   SurvivalConfig   `yaml:"survival"`
	Sensors    []string         `yaml:"sensors"`
	Actions    []string         `yaml:"actions"`
	Pheromone  PheromoneConfig  `yaml:"pheromone"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions in tiles.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds population parameters.
type PopulationConfig struct {
	Size int `yaml:"size"` // individuals per generation
}

// GenomeConfig holds genome parameters.
type GenomeConfig struct {
	Length int `yaml:"length"` // genes per genome
}

// NeuralConfig holds network parameters.
type NeuralConfig struct {
	HiddenNeurons int `yaml:"hidden_neurons"`
}

// GenerationConfig holds generation timing.
type GenerationConfig struct {
	Steps int `yaml:"steps"` // steps per generation
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate float64 `yaml:"rate"` // per-gene probability of one bit flip
}

// SurvivalConfig selects the survival criterion.
type SurvivalConfig struct {
	Kind     string  `yaml:"kind"`
	Fraction float64 `yaml:"fraction"` // top_part, bottom_part, border
	CenterX  int     `yaml:"center_x"` // center
	CenterY  int     `yaml:"center_y"` // center
	Radius   float64 `yaml:"radius"`   // center
}

// PheromoneConfig holds pheromone emission and decay.
type PheromoneConfig struct {
	Radius  int     `yaml:"radius"`  // emission disk radius in tiles
	Base    float64 `yaml:"base"`    // level added at the emitter's tile
	Falloff float64 `yaml:"falloff"` // exp(-d²/falloff)
	Decay   int     `yaml:"decay"`   // decrement per tile per step
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"` // below this many individuals, evaluate serially
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // steps per perf rolling window
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	Sensors []neural.Sensor // parsed Sensors
	Actions []neural.Action // parsed Actions
	Cells   int             // World.Width * World.Height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; lists are replaced.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every parameter and recomputes Derived. Call it again
// after editing a Config by hand.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.World.Width <= 0 || c.World.Height <= 0 {
		return invalid("world size %dx%d must be positive", c.World.Width, c.World.Height)
	}
	cells := c.World.Width * c.World.Height
	if c.Population.Size <= 0 {
		return invalid("population.size %d must be positive", c.Population.Size)
	}
	if c.Population.Size > cells {
		return invalid("population.size %d exceeds %d grid cells", c.Population.Size, cells)
	}
	if c.Genome.Length < 0 {
		return invalid("genome.length %d is negative", c.Genome.Length)
	}
	if c.Neural.HiddenNeurons < 0 {
		return invalid("neural.hidden_neurons %d is negative", c.Neural.HiddenNeurons)
	}
	if c.Generation.Steps <= 0 {
		return invalid("generation.steps %d must be positive", c.Generation.Steps)
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		return invalid("mutation.rate %g outside [0, 1]", c.Mutation.Rate)
	}
	if err := c.validateSurvival(); err != nil {
		return invalid("%v", err)
	}
	if c.Pheromone.Radius < 0 || c.Pheromone.Falloff <= 0 {
		return invalid("pheromone radius %d / falloff %g", c.Pheromone.Radius, c.Pheromone.Falloff)
	}
	if c.Pheromone.Base < 0 || c.Pheromone.Base > 255 {
		return invalid("pheromone.base %g outside [0, 255]", c.Pheromone.Base)
	}
	if c.Pheromone.Decay < 0 || c.Pheromone.Decay > 255 {
		return invalid("pheromone.decay %d outside [0, 255]", c.Pheromone.Decay)
	}
	if c.Parallel.Threshold < 0 || c.Parallel.Workers < 0 {
		return invalid("parallel threshold %d / workers %d", c.Parallel.Threshold, c.Parallel.Workers)
	}

	sensors, err := neural.ParseSensors(c.Sensors)
	if err != nil {
		return invalid("sensors: %v", err)
	}
	actions, err := neural.ParseActions(c.Actions)
	if err != nil {
		return invalid("actions: %v", err)
	}

	c.computeDerived(sensors, actions)
	return nil
}

func (c *Config) validateSurvival() error {
	s := c.Survival
	known := false
	for _, k := range SurvivalKinds {
		if s.Kind == k {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("survival.kind %q (want one of %v)", s.Kind, SurvivalKinds)
	}
	switch s.Kind {
	case SurvivalTopPart, SurvivalBottomPart, SurvivalBorder:
		if s.Fraction < 0 || s.Fraction > 1 {
			return fmt.Errorf("survival.fraction %g outside [0, 1]", s.Fraction)
		}
	case SurvivalCenter:
		if s.Radius < 0 {
			return fmt.Errorf("survival.radius %g is negative", s.Radius)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived(sensors []neural.Sensor, actions []neural.Action) {
	c.Derived.Sensors = sensors
	c.Derived.Actions = actions
	c.Derived.Cells = c.World.Width * c.World.Height
	if c.Telemetry.PerfWindow <= 0 {
		c.Telemetry.PerfWindow = 300
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Sensors = append([]string(nil), c.Sensors...)
	out.Actions = append([]string(nil), c.Actions...)
	out.Derived.Sensors = append([]neural.Sensor(nil), c.Derived.Sensors...)
	out.Derived.Actions = append([]neural.Action(nil), c.Derived.Actions...)
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
