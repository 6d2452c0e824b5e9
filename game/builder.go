package game

import (
	"log/slog"

	"github.com/pthm-cable/gridevo/config"
	"github.com/pthm-cable/gridevo/neural"
)

// Builder assembles a Simulation from the embedded defaults plus
// overrides.
//
//	sim, err := game.NewBuilder(128, 128).
//		PopulationSize(500).
//		Survival(config.SurvivalConfig{Kind: config.SurvivalBorder, Fraction: 0.05}).
//		Build()
type Builder struct {
	cfg  *config.Config
	opts Options
}

// NewBuilder starts from config.Default() on a width x height grid.
func NewBuilder(width, height int) *Builder {
	cfg := config.Default()
	cfg.World.Width = width
	cfg.World.Height = height
	return &Builder{cfg: cfg}
}

func (b *Builder) PopulationSize(n int) *Builder {
	b.cfg.Population.Size = n
	return b
}

func (b *Builder) GenomeLength(n int) *Builder {
	b.cfg.Genome.Length = n
	return b
}

func (b *Builder) HiddenNeurons(n int) *Builder {
	b.cfg.Neural.HiddenNeurons = n
	return b
}

func (b *Builder) StepsPerGeneration(n int) *Builder {
	b.cfg.Generation.Steps = n
	return b
}

func (b *Builder) MutationRate(rate float64) *Builder {
	b.cfg.Mutation.Rate = rate
	return b
}

func (b *Builder) Survival(sc config.SurvivalConfig) *Builder {
	b.cfg.Survival = sc
	return b
}

// Sensors replaces the sensor list. Order matters: genes address sensors
// by position.
func (b *Builder) Sensors(sensors ...neural.Sensor) *Builder {
	b.cfg.Sensors = b.cfg.Sensors[:0]
	for _, s := range sensors {
		b.cfg.Sensors = append(b.cfg.Sensors, s.String())
	}
	return b
}

// Actions replaces the action list. Order matters: genes address actions
// by position.
func (b *Builder) Actions(actions ...neural.Action) *Builder {
	b.cfg.Actions = b.cfg.Actions[:0]
	for _, a := range actions {
		b.cfg.Actions = append(b.cfg.Actions, a.String())
	}
	return b
}

func (b *Builder) Pheromone(pc config.PheromoneConfig) *Builder {
	b.cfg.Pheromone = pc
	return b
}

func (b *Builder) Seed(seed int64) *Builder {
	b.opts.Seed = seed
	return b
}

func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.opts.Logger = l
	return b
}

// Options replaces every option set so far.
func (b *Builder) Options(opts Options) *Builder {
	b.opts = opts
	return b
}

// Config exposes the configuration under construction.
func (b *Builder) Config() *config.Config { return b.cfg }

// Build validates the configuration and creates the simulation.
func (b *Builder) Build() (*Simulation, error) {
	return New(b.cfg, b.opts)
}
