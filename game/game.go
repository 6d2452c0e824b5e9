// Package game runs the generational simulation: it owns the world, one
// brain per individual slot, and the step/transition state machine.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/gridevo/components"
	"github.com/pthm-cable/gridevo/config"
	"github.com/pthm-cable/gridevo/neural"
	"github.com/pthm-cable/gridevo/systems"
	"github.com/pthm-cable/gridevo/telemetry"
)

var (
	// ErrNoSurvivors is returned when a generation ends with nobody meeting
	// the survival criterion. The simulation is left at the end of that
	// generation and cannot advance.
	ErrNoSurvivors = errors.New("no survivors")
	// ErrNotInitialized is returned by Step before InitializeFirstGeneration.
	ErrNotInitialized = errors.New("simulation not initialized")
)

// bookmarkHistory is how many generations the bookmark detector remembers.
const bookmarkHistory = 10

// Options configures a Simulation beyond its Config.
type Options struct {
	Seed   int64        // RNG seed (0 = time-based)
	Logger *slog.Logger // nil = slog.Default()

	// Telemetry
	LogStats     bool                           // log every completed generation
	Perf         bool                           // collect per-phase step timing
	Output       *telemetry.OutputManager       // CSV output, may be nil
	OnGeneration func(telemetry.GenerationStats) // called once per completed generation
}

// Simulation is a grid world of individuals evolving under a survival
// criterion. It is not safe for concurrent use; Step parallelizes
// internally.
type Simulation struct {
	cfg       *config.Config
	rng       *rand.Rand
	seed      int64
	logger    *slog.Logger
	world     *systems.World
	criterion systems.Criterion
	emit      systems.EmitParams
	decay     uint8

	// brains[slot] is rebuilt whenever the slot's genome changes.
	brains []*neural.Network

	// State
	generation   int
	step         int
	mutatedGenes int // bit flips that produced the current generation
	initialized  bool
	genomeFunc   neural.GenomeFunc
	ended        *generationEnd

	parallel *parallelState

	// Telemetry
	history      telemetry.History
	bookmarks    *telemetry.BookmarkDetector
	marks        []telemetry.Bookmark
	perf         *telemetry.PerfCollector
	output       *telemetry.OutputManager
	logStats     bool
	onGeneration func(telemetry.GenerationStats)
}

// generationEnd memoizes the survivor set and stats of a completed generation.
type generationEnd struct {
	generation int
	survivors  []int
	stats      telemetry.GenerationStats
}

// New builds a simulation from cfg (nil = defaults). The world is empty
// until InitializeFirstGeneration.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	criterion, err := systems.ParseCriterion(cfg.Survival)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Simulation{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		seed:      seed,
		logger:    logger,
		world:     systems.NewWorld(components.Coord{X: cfg.World.Width, Y: cfg.World.Height}),
		criterion: criterion,
		emit: systems.EmitParams{
			Radius:  cfg.Pheromone.Radius,
			Base:    cfg.Pheromone.Base,
			Falloff: cfg.Pheromone.Falloff,
		},
		decay:        uint8(cfg.Pheromone.Decay),
		parallel:     newParallelState(cfg.Parallel.Workers, cfg.Parallel.Threshold),
		bookmarks:    telemetry.NewBookmarkDetector(bookmarkHistory),
		output:       opts.Output,
		logStats:     opts.LogStats,
		onGeneration: opts.OnGeneration,
	}
	if opts.Perf {
		s.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	s.logger.Debug("simulation created",
		"seed", seed,
		"world", fmt.Sprintf("%dx%d", cfg.World.Width, cfg.World.Height),
		"population", cfg.Population.Size,
		"criterion", criterion.String(),
		"workers", s.parallel.numWorkers,
	)
	return s, nil
}

// Close stops the worker pool. The simulation must not be stepped afterwards.
func (s *Simulation) Close() {
	s.stopParallelWorkers()
}

// World returns the live world. Callers must not mutate it.
func (s *Simulation) World() *systems.World { return s.world }

// Config returns the simulation's own copy of its configuration.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Criterion returns the active survival criterion.
func (s *Simulation) Criterion() systems.Criterion { return s.criterion }

// Seed returns the RNG seed in use.
func (s *Simulation) Seed() int64 { return s.seed }

// Generation returns the current generation number, starting at 0.
func (s *Simulation) Generation() int { return s.generation }

// StepIndex returns the number of steps taken in the current generation.
func (s *Simulation) StepIndex() int { return s.step }

// PopulationCount returns the number of individuals alive.
func (s *Simulation) PopulationCount() int { return s.world.Population() }

// Brain returns the network of slot.
func (s *Simulation) Brain(slot int) *neural.Network { return s.brains[slot] }

// History returns the per-generation stats recorded so far.
func (s *Simulation) History() []telemetry.GenerationStats { return s.history.All() }

// Bookmarks returns the notable generations detected so far.
func (s *Simulation) Bookmarks() []telemetry.Bookmark { return s.marks }

// Perf returns step timing over the current window. Zero unless
// Options.Perf was set.
func (s *Simulation) Perf() telemetry.PerfStats { return s.perf.Stats() }

// SurvivingIndexes returns the slots that would survive if the generation
// ended now.
func (s *Simulation) SurvivingIndexes() []int {
	return systems.SurvivingIndexes(s.world, s.criterion)
}

// SurviveCells returns every coordinate the criterion accepts. It walks the
// whole grid and is meant for display.
func (s *Simulation) SurviveCells() []components.Coord {
	return systems.SurviveCells(s.world, s.criterion)
}

// LastSurvivalRate returns the percentage of the population that survived
// the most recently completed generation, or 0 if none has completed. The
// value is computed once per generation.
func (s *Simulation) LastSurvivalRate() float64 {
	if end, ok := s.completedGeneration(); ok {
		return end.stats.SurvivalRate
	}
	if st, ok := s.history.Get(s.generation - 1); ok {
		return st.SurvivalRate
	}
	return 0
}
