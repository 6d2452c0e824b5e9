package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/gridevo/config"
	"github.com/pthm-cable/gridevo/game"
	"github.com/pthm-cable/gridevo/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := flag.Int("generations", 100, "Stop after N generations (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output per-generation stats via slog")
	perf := flag.Bool("perf", false, "Collect and log per-phase step timing")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	if output != nil {
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
			os.Exit(1)
		}
	}

	sim, err := game.New(cfg, game.Options{
		Seed:     rngSeed,
		Logger:   logger,
		LogStats: *logStats,
		Perf:     *perf,
		Output:   output,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer sim.Close()

	if err := sim.InitializeFirstGeneration(nil); err != nil {
		slog.Error("failed to initialize population", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"generations", *generations,
		"criterion", sim.Criterion().String(),
	)

	start := time.Now()
	for *generations == 0 || sim.Generation() < *generations {
		if err := sim.RunGeneration(); err != nil {
			if errors.Is(err, game.ErrNoSurvivors) {
				slog.Warn("population went extinct", "generation", sim.Generation(), "error", err)
				break
			}
			slog.Error("simulation failed", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("simulation finished",
		"generation", sim.Generation(),
		"survival_rate", sim.LastSurvivalRate(),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
}
