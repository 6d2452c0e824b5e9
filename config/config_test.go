package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/gridevo/neural"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.World.Width != 128 || cfg.World.Height != 128 {
		t.Errorf("world = %dx%d, want 128x128", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Population.Size != 1000 {
		t.Errorf("population.size = %d, want 1000", cfg.Population.Size)
	}
	if cfg.Survival.Kind != SurvivalTopPart || cfg.Survival.Fraction != 0.1 {
		t.Errorf("survival = %+v", cfg.Survival)
	}
	if len(cfg.Derived.Sensors) != len(neural.AllSensors()) {
		t.Errorf("derived sensors = %v", cfg.Derived.Sensors)
	}
	if len(cfg.Derived.Actions) != len(neural.AllActions()) {
		t.Errorf("derived actions = %v", cfg.Derived.Actions)
	}
	if cfg.Derived.Cells != 128*128 {
		t.Errorf("derived cells = %d", cfg.Derived.Cells)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte(`
population:
  size: 50
survival:
  kind: center
  radius: 8
sensors: [constant, loc_x]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Population.Size != 50 {
		t.Errorf("population.size = %d, want 50", cfg.Population.Size)
	}
	if cfg.Genome.Length != 16 {
		t.Errorf("genome.length = %d, want default 16", cfg.Genome.Length)
	}
	if cfg.Survival.Kind != SurvivalCenter || cfg.Survival.Radius != 8 || cfg.Survival.CenterX != 64 {
		t.Errorf("survival = %+v", cfg.Survival)
	}
	want := []neural.Sensor{neural.SensorConstant, neural.SensorLocX}
	if len(cfg.Derived.Sensors) != 2 || cfg.Derived.Sensors[0] != want[0] || cfg.Derived.Sensors[1] != want[1] {
		t.Errorf("derived sensors = %v, want %v", cfg.Derived.Sensors, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"population exceeds cells", func(c *Config) { c.World.Width, c.World.Height = 4, 4; c.Population.Size = 17 }},
		{"zero population", func(c *Config) { c.Population.Size = 0 }},
		{"zero steps", func(c *Config) { c.Generation.Steps = 0 }},
		{"mutation above one", func(c *Config) { c.Mutation.Rate = 1.5 }},
		{"unknown survival", func(c *Config) { c.Survival.Kind = "tallest" }},
		{"fraction above one", func(c *Config) { c.Survival.Fraction = 2 }},
		{"unknown sensor", func(c *Config) { c.Sensors = append(c.Sensors, "sonar") }},
		{"unknown action", func(c *Config) { c.Actions = []string{"fly"} }},
		{"zero falloff", func(c *Config) { c.Pheromone.Falloff = 0 }},
		{"decay overflow", func(c *Config) { c.Pheromone.Decay = 256 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Mutation.Rate = 0.05
	cfg.Actions = []string{"move_x"}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Mutation.Rate != 0.05 || len(back.Derived.Actions) != 1 {
		t.Errorf("round trip = %+v", back)
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()
	cp.Sensors[0] = "random"
	cp.Derived.Sensors[0] = neural.SensorRandom
	if cfg.Sensors[0] != "loc_x" || cfg.Derived.Sensors[0] != neural.SensorLocX {
		t.Error("Clone shares slices with the original")
	}
}

func TestCfgAfterInit(t *testing.T) {
	MustInit("")
	if Cfg().Generation.Steps != 300 {
		t.Errorf("Cfg().Generation.Steps = %d, want 300", Cfg().Generation.Steps)
	}
}
