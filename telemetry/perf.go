package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one simulation step.
const (
	PhaseTransition = "transition"
	PhaseDecay      = "decay"
	PhaseSense      = "sense"
	PhaseApply      = "apply"
)

// Phases lists every step phase in execution order.
var Phases = []string{PhaseTransition, PhaseDecay, PhaseSense, PhaseApply}

// stepSample holds timing data for a single step.
type stepSample struct {
	total  time.Duration
	phases [4]time.Duration
}

// PerfCollector tracks step timing over a rolling window. It is not safe
// for concurrent use; the simulation calls it from the stepping goroutine.
type PerfCollector struct {
	windowSize  int
	samples     []stepSample
	writeIndex  int
	sampleCount int

	current    stepSample
	stepStart  time.Time
	phaseStart time.Time
	lastPhase  int // index into Phases, -1 when none
}

// NewPerfCollector creates a collector averaging over windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 300
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]stepSample, windowSize),
		lastPhase:  -1,
	}
}

// StartStep begins timing a new step.
func (p *PerfCollector) StartStep() {
	if p == nil {
		return
	}
	p.stepStart = time.Now()
	p.current = stepSample{}
	p.lastPhase = -1
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.lastPhase = phaseIndex(phase)
}

// EndStep finishes timing the current step and records the sample.
func (p *PerfCollector) EndStep() {
	if p == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.stepStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// WindowFull reports whether a whole window has been recorded since the
// last Reset.
func (p *PerfCollector) WindowFull() bool {
	return p != nil && p.sampleCount == p.windowSize
}

// Reset discards all samples.
func (p *PerfCollector) Reset() {
	if p == nil {
		return
	}
	p.writeIndex = 0
	p.sampleCount = 0
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.lastPhase >= 0 {
		p.current.phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.lastPhase = -1
}

func phaseIndex(phase string) int {
	for i, name := range Phases {
		if name == phase {
			return i
		}
	}
	return -1
}

// PerfStats holds aggregated step timing.
type PerfStats struct {
	Samples         int
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration

	// Average duration and share of step time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	StepsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration, len(Phases)),
		PhasePct: make(map[string]float64, len(Phases)),
	}
	if p == nil || p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	var phaseSum [4]time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.total
		if i == 0 || s.total < stats.MinStepDuration {
			stats.MinStepDuration = s.total
		}
		if s.total > stats.MaxStepDuration {
			stats.MaxStepDuration = s.total
		}
		for j, d := range s.phases {
			phaseSum[j] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.Samples = p.sampleCount
	stats.AvgStepDuration = total / n
	for j, name := range Phases {
		avg := phaseSum[j] / n
		stats.PhaseAvg[name] = avg
		if stats.AvgStepDuration > 0 {
			stats.PhasePct[name] = float64(avg) / float64(stats.AvgStepDuration) * 100
		}
	}
	if stats.AvgStepDuration > 0 {
		stats.StepsPerSecond = float64(time.Second) / float64(stats.AvgStepDuration)
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("samples", s.Samples),
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("min_step_us", s.MinStepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Generation    int     `csv:"generation"`
	Step          int     `csv:"step"`
	AvgStepUS     int64   `csv:"avg_step_us"`
	MinStepUS     int64   `csv:"min_step_us"`
	MaxStepUS     int64   `csv:"max_step_us"`
	StepsPerSec   float64 `csv:"steps_per_sec"`
	TransitionPct float64 `csv:"transition_pct"`
	DecayPct      float64 `csv:"decay_pct"`
	SensePct      float64 `csv:"sense_pct"`
	ApplyPct      float64 `csv:"apply_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(generation, step int) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:    generation,
		Step:          step,
		AvgStepUS:     s.AvgStepDuration.Microseconds(),
		MinStepUS:     s.MinStepDuration.Microseconds(),
		MaxStepUS:     s.MaxStepDuration.Microseconds(),
		StepsPerSec:   s.StepsPerSecond,
		TransitionPct: s.PhasePct[PhaseTransition],
		DecayPct:      s.PhasePct[PhaseDecay],
		SensePct:      s.PhasePct[PhaseSense],
		ApplyPct:      s.PhasePct[PhaseApply],
	}
}
