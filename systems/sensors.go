package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/gridevo/components"
	"github.com/pthm-cable/gridevo/neural"
)

// ReadSensor returns the reading of sensor s for ind. Every sensor is
// defined for every tile, so ReadSensor never panics for an individual
// standing on the grid.
func ReadSensor(w *World, ind *components.Individual, s neural.Sensor) float64 {
	size := w.grid.size
	c := w.grid.IndexToCoord(ind.GridIndex)

	switch s {
	case neural.SensorLocX:
		return normalizeAxis(c.X, size.X)
	case neural.SensorLocY:
		return normalizeAxis(c.Y, size.Y)
	case neural.SensorBorderDistX:
		return 1 - math.Abs(normalizeAxis(c.X, size.X))
	case neural.SensorBorderDistY:
		return 1 - math.Abs(normalizeAxis(c.Y, size.Y))
	case neural.SensorBlockedForward:
		if w.IsDirEmpty(ind.GridIndex, ind.Forward) {
			return 0
		}
		return 1
	case neural.SensorRandom:
		// Global source: safe across workers, and not meant to be reproducible.
		return rand.Float64()*2 - 1
	case neural.SensorConstant:
		return 1
	case neural.SensorPheromone:
		return float64(w.grid.tiles[ind.GridIndex].Pheromone) / math.MaxUint8
	}
	return 0
}

// normalizeAxis maps 0..n-1 onto [-1, 1]. A one-tile axis reads 0.
func normalizeAxis(v, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(v)/float64(n-1)*2 - 1
}

// SensorReader binds a world and an individual to neural.SensorReader.
// It only reads the world and is safe to use from many goroutines at once.
type SensorReader struct {
	World      *World
	Individual *components.Individual
}

// Read implements neural.SensorReader.
func (r SensorReader) Read(s neural.Sensor) float64 {
	return ReadSensor(r.World, r.Individual, s)
}
