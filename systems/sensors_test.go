package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/gridevo/components"
	"github.com/pthm-cable/gridevo/neural"
)

func TestLocationSensors(t *testing.T) {
	size := components.Coord{X: 11, Y: 21}
	tests := []struct {
		at                           components.Coord
		locX, locY, borderX, borderY float64
	}{
		{components.Coord{X: 0, Y: 0}, -1, -1, 0, 0},
		{components.Coord{X: 10, Y: 20}, 1, 1, 0, 0},
		{components.Coord{X: 5, Y: 10}, 0, 0, 1, 1},
		{components.Coord{X: 0, Y: 10}, -1, 0, 0, 1},
	}
	for _, tt := range tests {
		w := newTestWorld(t, size, tt.at)
		ind := w.Individual(0)
		check := func(s neural.Sensor, want float64) {
			if got := ReadSensor(w, ind, s); math.Abs(got-want) > 1e-9 {
				t.Errorf("%v at %v = %v, want %v", s, tt.at, got, want)
			}
		}
		check(neural.SensorLocX, tt.locX)
		check(neural.SensorLocY, tt.locY)
		check(neural.SensorBorderDistX, tt.borderX)
		check(neural.SensorBorderDistY, tt.borderY)
	}
}

func TestBlockedForward(t *testing.T) {
	size := components.Coord{X: 4, Y: 4}
	w := newTestWorld(t, size, components.Coord{X: 0, Y: 0}, components.Coord{X: 0, Y: 1}, components.Coord{X: 2, Y: 2})

	w.Individual(0).Forward = components.DirDown // occupied
	w.Individual(1).Forward = components.DirLeft // off grid
	w.Individual(2).Forward = components.DirUp   // free

	want := []float64{1, 1, 0}
	for slot, v := range want {
		if got := ReadSensor(w, w.Individual(slot), neural.SensorBlockedForward); got != v {
			t.Errorf("slot %d blocked_forward = %v, want %v", slot, got, v)
		}
	}
}

func TestConstantRandomPheromoneSensors(t *testing.T) {
	w := newTestWorld(t, components.Coord{X: 4, Y: 4}, components.Coord{X: 1, Y: 1})
	ind := w.Individual(0)

	if got := ReadSensor(w, ind, neural.SensorConstant); got != 1 {
		t.Errorf("constant = %v, want 1", got)
	}
	for i := 0; i < 1000; i++ {
		if got := ReadSensor(w, ind, neural.SensorRandom); got < -1 || got >= 1 {
			t.Fatalf("random = %v, out of [-1, 1)", got)
		}
	}

	w.Grid().IncrementPheromone(ind.GridIndex, 255)
	if got := ReadSensor(w, ind, neural.SensorPheromone); got != 1 {
		t.Errorf("pheromone = %v, want 1", got)
	}
}

func TestSensorsTotal(t *testing.T) {
	w := newTestWorld(t, components.Coord{X: 1, Y: 1}, components.Coord{X: 0, Y: 0})
	r := SensorReader{World: w, Individual: w.Individual(0)}
	for _, s := range neural.AllSensors() {
		v := r.Read(s)
		if math.IsNaN(v) || v < -1 || v > 1 {
			t.Errorf("%v on a 1x1 grid = %v", s, v)
		}
	}
}
