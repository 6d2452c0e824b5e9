package systems

import (
	"errors"
	"strings"
	"testing"

	"github.com/pthm-cable/gridevo/components"
)

func newTestWorld(t *testing.T, size components.Coord, at ...components.Coord) *World {
	t.Helper()
	w := NewWorld(size)
	inds := make([]components.Individual, len(at))
	for i, c := range at {
		inds[i] = components.Individual{GridIndex: c.Index(size.X), Forward: components.DirDown}
	}
	if err := w.Reset(inds); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return w
}

func TestIsDirEmptyAtEdges(t *testing.T) {
	size := components.Coord{X: 4, Y: 4}
	w := newTestWorld(t, size, components.Coord{X: 0, Y: 0}, components.Coord{X: 1, Y: 1})

	tests := []struct {
		name  string
		from  components.Coord
		dir   components.Dir
		empty bool
	}{
		{"up off grid", components.Coord{X: 0, Y: 0}, components.DirUp, false},
		{"left off grid", components.Coord{X: 0, Y: 0}, components.DirLeft, false},
		{"right free", components.Coord{X: 0, Y: 0}, components.DirRight, true},
		{"down off grid", components.Coord{X: 3, Y: 3}, components.DirDown, false},
		{"right off grid", components.Coord{X: 3, Y: 3}, components.DirRight, false},
		{"into occupied", components.Coord{X: 1, Y: 0}, components.DirDown, false},
		{"no wraparound", components.Coord{X: 3, Y: 0}, components.DirRight, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.IsDirEmpty(tt.from.Index(size.X), tt.dir); got != tt.empty {
				t.Errorf("IsDirEmpty(%v, %v) = %v, want %v", tt.from, tt.dir, got, tt.empty)
			}
		})
	}
}

func TestMoveIndividual(t *testing.T) {
	size := components.Coord{X: 4, Y: 4}
	w := newTestWorld(t, size, components.Coord{X: 0, Y: 0}, components.Coord{X: 1, Y: 0})

	if w.MoveIndividual(0, components.DirUp) {
		t.Error("moved off the grid")
	}
	if w.MoveIndividual(0, components.DirRight) {
		t.Error("moved into an occupied tile")
	}
	if w.Individual(0).GridIndex != 0 {
		t.Fatalf("blocked moves changed GridIndex to %d", w.Individual(0).GridIndex)
	}

	if !w.MoveIndividual(0, components.DirDown) {
		t.Fatal("legal move refused")
	}
	want := components.Coord{X: 0, Y: 1}.Index(size.X)
	if got := w.Individual(0).GridIndex; got != want {
		t.Errorf("GridIndex = %d, want %d", got, want)
	}
	if !w.Grid().IsEmpty(0) {
		t.Error("origin tile still occupied")
	}
	if slot, ok := w.Grid().Tile(want).Occupant(); !ok || slot != 0 {
		t.Errorf("destination occupant = %d, %v", slot, ok)
	}
	if err := w.CheckInvariants(); err != nil {
		t.Error(err)
	}
}

func TestAddIndividual(t *testing.T) {
	w := NewWorld(components.Coord{X: 3, Y: 3})
	for i := 0; i < 3; i++ {
		slot := w.AddIndividual(components.Individual{GridIndex: i * 3})
		if slot != i {
			t.Errorf("slot = %d, want %d", slot, i)
		}
	}
	if w.Population() != 3 {
		t.Errorf("Population() = %d, want 3", w.Population())
	}
	if err := w.CheckInvariants(); err != nil {
		t.Error(err)
	}
}

func TestResetCollision(t *testing.T) {
	w := NewWorld(components.Coord{X: 4, Y: 4})
	inds := []components.Individual{{GridIndex: 5}, {GridIndex: 6}, {GridIndex: 5}}

	err := w.Reset(inds)
	if !errors.Is(err, ErrTileOccupied) {
		t.Fatalf("err = %v, want ErrTileOccupied", err)
	}
	if !strings.Contains(err.Error(), "slot 2") || !strings.Contains(err.Error(), "slot 0") {
		t.Errorf("diagnostic %q should name both slots", err)
	}
}

func TestResetOutOfBounds(t *testing.T) {
	w := NewWorld(components.Coord{X: 2, Y: 2})
	err := w.Reset([]components.Individual{{GridIndex: 4}})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestResetRederivesSlots(t *testing.T) {
	w := NewWorld(components.Coord{X: 4, Y: 4})
	inds := []components.Individual{{GridIndex: 3, Slot: 9}, {GridIndex: 7, Slot: 9}}
	if err := w.Reset(inds); err != nil {
		t.Fatal(err)
	}
	for i, ind := range w.Individuals() {
		if ind.Slot != i {
			t.Errorf("individual %d has slot %d", i, ind.Slot)
		}
	}
}

func TestResetVersusRepopulate(t *testing.T) {
	w := newTestWorld(t, components.Coord{X: 4, Y: 4}, components.Coord{X: 0, Y: 0})
	w.Grid().IncrementPheromone(10, 50)

	if err := w.Repopulate([]components.Individual{{GridIndex: 1}}); err != nil {
		t.Fatal(err)
	}
	if got := w.Grid().Pheromone(10); got != 50 {
		t.Errorf("Repopulate dropped pheromone: %d", got)
	}
	if !w.Grid().IsEmpty(0) {
		t.Error("Repopulate kept stale occupancy")
	}

	if err := w.Reset([]components.Individual{{GridIndex: 1}}); err != nil {
		t.Fatal(err)
	}
	if got := w.Grid().Pheromone(10); got != 0 {
		t.Errorf("Reset kept pheromone: %d", got)
	}
}
