package systems

import (
	"testing"

	"github.com/pthm-cable/gridevo/components"
)

func TestPheromoneSaturates(t *testing.T) {
	g := NewGrid(components.Coord{X: 4, Y: 4})

	for i := 0; i < 100; i++ {
		g.IncrementPheromone(5, 7)
	}
	if got := g.Pheromone(5); got != 255 {
		t.Errorf("after increments: level = %d, want 255", got)
	}

	for i := 0; i < 100; i++ {
		g.DecrementPheromone(5, 7)
	}
	if got := g.Pheromone(5); got != 0 {
		t.Errorf("after decrements: level = %d, want 0", got)
	}
}

func TestDecayPheromones(t *testing.T) {
	g := NewGrid(components.Coord{X: 3, Y: 1})
	g.IncrementPheromone(0, 3)
	g.IncrementPheromone(1, 1)

	g.DecayPheromones(2)

	want := []uint8{1, 0, 0}
	for i, w := range want {
		if got := g.Pheromone(i); got != w {
			t.Errorf("tile %d: level = %d, want %d", i, got, w)
		}
	}
}

func TestGridClear(t *testing.T) {
	g := NewGrid(components.Coord{X: 5, Y: 5})
	for i := 0; i < g.Len(); i++ {
		g.IncrementPheromone(i, uint8(i+1))
		g.tiles[i].SetOccupant(i)
	}

	g.Clear()

	for i, tile := range g.Tiles() {
		if !tile.IsEmpty() || tile.Pheromone != 0 {
			t.Fatalf("tile %d not cleared: %+v", i, tile)
		}
	}
}

func TestGridIndexCoord(t *testing.T) {
	g := NewGrid(components.Coord{X: 20, Y: 10})
	for i := 0; i < g.Len(); i++ {
		if got := g.CoordToIndex(g.IndexToCoord(i)); got != i {
			t.Fatalf("round trip of %d = %d", i, got)
		}
	}
	if got := g.CoordToIndex(components.Coord{X: 5, Y: 1}); got != 25 {
		t.Errorf("CoordToIndex(5,1) = %d, want 25", got)
	}
}

func TestPheromoneLevels(t *testing.T) {
	g := NewGrid(components.Coord{X: 2, Y: 2})
	g.IncrementPheromone(3, 9)

	levels := g.PheromoneLevels(nil)
	if len(levels) != 4 || levels[3] != 9 || levels[0] != 0 {
		t.Errorf("levels = %v", levels)
	}
}
