package components

import "testing"

func TestCoordIndexRoundTrip(t *testing.T) {
	sizes := []Coord{{10, 10}, {20, 10}, {1, 7}, {128, 128}}
	for _, size := range sizes {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				c := Coord{X: x, Y: y}
				if got := CoordOf(c.Index(size.X), size.X); got != c {
					t.Fatalf("size %v: CoordOf(Index(%v)) = %v", size, c, got)
				}
			}
		}
	}
}

func TestCoordOf(t *testing.T) {
	if got := CoordOf(11, 10); got != (Coord{1, 1}) {
		t.Errorf("CoordOf(11, 10) = %v, want (1,1)", got)
	}
	if got := CoordOf(25, 20); got != (Coord{5, 1}) {
		t.Errorf("CoordOf(25, 20) = %v, want (5,1)", got)
	}
}

func TestTileOccupant(t *testing.T) {
	var tile Tile
	if !tile.IsEmpty() {
		t.Fatal("zero tile should be empty")
	}
	tile.SetOccupant(0)
	if slot, ok := tile.Occupant(); !ok || slot != 0 {
		t.Errorf("Occupant() = %d, %v, want 0, true", slot, ok)
	}
	tile.ClearOccupant()
	if _, ok := tile.Occupant(); ok {
		t.Error("tile should be empty after ClearOccupant")
	}
}

func TestDirDelta(t *testing.T) {
	tests := []struct {
		d      Dir
		dx, dy int
	}{
		{DirUp, 0, -1},
		{DirDown, 0, 1},
		{DirLeft, -1, 0},
		{DirRight, 1, 0},
	}
	for _, tt := range tests {
		dx, dy := tt.d.Delta()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%v.Delta() = (%d,%d), want (%d,%d)", tt.d, dx, dy, tt.dx, tt.dy)
		}
	}
}
