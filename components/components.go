// Package components defines the plain data types shared by the simulation.
package components

import (
	"fmt"

	"github.com/pthm-cable/gridevo/neural"
)

// Coord is a row-major grid address.
type Coord struct {
	X, Y int
}

// Index returns the flat tile index of c in a grid of the given width.
func (c Coord) Index(width int) int {
	return c.Y*width + c.X
}

// CoordOf is the inverse of Coord.Index.
func CoordOf(index, width int) Coord {
	return Coord{X: index % width, Y: index / width}
}

// InBounds reports whether c lies inside a grid of the given size.
func (c Coord) InBounds(size Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < size.X && c.Y < size.Y
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Dir is one of the four cardinal directions. Up is towards row 0.
type Dir uint8

const (
	DirUp Dir = iota
	DirDown
	DirLeft
	DirRight
)

// Delta returns the unit step for d.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return fmt.Sprintf("dir(%d)", uint8(d))
}

// Tile is one grid cell. The zero value is empty with no pheromone.
type Tile struct {
	occupant  uint32 // slot+1, 0 = empty
	Pheromone uint8
}

// Occupant returns the slot of the individual on the tile, if any.
func (t Tile) Occupant() (int, bool) {
	if t.occupant == 0 {
		return 0, false
	}
	return int(t.occupant - 1), true
}

// IsEmpty reports whether no individual stands on the tile.
func (t Tile) IsEmpty() bool {
	return t.occupant == 0
}

// SetOccupant records slot as the tile's occupant.
func (t *Tile) SetOccupant(slot int) {
	t.occupant = uint32(slot) + 1
}

// ClearOccupant marks the tile empty.
func (t *Tile) ClearOccupant() {
	t.occupant = 0
}

// Individual is one agent. Slot is its stable index in the world's
// population for the current generation.
type Individual struct {
	Genome    neural.Genome
	GridIndex int
	Slot      int
	Forward   Dir
}
