package systems

import (
	"math"

	"github.com/pthm-cable/gridevo/components"
)

// Grid is a fixed-size tile array holding occupancy and the pheromone field.
type Grid struct {
	size  components.Coord
	tiles []components.Tile
}

// NewGrid allocates size.X*size.Y empty tiles.
func NewGrid(size components.Coord) *Grid {
	return &Grid{
		size:  size,
		tiles: make([]components.Tile, size.X*size.Y),
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() components.Coord { return g.size }

// Len returns the number of tiles.
func (g *Grid) Len() int { return len(g.tiles) }

// Tile returns a copy of the tile at index.
func (g *Grid) Tile(index int) components.Tile { return g.tiles[index] }

// Tiles exposes the tile slice for read-only iteration.
func (g *Grid) Tiles() []components.Tile { return g.tiles }

// InBounds reports whether index addresses a tile.
func (g *Grid) InBounds(index int) bool { return index >= 0 && index < len(g.tiles) }

// CoordToIndex converts a coordinate to its tile index.
func (g *Grid) CoordToIndex(c components.Coord) int { return c.Index(g.size.X) }

// IndexToCoord converts a tile index to its coordinate.
func (g *Grid) IndexToCoord(index int) components.Coord {
	return components.CoordOf(index, g.size.X)
}

// IsEmpty reports whether no individual stands on the tile.
func (g *Grid) IsEmpty(index int) bool { return g.tiles[index].IsEmpty() }

// Pheromone returns the pheromone level at index.
func (g *Grid) Pheromone(index int) uint8 { return g.tiles[index].Pheromone }

// IncrementPheromone raises the level at index, saturating at 255.
func (g *Grid) IncrementPheromone(index int, inc uint8) {
	t := &g.tiles[index]
	if int(t.Pheromone)+int(inc) > math.MaxUint8 {
		t.Pheromone = math.MaxUint8
		return
	}
	t.Pheromone += inc
}

// DecrementPheromone lowers the level at index, flooring at 0.
func (g *Grid) DecrementPheromone(index int, dec uint8) {
	t := &g.tiles[index]
	if t.Pheromone < dec {
		t.Pheromone = 0
		return
	}
	t.Pheromone -= dec
}

// DecayPheromones decrements every tile once.
func (g *Grid) DecayPheromones(dec uint8) {
	if dec == 0 {
		return
	}
	for i := range g.tiles {
		t := &g.tiles[i]
		if t.Pheromone < dec {
			t.Pheromone = 0
		} else {
			t.Pheromone -= dec
		}
	}
}

// PheromoneLevels copies all pheromone levels into dst (resized as needed).
func (g *Grid) PheromoneLevels(dst []float64) []float64 {
	if cap(dst) < len(g.tiles) {
		dst = make([]float64, len(g.tiles))
	}
	dst = dst[:len(g.tiles)]
	for i, t := range g.tiles {
		dst[i] = float64(t.Pheromone)
	}
	return dst
}

// Clear zeroes occupancy and pheromone on every tile.
func (g *Grid) Clear() {
	clear(g.tiles)
}

// clearOccupancy empties every tile but keeps pheromone levels.
func (g *Grid) clearOccupancy() {
	for i := range g.tiles {
		g.tiles[i].ClearOccupant()
	}
}

// neighbor returns the tile index one step from index in dir, or false when
// that step leaves the grid. There is no wraparound.
func (g *Grid) neighbor(index int, dir components.Dir) (int, bool) {
	c := g.IndexToCoord(index)
	dx, dy := dir.Delta()
	next := components.Coord{X: c.X + dx, Y: c.Y + dy}
	if !next.InBounds(g.size) {
		return 0, false
	}
	return g.CoordToIndex(next), true
}
