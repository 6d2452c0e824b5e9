package game

import (
	"image/color"

	"github.com/pthm-cable/gridevo/components"
	"github.com/pthm-cable/gridevo/neural"
)

// Snapshot is a copy of everything a viewer needs to draw one frame. It
// shares no memory with the simulation.
type Snapshot struct {
	Generation   int
	Step         int
	Size         components.Coord
	Positions    []components.Coord // by slot
	Facing       []components.Dir   // by slot
	Colors       []color.RGBA       // by slot, from the genome
	Pheromone    []uint8            // by tile index
	SurvivalRate float64            // percent, last completed generation
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() Snapshot {
	grid := s.world.Grid()
	inds := s.world.Individuals()

	snap := Snapshot{
		Generation:   s.generation,
		Step:         s.step,
		Size:         grid.Size(),
		Positions:    make([]components.Coord, len(inds)),
		Facing:       make([]components.Dir, len(inds)),
		Colors:       make([]color.RGBA, len(inds)),
		Pheromone:    make([]uint8, grid.Len()),
		SurvivalRate: s.LastSurvivalRate(),
	}
	for i := range inds {
		snap.Positions[i] = grid.IndexToCoord(inds[i].GridIndex)
		snap.Facing[i] = inds[i].Forward
		snap.Colors[i] = neural.GenomeToRGB(inds[i].Genome)
	}
	for i, t := range grid.Tiles() {
		snap.Pheromone[i] = t.Pheromone
	}
	return snap
}
