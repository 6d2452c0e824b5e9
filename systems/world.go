// Package systems implements the grid world, sensors, actions and survival
// criteria that the simulation drives each step.
package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/gridevo/components"
)

var (
	// ErrTileOccupied is returned when two individuals are placed on one tile.
	ErrTileOccupied = errors.New("tile already occupied")
	// ErrOutOfBounds is returned when an individual's grid index is off the grid.
	ErrOutOfBounds = errors.New("grid index out of bounds")
)

// World is a Grid plus its population. Every occupied tile names the slot
// of the individual whose GridIndex points at it, and no two individuals
// share a tile.
type World struct {
	grid        *Grid
	individuals []components.Individual
}

// NewWorld creates an empty world of the given size.
func NewWorld(size components.Coord) *World {
	return &World{grid: NewGrid(size)}
}

// Grid returns the world's grid.
func (w *World) Grid() *Grid { return w.grid }

// Size returns the grid dimensions.
func (w *World) Size() components.Coord { return w.grid.size }

// Individuals returns the population indexed by slot. Callers must not
// modify the returned slice; use the World methods instead.
func (w *World) Individuals() []components.Individual { return w.individuals }

// Individual returns the individual in slot.
func (w *World) Individual(slot int) *components.Individual { return &w.individuals[slot] }

// Population returns the number of individuals.
func (w *World) Population() int { return len(w.individuals) }

// IsDirEmpty reports whether the tile one step from index in dir exists
// and is unoccupied.
func (w *World) IsDirEmpty(index int, dir components.Dir) bool {
	next, ok := w.grid.neighbor(index, dir)
	if !ok {
		return false
	}
	return w.grid.tiles[next].IsEmpty()
}

// MoveIndividual steps the individual in slot one tile in dir. It is a no-op
// when the destination is off the grid or occupied. Reports whether it moved.
func (w *World) MoveIndividual(slot int, dir components.Dir) bool {
	ind := &w.individuals[slot]
	next, ok := w.grid.neighbor(ind.GridIndex, dir)
	if !ok || !w.grid.tiles[next].IsEmpty() {
		return false
	}

	w.grid.tiles[ind.GridIndex].ClearOccupant()
	w.grid.tiles[next].SetOccupant(slot)
	ind.GridIndex = next
	return true
}

// AddIndividual appends ind with Slot set to the current population length
// and marks its tile occupied. The caller guarantees the tile is free.
func (w *World) AddIndividual(ind components.Individual) int {
	slot := len(w.individuals)
	ind.Slot = slot
	w.grid.tiles[ind.GridIndex].SetOccupant(slot)
	w.individuals = append(w.individuals, ind)
	return slot
}

// Reset clears the whole grid, occupancy and pheromone, then installs inds
// with slots re-derived from slice order.
func (w *World) Reset(inds []components.Individual) error {
	w.grid.Clear()
	return w.place(inds)
}

// Repopulate is Reset without clearing pheromone levels.
func (w *World) Repopulate(inds []components.Individual) error {
	w.grid.clearOccupancy()
	return w.place(inds)
}

func (w *World) place(inds []components.Individual) error {
	w.individuals = inds
	for i := range w.individuals {
		ind := &w.individuals[i]
		ind.Slot = i
		if !w.grid.InBounds(ind.GridIndex) {
			w.individuals = w.individuals[:i]
			return fmt.Errorf("%w: slot %d at index %d (grid has %d tiles)",
				ErrOutOfBounds, i, ind.GridIndex, w.grid.Len())
		}
		if holder, taken := w.grid.tiles[ind.GridIndex].Occupant(); taken {
			w.individuals = w.individuals[:i]
			return fmt.Errorf("%w: slot %d at %v collides with slot %d",
				ErrTileOccupied, i, w.grid.IndexToCoord(ind.GridIndex), holder)
		}
		w.grid.tiles[ind.GridIndex].SetOccupant(i)
	}
	return nil
}

// CheckInvariants verifies the occupancy bookkeeping. Intended for tests.
func (w *World) CheckInvariants() error {
	occupied := 0
	for i, t := range w.grid.tiles {
		slot, ok := t.Occupant()
		if !ok {
			continue
		}
		occupied++
		if slot >= len(w.individuals) {
			return fmt.Errorf("tile %d names missing slot %d", i, slot)
		}
		if w.individuals[slot].GridIndex != i {
			return fmt.Errorf("tile %d names slot %d, which stands on %d", i, slot, w.individuals[slot].GridIndex)
		}
	}
	if occupied != len(w.individuals) {
		return fmt.Errorf("%d occupied tiles for %d individuals", occupied, len(w.individuals))
	}
	return nil
}
