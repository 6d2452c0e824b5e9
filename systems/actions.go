package systems

import (
	"math"

	"github.com/pthm-cable/gridevo/components"
	"github.com/pthm-cable/gridevo/neural"
)

// ActivationThreshold is the |weight| an activation must exceed to act.
const ActivationThreshold = 0.2

// EmitParams shapes a pheromone deposit.
type EmitParams struct {
	Radius  int     // disk radius in tiles
	Base    float64 // level added on the emitter's own tile
	Falloff float64 // divisor of squared distance in the exponent
}

// DefaultEmitParams deposits 10 at the origin and 1 at five tiles away.
func DefaultEmitParams() EmitParams {
	return EmitParams{Radius: 5, Base: 10, Falloff: 10}
}

// PerformAction applies one activation to the world. Reports whether the
// world changed.
func PerformAction(w *World, act neural.Activation, emit EmitParams) bool {
	if act.Slot < 0 || act.Slot >= len(w.individuals) {
		return false
	}
	if math.Abs(act.Weight) <= ActivationThreshold {
		return false
	}

	switch act.Action {
	case neural.ActionMoveForward:
		return w.MoveIndividual(act.Slot, w.individuals[act.Slot].Forward)
	case neural.ActionMoveX:
		if act.Weight > 0 {
			return w.MoveIndividual(act.Slot, components.DirRight)
		}
		return w.MoveIndividual(act.Slot, components.DirLeft)
	case neural.ActionMoveY:
		if act.Weight > 0 {
			return w.MoveIndividual(act.Slot, components.DirUp)
		}
		return w.MoveIndividual(act.Slot, components.DirDown)
	case neural.ActionEmitPheromone:
		EmitPheromone(w.grid, w.individuals[act.Slot].GridIndex, emit)
		return true
	case neural.ActionSetOscPeriod, neural.ActionSetResponsiveness:
		// Reserved outputs; no world effect yet.
		return false
	}
	return false
}

// EmitPheromone adds round(Base*exp(-d²/Falloff)) to every in-bounds tile
// within Radius of origin.
func EmitPheromone(g *Grid, origin int, p EmitParams) {
	if p.Radius < 0 || p.Falloff <= 0 {
		return
	}
	c := g.IndexToCoord(origin)
	r2 := p.Radius * p.Radius

	for dy := -p.Radius; dy <= p.Radius; dy++ {
		for dx := -p.Radius; dx <= p.Radius; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			t := components.Coord{X: c.X + dx, Y: c.Y + dy}
			if !t.InBounds(g.size) {
				continue
			}
			amount := math.Round(p.Base * math.Exp(-float64(d2)/p.Falloff))
			if amount <= 0 {
				continue
			}
			if amount > math.MaxUint8 {
				amount = math.MaxUint8
			}
			g.IncrementPheromone(g.CoordToIndex(t), uint8(amount))
		}
	}
}
