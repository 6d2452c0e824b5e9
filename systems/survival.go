package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/gridevo/components"
	"github.com/pthm-cable/gridevo/config"
)

// RequiredPheromone is the minimum level RequirePheromones accepts.
const RequiredPheromone = 10

// CriterionKind selects a survival predicate.
type CriterionKind uint8

const (
	KindTopPart CriterionKind = iota
	KindBottomPart
	KindBorder
	KindCenter
	KindNoPheromones
	KindRequirePheromones
)

var kindNames = map[CriterionKind]string{
	KindTopPart:           config.SurvivalTopPart,
	KindBottomPart:        config.SurvivalBottomPart,
	KindBorder:            config.SurvivalBorder,
	KindCenter:            config.SurvivalCenter,
	KindNoPheromones:      config.SurvivalNoPheromones,
	KindRequirePheromones: config.SurvivalRequirePheromones,
}

func (k CriterionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Criterion decides which tiles survive a generation boundary.
// Fraction is used by TopPart, BottomPart and Border; Center and Radius by
// Center.
type Criterion struct {
	Kind     CriterionKind
	Fraction float64
	Center   components.Coord
	Radius   float64
}

// TopPart keeps rows y < floor(h*pct).
func TopPart(pct float64) Criterion { return Criterion{Kind: KindTopPart, Fraction: pct} }

// BottomPart keeps rows y >= h - floor(h*pct).
func BottomPart(pct float64) Criterion { return Criterion{Kind: KindBottomPart, Fraction: pct} }

// Border keeps tiles within ceil(pct*size) of any edge.
func Border(pct float64) Criterion { return Criterion{Kind: KindBorder, Fraction: pct} }

// Center keeps tiles within Euclidean distance radius of point.
func Center(point components.Coord, radius float64) Criterion {
	return Criterion{Kind: KindCenter, Center: point, Radius: radius}
}

// NoPheromones keeps tiles with no pheromone at all.
func NoPheromones() Criterion { return Criterion{Kind: KindNoPheromones} }

// RequirePheromones keeps tiles with at least RequiredPheromone.
func RequirePheromones() Criterion { return Criterion{Kind: KindRequirePheromones} }

// ParseCriterion builds a Criterion from its config section.
func ParseCriterion(sc config.SurvivalConfig) (Criterion, error) {
	switch sc.Kind {
	case config.SurvivalTopPart:
		return TopPart(sc.Fraction), nil
	case config.SurvivalBottomPart:
		return BottomPart(sc.Fraction), nil
	case config.SurvivalBorder:
		return Border(sc.Fraction), nil
	case config.SurvivalCenter:
		return Center(components.Coord{X: sc.CenterX, Y: sc.CenterY}, sc.Radius), nil
	case config.SurvivalNoPheromones:
		return NoPheromones(), nil
	case config.SurvivalRequirePheromones:
		return RequirePheromones(), nil
	}
	return Criterion{}, fmt.Errorf("unknown survival kind %q", sc.Kind)
}

func (c Criterion) String() string {
	switch c.Kind {
	case KindTopPart, KindBottomPart, KindBorder:
		return fmt.Sprintf("%s(%.3g)", c.Kind, c.Fraction)
	case KindCenter:
		return fmt.Sprintf("%s(%v, r=%.3g)", c.Kind, c.Center, c.Radius)
	}
	return c.Kind.String()
}

// Survives reports whether the tile at coordinate p survives. Coordinate
// predicates ignore tile; pheromone predicates read it.
func (c Criterion) Survives(p components.Coord, size components.Coord, tile components.Tile) bool {
	switch c.Kind {
	case KindTopPart:
		return p.Y < rowsOf(size.Y, c.Fraction)
	case KindBottomPart:
		return p.Y >= size.Y-rowsOf(size.Y, c.Fraction)
	case KindBorder:
		mx := int(math.Ceil(c.Fraction * float64(size.X)))
		my := int(math.Ceil(c.Fraction * float64(size.Y)))
		return p.X < mx || p.X >= size.X-mx || p.Y < my || p.Y >= size.Y-my
	case KindCenter:
		dx := float64(p.X - c.Center.X)
		dy := float64(p.Y - c.Center.Y)
		return math.Hypot(dx, dy) <= c.Radius
	case KindNoPheromones:
		return tile.Pheromone == 0
	case KindRequirePheromones:
		return tile.Pheromone >= RequiredPheromone
	}
	return false
}

func rowsOf(n int, pct float64) int {
	return int(math.Floor(float64(n) * pct))
}

// SurvivingIndexes returns the slots of every individual whose tile
// survives c. The result may be empty.
func SurvivingIndexes(w *World, c Criterion) []int {
	size := w.grid.size
	var out []int
	for i := range w.individuals {
		idx := w.individuals[i].GridIndex
		if c.Survives(w.grid.IndexToCoord(idx), size, w.grid.tiles[idx]) {
			out = append(out, i)
		}
	}
	return out
}

// SurviveCells enumerates every surviving coordinate regardless of
// occupancy. It walks the whole grid; use it for display, not per step.
func SurviveCells(w *World, c Criterion) []components.Coord {
	size := w.grid.size
	var out []components.Coord
	for i, t := range w.grid.tiles {
		p := w.grid.IndexToCoord(i)
		if c.Survives(p, size, t) {
			out = append(out, p)
		}
	}
	return out
}
