// Package camera maps between screen pixels and grid cells for a front end
// that draws the simulation. It holds no simulation state.
package camera

import (
	"math"

	"github.com/pthm-cable/gridevo/components"
)

// Camera controls the viewport onto the grid. World coordinates are in
// cells: cell (x, y) covers [x, x+1) x [y, y+1). Row 0 is the top edge.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Pixels per cell
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	GridW, GridH int

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera that fits the whole grid in the viewport.
func New(viewportW, viewportH float32, size components.Coord) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		GridW:     size.X,
		GridH:     size.Y,
		MaxZoom:   64,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole grid is just visible.
func (c *Camera) fitZoom() float32 {
	zx := c.ViewportW / float32(c.GridW)
	zy := c.ViewportH / float32(c.GridH)
	return min(zx, zy)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// ScreenToCell returns the grid cell under a screen pixel, and false when
// the pixel is outside the grid.
func (c *Camera) ScreenToCell(sx, sy float32) (components.Coord, bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	cell := components.Coord{
		X: int(math.Floor(float64(wx))),
		Y: int(math.Floor(float64(wy))),
	}
	return cell, cell.InBounds(components.Coord{X: c.GridW, Y: c.GridH})
}

// CellRect returns the screen rectangle covered by a cell.
func (c *Camera) CellRect(cell components.Coord) (x, y, w, h float32) {
	x, y = c.WorldToScreen(float32(cell.X), float32(cell.Y))
	return x, y, c.Zoom, c.Zoom
}

// IsVisible returns true if any part of the cell is on screen.
func (c *Camera) IsVisible(cell components.Coord) bool {
	x, y, w, h := c.CellRect(cell)
	return x+w > 0 && y+h > 0 && x < c.ViewportW && y < c.ViewportH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The center
// stays on the grid.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, float32(c.GridW))
	c.Y = clamp(c.Y+dy/c.Zoom, 0, float32(c.GridH))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
}

// Reset centers the grid and fits it to the viewport.
func (c *Camera) Reset() {
	c.X = float32(c.GridW) / 2
	c.Y = float32(c.GridH) / 2
	c.Zoom = c.MinZoom
}

// VisibleCells returns the inclusive range of cells on screen, clipped to
// the grid.
func (c *Camera) VisibleCells() (lo, hi components.Coord) {
	minX, minY := c.ScreenToWorld(0, 0)
	maxX, maxY := c.ScreenToWorld(c.ViewportW, c.ViewportH)

	lo = components.Coord{
		X: max(0, int(math.Floor(float64(minX)))),
		Y: max(0, int(math.Floor(float64(minY)))),
	}
	hi = components.Coord{
		X: min(c.GridW-1, int(math.Ceil(float64(maxX)))-1),
		Y: min(c.GridH-1, int(math.Ceil(float64(maxY)))-1),
	}
	return lo, hi
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
