// Package core provides the types shared by games and the terminal platform:
// screen buffer, input frames, runtime config and geometry. It has no
// Bubble Tea dependency so game logic stays pure and testable.
package core

import "math"

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned bounding box in world units (one unit per tile).
// Edges are half-open: a box touching another edge-to-edge does not overlap.
type Box struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// Center returns the centre point.
func (b Box) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Intersects reports whether two boxes overlap.
func (b Box) Intersects(o Box) bool {
	if b.X >= o.Right() || o.X >= b.Right() {
		return false
	}
	if b.Y >= o.Bottom() || o.Y >= b.Bottom() {
		return false
	}
	return true
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return b
}

// cellEpsilon absorbs rounding when a box edge was snapped to a tile edge.
const cellEpsilon = 1e-9

// Cells returns the inclusive range of tile columns and rows the box covers.
// An edge lying exactly on a tile boundary does not cover the next tile.
func (b Box) Cells() (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(b.X + cellEpsilon))
	y0 = int(math.Floor(b.Y + cellEpsilon))
	x1 = int(math.Ceil(b.Right()-cellEpsilon)) - 1
	y1 = int(math.Ceil(b.Bottom()-cellEpsilon)) - 1
	return x0, y0, x1, y1
}

// ClampF restricts a float64 value to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}

// Approach moves cur toward target by at most step.
func Approach(cur, target, step float64) float64 {
	if cur < target {
		return math.Min(cur+step, target)
	}
	return math.Max(cur-step, target)
}
