package entity

import "math"

// Hero is the walking character shared by the demo scenes.
// Positions are in world pixels; Speed is pixels per millisecond.
type Hero struct {
	X, Y             float64
	TargetX, TargetY float64
	Radius           float64
	Speed            float64
	FacingRight      bool
	Moving           bool
}

// NewHero creates a hero standing still at x, y
func NewHero(x, y, radius float64) *Hero {
	return &Hero{
		X:           x,
		Y:           y,
		TargetX:     x,
		TargetY:     y,
		Radius:      radius,
		Speed:       0.5,
		FacingRight: true,
	}
}

// Place moves the hero to x, y and drops its target.
func (h *Hero) Place(x, y float64) {
	h.X, h.Y = x, y
	h.TargetX, h.TargetY = x, y
	h.Moving = false
}

// PlaceOnTile centres the hero on a tile
func (h *Hero) PlaceOnTile(tx, ty, tileSize int) {
	half := float64(tileSize) / 2
	h.Place(float64(tx*tileSize)+half, float64(ty*tileSize)+half)
}

// Tile returns the tile under the hero's centre
func (h *Hero) Tile(tileSize int) (int, int) {
	if tileSize <= 0 {
		return 0, 0
	}
	return int(math.Floor(h.X / float64(tileSize))), int(math.Floor(h.Y / float64(tileSize)))
}

// SetTarget points the hero at x, y
func (h *Hero) SetTarget(x, y float64) {
	h.TargetX, h.TargetY = x, y
}

// Rect is an axis-aligned rectangle in world pixels
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point is inside r
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// TouchesCircle reports whether the circle at cx, cy overlaps r
func (r Rect) TouchesCircle(cx, cy, radius float64) bool {
	nx := math.Max(r.X, math.Min(cx, r.X+r.W))
	ny := math.Max(r.Y, math.Min(cy, r.Y+r.H))
	dx, dy := cx-nx, cy-ny
	return dx*dx+dy*dy <= radius*radius
}
