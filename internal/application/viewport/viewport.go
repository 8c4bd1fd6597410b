// Package viewport maps world coordinates to screen pixels.
//
// The viewport owns the pan (translation) and zoom (scale) applied to every
// frame and the canvas size reported to ebiten. The scene lifecycle manager
// resizes it after each swap; scenes move it with Place, Focus and Center.
package viewport

import (
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Vec is a 2D vector
type Vec struct {
	X, Y float64
}

// glide holds active tweens for the translation
type glide struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport is safe for concurrent use.
type Viewport struct {
	mu sync.RWMutex

	translation Vec
	scale       Vec

	// container is the window area available to the canvas
	containerW int
	containerH int
	// canvas is the logical screen size handed to ebiten
	canvasW int
	canvasH int

	glide *glide
}

// New creates a viewport for a window of the given size
func New(containerW, containerH int) *Viewport {
	return &Viewport{
		scale:      Vec{X: 1, Y: 1},
		containerW: containerW,
		containerH: containerH,
		canvasW:    containerW,
		canvasH:    containerH,
	}
}

// SetContainer records the window size. It returns true when the size changed.
func (v *Viewport) SetContainer(w, h int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if w == v.containerW && h == v.containerH {
		return false
	}
	v.containerW = w
	v.containerH = h
	return true
}

// Container returns the window size
func (v *Viewport) Container() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.containerW, v.containerH
}

// Canvas returns the logical screen size
func (v *Viewport) Canvas() (int, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.canvasW, v.canvasH
}

// Translation returns the current pan
func (v *Viewport) Translation() Vec {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.translation
}

// Scale returns the current zoom
func (v *Viewport) Scale() Vec {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scale
}

// Resize fits the canvas to a world of width x height pixels, never larger
// than the window.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resize(width, height)
}

func (v *Viewport) resize(width, height int) {
	v.canvasW = min(v.containerW, int(float64(width)*v.scale.X))
	v.canvasH = min(v.containerH, int(float64(height)*v.scale.Y))
	if v.canvasW < 1 {
		v.canvasW = 1
	}
	if v.canvasH < 1 {
		v.canvasH = 1
	}
}

// Zoom sets a uniform scale and resizes the canvas for the given world size
func (v *Viewport) Zoom(zoom float64, width, height int) {
	if zoom <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scale = Vec{X: zoom, Y: zoom}
	v.resize(width, height)
}

// Place pans to the screen-space position (x, y), clamped so the canvas
// stays inside a world of width x height.
func (v *Viewport) Place(x, y, width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.glide = nil
	v.translation = v.placed(x, y, width, height)
}

func (v *Viewport) placed(x, y, width, height float64) Vec {
	return Vec{
		X: math.Max(0, math.Min(x, width*v.scale.X-float64(v.canvasW))),
		Y: math.Max(0, math.Min(y, height*v.scale.Y-float64(v.canvasH))),
	}
}

func (v *Viewport) focused(x, y, width, height float64) Vec {
	return v.placed(
		x*v.scale.X-float64(v.canvasW)/2,
		y*v.scale.Y-float64(v.canvasH)/2,
		width,
		height,
	)
}

// Focus pans so the world point (x, y) is centered where the world bounds allow
func (v *Viewport) Focus(x, y, width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.glide = nil
	v.translation = v.focused(x, y, width, height)
}

// Center pans so the world point (x, y) is centered, allowing the view to
// extend half a canvas past the world edges.
func (v *Viewport) Center(x, y, width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.glide = nil

	halfW := float64(v.canvasW) / 2
	halfH := float64(v.canvasH) / 2
	v.translation = Vec{
		X: math.Max(-halfW, math.Min(x*v.scale.X-halfW, width*v.scale.X-halfW)),
		Y: math.Max(-halfH, math.Min(y*v.scale.Y-halfH, height*v.scale.Y-halfH)),
	}
}

// GlideTo animates a Focus on (x, y) over the given number of seconds.
// A non-positive duration focuses immediately.
func (v *Viewport) GlideTo(x, y, width, height, seconds float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	target := v.focused(x, y, width, height)
	if seconds <= 0 {
		v.glide = nil
		v.translation = target
		return
	}
	v.glide = &glide{
		tweenX: gween.New(float32(v.translation.X), float32(target.X), float32(seconds), ease.OutQuad),
		tweenY: gween.New(float32(v.translation.Y), float32(target.Y), float32(seconds), ease.OutQuad),
	}
}

// Gliding reports whether a GlideTo animation is running
func (v *Viewport) Gliding() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.glide != nil
}

// Update advances a running glide by dt seconds
func (v *Viewport) Update(dt float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	g := v.glide
	if g == nil {
		return
	}
	if !g.doneX {
		val, done := g.tweenX.Update(float32(dt))
		v.translation.X = float64(val)
		g.doneX = done
	}
	if !g.doneY {
		val, done := g.tweenY.Update(float32(dt))
		v.translation.Y = float64(val)
		g.doneY = done
	}
	if g.doneX && g.doneY {
		v.glide = nil
	}
}

// Reset returns the world-to-screen transform for the next frame
func (v *Viewport) Reset() ebiten.GeoM {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var geo ebiten.GeoM
	geo.Scale(v.scale.X, v.scale.Y)
	geo.Translate(-v.translation.X, -v.translation.Y)
	return geo
}

// ToWorld converts a screen position to world coordinates
func (v *Viewport) ToWorld(sx, sy float64) (float64, float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return (sx + v.translation.X) / v.scale.X, (sy + v.translation.Y) / v.scale.Y
}
