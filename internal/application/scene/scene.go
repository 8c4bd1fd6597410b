// Package scene implements the scene lifecycle.
//
// Scenes are named, independently loadable units. A scene module registers a
// descriptor and its hooks with the Registry, declares its neighbours in the
// Graph, and is loaded on demand through a deduplicating cache. The Manager
// swaps the active scene and publishes it for the render loop.
package scene

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/tilewalk/internal/domain/entity"
)

// Frame is what a scene draws into.
// View is the viewport transform for the frame; world-space draws should be
// concatenated with it.
type Frame struct {
	Screen *ebiten.Image
	View   ebiten.GeoM
}

// DrawImage draws img with a world-space transform
func (f Frame) DrawImage(img *ebiten.Image, world ebiten.GeoM) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM = world
	op.GeoM.Concat(f.View)
	f.Screen.DrawImage(img, op)
}

// ProcessFunc updates and draws a scene once per frame.
// delta is the time since the previous frame in milliseconds.
type ProcessFunc func(f Frame, delta float64)

// HookFunc is a lifecycle hook.
type HookFunc func()

// SwapFunc makes the named scene the current one.
type SwapFunc func(ctx context.Context, name string) error

func noopProcess(Frame, float64) {}

// Current is the published record the render loop reads every frame.
// It is replaced, never mutated, by the Manager.
type Current struct {
	Descriptor *entity.SceneDescriptor
	Process    ProcessFunc

	reg *Registration
}

// Name returns the current scene name, or "" before the first swap
func (c *Current) Name() string {
	if c.Descriptor == nil {
		return ""
	}
	return c.Descriptor.Name
}

// Size returns the pixel size of the current scene
func (c *Current) Size() (int, int) {
	if c.Descriptor == nil {
		return 0, 0
	}
	return c.Descriptor.Width, c.Descriptor.Height
}
