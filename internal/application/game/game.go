// Package game provides the ebiten loop that runs the current scene.
package game

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/younwookim/tilewalk/internal/application/scene"
	"github.com/younwookim/tilewalk/internal/application/state"
	"github.com/younwookim/tilewalk/internal/application/system"
)

// Scenes is the part of the scene manager the loop reads.
type Scenes interface {
	Current() *scene.Current
	State() state.SwapState
	Reload(ctx context.Context, name string) error
}

// View is the viewport as seen by the loop.
type View interface {
	SetContainer(w, h int) bool
	Resize(width, height int)
	Update(dt float64)
	Reset() ebiten.GeoM
	Canvas() (int, int)
}

// Options configures a Game. Zero values use the real keyboard and clock.
type Options struct {
	ShowDelta bool
	Controls  func() system.ControlState
	Now       func() time.Time
}

// Game implements ebiten.Game and runs whatever scene is current.
type Game struct {
	scenes   Scenes
	view     View
	controls func() system.ControlState
	now      func() time.Time

	lastUpdate time.Time
	lastDraw   time.Time
	delta      float64 // milliseconds between the last two draws

	paused    bool
	showDelta bool
	reloading atomic.Bool
}

// New creates a new Game over scenes and view
func New(scenes Scenes, view View, opts Options) *Game {
	g := &Game{
		scenes:    scenes,
		view:      view,
		controls:  opts.Controls,
		now:       opts.Now,
		showDelta: opts.ShowDelta,
	}
	if g.controls == nil {
		g.controls = system.GetControls
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Update handles game-level keys and advances the viewport glide.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	now := g.now()
	dt := 0.0
	if !g.lastUpdate.IsZero() {
		dt = now.Sub(g.lastUpdate).Seconds()
	}
	g.lastUpdate = now

	c := g.controls()
	if c.Pause {
		g.paused = !g.paused
	}
	if c.Overlay {
		g.showDelta = !g.showDelta
	}
	if c.Reload {
		g.reloadCurrent()
	}

	if !g.paused {
		g.view.Update(dt)
	}
	return nil
}

// reloadCurrent re-runs the current scene's module off the loop
func (g *Game) reloadCurrent() {
	name := g.scenes.Current().Name()
	if name == "" || !g.reloading.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer g.reloading.Store(false)
		if err := g.scenes.Reload(context.Background(), name); err != nil {
			log.Printf("game: reload %s: %v", name, err)
		}
	}()
}

// Draw runs the current scene's process with the time since the last draw.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	now := g.now()
	if !g.lastDraw.IsZero() {
		g.delta = float64(now.Sub(g.lastDraw)) / float64(time.Millisecond)
	}
	g.lastDraw = now

	cur := g.scenes.Current()
	if !g.paused {
		cur.Process(scene.Frame{Screen: screen, View: g.view.Reset()}, g.delta)
	}

	if g.showDelta {
		ebitenutil.DebugPrint(screen, g.overlay(cur))
	}
}

func (g *Game) overlay(cur *scene.Current) string {
	text := fmt.Sprintf("%s  %.1fms", cur.Name(), g.delta)
	if s := g.scenes.State(); s != state.SwapIdle {
		text += "  " + s.String()
	}
	if g.paused {
		text += "  paused"
	}
	return text
}

// Layout sizes the canvas to the window. When the window changes, the
// viewport is refitted to the current scene.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.view.SetContainer(outsideWidth, outsideHeight) {
		if w, h := g.scenes.Current().Size(); w > 0 && h > 0 {
			g.view.Resize(w, h)
		}
	}
	return g.view.Canvas()
}

// Paused reports whether the scene process is paused
func (g *Game) Paused() bool {
	return g.paused
}

// Delta returns the last frame time in milliseconds
func (g *Game) Delta() float64 {
	return g.delta
}
