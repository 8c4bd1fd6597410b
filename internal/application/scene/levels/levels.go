// Package levels holds the demo scenes: three rooms joined by exits.
package levels

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/younwookim/tilewalk/internal/application/scene"
	"github.com/younwookim/tilewalk/internal/application/system"
	"github.com/younwookim/tilewalk/internal/domain/entity"
	"github.com/younwookim/tilewalk/internal/infrastructure/config"
)

// Start is the scene the game opens on
const Start = "testOne"

// ErrNoSceneSource is returned when a level loads without a scene source
var ErrNoSceneSource = errors.New("levels: no scene source")

var (
	exitColor = color.RGBA{R: 128, G: 128, B: 128, A: 128}
	heroColor = color.RGBA{R: 80, G: 160, B: 255, A: 255}
	eyeColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// neighbors lists, per scene, the scenes reachable from it
var neighbors = map[string][]string{
	"testOne":   {"testTwo"},
	"testTwo":   {"testOne", "testThree"},
	"testThree": {"testTwo"},
}

// Modules returns the scene modules of the demo, all sharing w.
func Modules(w *World) scene.Modules {
	mods := make(scene.Modules, len(neighbors))
	for name, ns := range neighbors {
		mods[name] = module(name, ns, w)
	}
	return mods
}

type level struct {
	name     string
	world    *World
	env      *scene.Env
	tileset  *ebiten.Image
	exits    []exit
	spawn    *config.PositionConfig
	swap     scene.SwapFunc
	entering atomic.Bool
}

func module(name string, ns []string, w *World) scene.ModuleFunc {
	return func(ctx context.Context, env *scene.Env) error {
		if env.Scenes == nil {
			return ErrNoSceneSource
		}
		cfg, err := env.Scenes.LoadScene(name)
		if err != nil {
			return err
		}
		desc, err := system.LoadDescriptor(cfg, env.TileSize)
		if err != nil {
			return err
		}

		l := &level{
			name:  name,
			world: w,
			env:   env,
			exits: exitsFrom(cfg, env.TileSize),
			spawn: cfg.Spawn,
		}
		if desc.Tileset != "" && env.Images != nil {
			l.tileset, err = env.Images.Image(ctx, desc.Tileset)
			if err != nil {
				return fmt.Errorf("failed to load tileset for %s: %w", name, err)
			}
		}

		h := env.Register(desc)
		l.swap = h.DeclareNeighbors(ns...)
		h.PreProcess(l.enter)
		h.PostProcess(l.leave)
		h.Process(l.process)

		log.Printf("levels: %s loaded", name)
		return nil
	}
}

func (l *level) descriptor() *entity.SceneDescriptor {
	reg, ok := l.env.Lookup(l.name)
	if !ok {
		return entity.NewSceneDescriptor(l.name, "", 0, 0, l.env.TileSize)
	}
	return reg.Descriptor()
}

func (l *level) enter() {
	l.world.enter(l.name, l.spawn, l.env.TileSize)
	l.entering.Store(true)
}

func (l *level) leave() {
	l.entering.Store(false)
	log.Printf("levels: leaving %s", l.name)
}

func (l *level) process(f scene.Frame, delta float64) {
	desc := l.descriptor()
	system.DrawTilemap(f.Screen, l.tileset, desc, f.View)

	e, hit := l.world.step(desc, l.exits, l.world.read(), delta)
	hero := l.world.Hero()
	l.follow(hero, desc)

	for _, x := range l.exits {
		fillRect(f, x.rect, exitColor)
	}
	drawHero(f, hero)

	if hit {
		go l.leaveThrough(e)
	}
}

// follow keeps the viewport on the hero, gliding there on entry
func (l *level) follow(hero entity.Hero, desc *entity.SceneDescriptor) {
	vp := l.env.Viewport
	if vp == nil {
		return
	}
	w, h := float64(desc.Width), float64(desc.Height)
	if l.entering.CompareAndSwap(true, false) {
		vp.GlideTo(hero.X, hero.Y, w, h, l.env.GlideTime)
		return
	}
	if !vp.Gliding() {
		vp.Focus(hero.X, hero.Y, w, h)
	}
}

func (l *level) leaveThrough(e exit) {
	if err := l.swap(context.Background(), e.target); err != nil {
		log.Printf("levels: exit %s -> %s: %v", l.name, e.target, err)
		l.world.cancelExit()
	}
}

func fillRect(f scene.Frame, r entity.Rect, clr color.Color) {
	x0, y0 := f.View.Apply(r.X, r.Y)
	x1, y1 := f.View.Apply(r.X+r.W, r.Y+r.H)
	vector.FillRect(f.Screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), clr, false)
}

func drawHero(f scene.Frame, hero entity.Hero) {
	cx, cy := f.View.Apply(hero.X, hero.Y)
	scale := f.View.Element(0, 0)
	r := hero.Radius * scale
	vector.FillCircle(f.Screen, float32(cx), float32(cy), float32(r), heroColor, true)

	eye := r / 2
	if !hero.FacingRight {
		eye = -eye
	}
	vector.FillCircle(f.Screen, float32(cx+eye), float32(cy-r/3), float32(r/4), eyeColor, true)
}
