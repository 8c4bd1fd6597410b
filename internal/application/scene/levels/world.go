package levels

import (
	"sync"

	"github.com/younwookim/tilewalk/internal/application/system"
	"github.com/younwookim/tilewalk/internal/domain/entity"
	"github.com/younwookim/tilewalk/internal/infrastructure/config"
)

// World is the state the demo scenes share: one hero walking between them.
//
// Process closures run on the render goroutine while hooks run on the swap
// goroutine, so everything here is guarded by mu.
type World struct {
	mu      sync.Mutex
	hero    *entity.Hero
	steer   *system.InputSystem
	read    func() system.InputState
	arrival *config.PositionConfig
	leaving bool
	// active is the scene last entered; only it may move the hero
	active string
}

// NewWorld creates a world whose hero is steered by steer from input read
// each frame.
func NewWorld(steer *system.InputSystem, read func() system.InputState) *World {
	if read == nil {
		read = func() system.InputState { return system.InputState{} }
	}
	return &World{
		hero:  entity.NewHero(0, 0, 8),
		steer: steer,
		read:  read,
	}
}

// Hero returns a copy of the hero
func (w *World) Hero() entity.Hero {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.hero
}

type exit struct {
	target string
	rect   entity.Rect
	arrive config.PositionConfig
}

func exitsFrom(cfg *config.SceneConfig, tileSize int) []exit {
	exits := make([]exit, 0, len(cfg.Exits))
	for _, e := range cfg.Exits {
		exits = append(exits, exit{
			target: e.Target,
			rect:   system.ExitRect(e, tileSize),
			arrive: e.Arrive,
		})
	}
	return exits
}

// enter places the hero for a scene becoming current: on the arrival tile of
// the exit that led here, else on the scene's spawn tile.
func (w *World) enter(name string, spawn *config.PositionConfig, tileSize int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.active = name

	switch {
	case w.arrival != nil:
		w.hero.PlaceOnTile(w.arrival.X, w.arrival.Y, tileSize)
	case spawn != nil:
		w.hero.PlaceOnTile(spawn.X, spawn.Y, tileSize)
	}
	w.arrival = nil
	w.leaving = false
}

// step moves the hero and reports the exit it walked into, at most once
// until the next enter or cancelExit. A scene other than the one last
// entered is still drawing while a swap is in flight; its steps do nothing.
func (w *World) step(desc *entity.SceneDescriptor, exits []exit, input system.InputState, delta float64) (exit, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if desc.Name != w.active {
		return exit{}, false
	}
	if w.steer != nil {
		w.steer.UpdateHero(w.hero, input, delta, desc.Width, desc.Height)
	}
	if w.leaving || !w.hero.Moving {
		return exit{}, false
	}

	for _, e := range exits {
		if e.rect.TouchesCircle(w.hero.X, w.hero.Y, w.hero.Radius) {
			w.leaving = true
			arrive := e.arrive
			w.arrival = &arrive
			return e, true
		}
	}
	return exit{}, false
}

// cancelExit forgets a pending exit after a failed swap
func (w *World) cancelExit() {
	w.mu.Lock()
	w.arrival = nil
	w.leaving = false
	w.mu.Unlock()
}
