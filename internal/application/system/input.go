package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/tilewalk/internal/domain/entity"
)

// arriveThreshold is how close the hero must get to its target to stop
const arriveThreshold = 4.0

// Projector maps screen coordinates to world coordinates.
type Projector interface {
	ToWorld(sx, sy float64) (float64, float64)
}

// InputSystem steers the hero
type InputSystem struct {
	projector Projector
}

// NewInputSystem creates a new input system
func NewInputSystem(p Projector) *InputSystem {
	return &InputSystem{projector: p}
}

// InputState holds the current input state
type InputState struct {
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Pointer bool
	// Screen position of the pointer
	PointerX int
	PointerY int
}

// GetInput reads the current input state
func (s *InputSystem) GetInput() InputState {
	mx, my := ebiten.CursorPosition()
	return InputState{
		Left:     ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:    ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Up:       ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:     ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Pointer:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		PointerX: mx,
		PointerY: my,
	}
}

// UpdateHero moves the hero toward its target for delta milliseconds and
// keeps it inside a width by height scene.
//
// Holding the pointer sets the target; direction keys override it with a
// target one step ahead of the hero.
func (s *InputSystem) UpdateHero(hero *entity.Hero, input InputState, delta float64, width, height int) {
	s.handleTarget(hero, input, delta)

	dx := hero.TargetX - hero.X
	dy := hero.TargetY - hero.Y
	dist := math.Hypot(dx, dy)
	if dist < arriveThreshold {
		hero.Moving = false
		return
	}

	step := hero.Speed * delta
	if step > dist {
		step = dist
	}
	hero.X += dx / dist * step
	hero.Y += dy / dist * step
	hero.Moving = true
	if dx != 0 {
		hero.FacingRight = dx > 0
	}

	clampHero(hero, width, height)
}

// handleTarget updates the hero target from input
func (s *InputSystem) handleTarget(hero *entity.Hero, input InputState, delta float64) {
	kx, ky := 0.0, 0.0
	if input.Left {
		kx--
	}
	if input.Right {
		kx++
	}
	if input.Up {
		ky--
	}
	if input.Down {
		ky++
	}

	if kx != 0 || ky != 0 {
		// target stays past arriveThreshold while a key is held
		reach := hero.Speed*delta + arriveThreshold*2
		norm := math.Hypot(kx, ky)
		hero.SetTarget(hero.X+kx/norm*reach, hero.Y+ky/norm*reach)
		return
	}

	if input.Pointer && s.projector != nil {
		wx, wy := s.projector.ToWorld(float64(input.PointerX), float64(input.PointerY))
		hero.SetTarget(wx, wy)
	}
}

func clampHero(hero *entity.Hero, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r := hero.Radius
	hero.X = math.Max(r, math.Min(hero.X, float64(width)-r))
	hero.Y = math.Max(r, math.Min(hero.Y, float64(height)-r))
}

// ControlState holds the game-level keys
type ControlState struct {
	Pause   bool
	Reload  bool
	Overlay bool
}

// GetControls reads keys pressed this tick
func GetControls() ControlState {
	return ControlState{
		Pause:   inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP),
		Reload:  inpututil.IsKeyJustPressed(ebiten.KeyF5),
		Overlay: inpututil.IsKeyJustPressed(ebiten.KeyF3),
	}
}
