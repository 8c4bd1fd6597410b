package scene

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/tilewalk/internal/application/viewport"
	"github.com/younwookim/tilewalk/internal/infrastructure/config"
)

// ModuleFunc loads one scene: it builds whatever its process closure needs
// and registers the scene with env.
type ModuleFunc func(ctx context.Context, env *Env) error

// Modules maps a scene name to the module that loads it.
type Modules map[string]ModuleFunc

// SceneSource reads scene files.
type SceneSource interface {
	LoadScene(name string) (*config.SceneConfig, error)
}

// ImageSource loads images referenced by scenes.
type ImageSource interface {
	Image(ctx context.Context, path string) (*ebiten.Image, error)
}

// Env is what a module sees while it loads.
type Env struct {
	*Registry

	Viewport *viewport.Viewport
	Scenes   SceneSource
	Images   ImageSource
	TileSize int
	// GlideTime is how long scenes should animate the viewport on entry
	GlideTime float64
}
