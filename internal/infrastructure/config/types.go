package config

// GameConfig is the root config for game.yaml
type GameConfig struct {
	Display  DisplayConfig  `yaml:"display"`
	Tiles    TilesConfig    `yaml:"tiles"`
	Scenes   ScenesConfig   `yaml:"scenes"`
	Viewport ViewportConfig `yaml:"viewport"`
	Dev      DevConfig      `yaml:"dev"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screenWidth"`
	ScreenHeight int    `yaml:"screenHeight"`
	Framerate    int    `yaml:"framerate"`
	Title        string `yaml:"title"`
}

// TilesConfig describes the tileset grid.
// Source tiles are PixelBase pixels wide and drawn ScaleBase times larger.
type TilesConfig struct {
	PixelBase int `yaml:"pixelBase"`
	ScaleBase int `yaml:"scaleBase"`
}

// TileSize returns the on-screen tile size in pixels
func (t TilesConfig) TileSize() int {
	return t.PixelBase * t.ScaleBase
}

type ScenesConfig struct {
	Start string `yaml:"start"`
	Dir   string `yaml:"dir"`
	// PrefetchConcurrency bounds concurrent scene loads (0 = unbounded)
	PrefetchConcurrency int `yaml:"prefetchConcurrency"`
}

type ViewportConfig struct {
	Zoom       float64 `yaml:"zoom"`
	GlideTime  float64 `yaml:"glideTime"`
	ShowDelta  bool    `yaml:"showDelta"`
	ClampFocus bool    `yaml:"clampFocus"`
}

type DevConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Watch   bool   `yaml:"watch"`
}

// Defaults returns the configuration used when game.yaml leaves a field empty
func Defaults() GameConfig {
	return GameConfig{
		Display: DisplayConfig{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			Framerate:    60,
			Title:        "tilewalk",
		},
		Tiles: TilesConfig{
			PixelBase: 16,
			ScaleBase: 4,
		},
		Scenes: ScenesConfig{
			Start: "testOne",
			Dir:   "scenes",
		},
		Viewport: ViewportConfig{
			Zoom:       1,
			ClampFocus: true,
		},
		Dev: DevConfig{
			Addr:  "localhost:3033",
			Watch: true,
		},
	}
}
