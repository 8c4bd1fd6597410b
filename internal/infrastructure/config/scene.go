package config

import "regexp"

// SceneConfig is the root config for scene JSON files
type SceneConfig struct {
	Name    string          `json:"name"`
	Tileset string          `json:"tileset"`
	Tilemap [][]TileConfig  `json:"tilemap"`
	XCount  int             `json:"xCount"`
	YCount  int             `json:"yCount"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Exits   []ExitConfig    `json:"exits,omitempty"`
	Spawn   *PositionConfig `json:"spawn,omitempty"`
}

// TileConfig is a tileset column/row pair
type TileConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ExitConfig is a tile rectangle that swaps to Target when the hero enters it
type ExitConfig struct {
	Target string         `json:"target"`
	Rect   RectConfig     `json:"rect"`
	Arrive PositionConfig `json:"arrive"`
}

type RectConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type PositionConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var sceneNamePattern = regexp.MustCompile(`^\w+$`)

// ValidSceneName reports whether name can be used as a scene file name
func ValidSceneName(name string) bool {
	return sceneNamePattern.MatchString(name)
}
