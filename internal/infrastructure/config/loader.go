package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrReadOnly is returned when saving through a loader without a disk path
	ErrReadOnly = errors.New("config: loader is read-only")
	// ErrInvalidName is returned for scene names that are not plain words
	ErrInvalidName = errors.New("config: invalid scene name")
)

// Loader loads game configuration and scene files using fs.FS interface
type Loader struct {
	fsys      fs.FS
	basePath  string
	scenesDir string
	writable  bool
}

// NewLoader creates a new config loader from filesystem path.
// Scenes saved through it are written under basePath.
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:      os.DirFS(basePath),
		basePath:  basePath,
		scenesDir: "scenes",
		writable:  true,
	}
}

// NewFSLoader creates a new read-only config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:      fsys,
		basePath:  basePath,
		scenesDir: "scenes",
	}
}

// SetScenesDir changes the directory scene files are read from
func (l *Loader) SetScenesDir(dir string) {
	if dir != "" {
		l.scenesDir = path.Clean(filepath.ToSlash(dir))
	}
}

// ScenesPath returns the on-disk scenes directory, or "" for read-only loaders
func (l *Loader) ScenesPath() string {
	if !l.writable {
		return ""
	}
	return filepath.Join(l.basePath, filepath.FromSlash(l.scenesDir))
}

// BasePath returns the directory scene and asset paths are relative to
func (l *Loader) BasePath() string {
	return l.basePath
}

// Writable reports whether SaveScene can persist files
func (l *Loader) Writable() bool {
	return l.writable
}

// LoadGame loads game.yaml on top of Defaults
func (l *Loader) LoadGame() (*GameConfig, error) {
	data, err := fs.ReadFile(l.fsys, "game.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read game.yaml: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game.yaml: %w", err)
	}

	return &cfg, nil
}

func (l *Loader) scenePath(name string) string {
	return path.Join(l.scenesDir, name+".json")
}

// ReadSceneRaw returns the bytes of a scene file
func (l *Loader) ReadSceneRaw(name string) ([]byte, error) {
	if !ValidSceneName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := fs.ReadFile(l.fsys, l.scenePath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", name, err)
	}
	return data, nil
}

// LoadScene loads a scene JSON file
func (l *Loader) LoadScene(name string) (*SceneConfig, error) {
	data, err := l.ReadSceneRaw(name)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", name, err)
	}
	switch cfg.Name {
	case "":
		cfg.Name = name
	case name:
	default:
		return nil, fmt.Errorf("%w: scene %s names itself %q", ErrInvalidName, name, cfg.Name)
	}

	return cfg, nil
}

// ParseScene decodes a scene JSON document
func ParseScene(data []byte) (*SceneConfig, error) {
	var cfg SceneConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveScene writes <name>.json into the scenes directory
func (l *Loader) SaveScene(cfg *SceneConfig) error {
	if !l.writable {
		return ErrReadOnly
	}
	if !ValidSceneName(cfg.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, cfg.Name)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scene %s: %w", cfg.Name, err)
	}

	dir := l.ScenesPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	// write then rename so watchers never see a half-written file
	target := filepath.Join(dir, cfg.Name+".json")
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene %s: %w", cfg.Name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to write scene %s: %w", cfg.Name, err)
	}

	return nil
}

// SceneIndex lists the scene names found in the scenes directory
func (l *Loader) SceneIndex() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, l.scenesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || !ValidSceneName(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// ReadAsset returns the bytes of a file referenced by a scene, such as a tileset.
// Leading slashes are ignored so "/assets/tileset.png" and "assets/tileset.png"
// resolve to the same file.
func (l *Loader) ReadAsset(name string) ([]byte, error) {
	clean := path.Clean(strings.TrimLeft(filepath.ToSlash(name), "/"))
	if !fs.ValidPath(clean) {
		return nil, fmt.Errorf("failed to read asset %s: %w", name, fs.ErrInvalid)
	}

	data, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", name, err)
	}
	return data, nil
}

// SceneNameFromPath returns the scene name for a changed file path, if it is
// a scene file.
func SceneNameFromPath(p string) (string, bool) {
	base := filepath.Base(p)
	name, ok := strings.CutSuffix(base, ".json")
	if !ok || !ValidSceneName(name) {
		return "", false
	}
	return name, true
}
