package system

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/tilewalk/internal/domain/entity"
	"github.com/younwookim/tilewalk/internal/infrastructure/config"
)

// ErrInvalidScene is returned for scene files that cannot become a descriptor
var ErrInvalidScene = errors.New("invalid scene")

// LoadDescriptor converts a SceneConfig into a SceneDescriptor.
//
// Counts missing from the file are taken from the tilemap. Short rows are
// padded with empty cells; a tilemap larger than its counts is rejected.
// Width and Height are recomputed from tileSize.
func LoadDescriptor(cfg *config.SceneConfig, tileSize int) (*entity.SceneDescriptor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidScene)
	}
	if !config.ValidSceneName(cfg.Name) {
		return nil, fmt.Errorf("%w: bad name %q", ErrInvalidScene, cfg.Name)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %d", ErrInvalidScene, tileSize)
	}

	xCount, yCount := cfg.XCount, cfg.YCount
	if xCount < 0 || yCount < 0 {
		return nil, fmt.Errorf("%w: %s: negative size %dx%d", ErrInvalidScene, cfg.Name, xCount, yCount)
	}
	if yCount == 0 {
		yCount = len(cfg.Tilemap)
	}
	if xCount == 0 {
		for _, row := range cfg.Tilemap {
			xCount = max(xCount, len(row))
		}
	}
	if len(cfg.Tilemap) > yCount {
		return nil, fmt.Errorf("%w: %s: %d rows for yCount %d", ErrInvalidScene, cfg.Name, len(cfg.Tilemap), yCount)
	}

	desc := entity.NewSceneDescriptor(cfg.Name, cfg.Tileset, xCount, yCount, tileSize)
	for y, row := range cfg.Tilemap {
		if len(row) > xCount {
			return nil, fmt.Errorf("%w: %s: row %d has %d cells for xCount %d", ErrInvalidScene, cfg.Name, y, len(row), xCount)
		}
		for x, cell := range row {
			desc.Tilemap[y][x] = entity.TileCoord{X: cell.X, Y: cell.Y}
		}
	}
	return desc, nil
}

// DescriptorConfig converts a descriptor back into its file form.
// Exits and spawn are copied from base when it is not nil.
func DescriptorConfig(desc *entity.SceneDescriptor, base *config.SceneConfig) *config.SceneConfig {
	cfg := &config.SceneConfig{
		Name:    desc.Name,
		Tileset: desc.Tileset,
		Tilemap: make([][]config.TileConfig, len(desc.Tilemap)),
		XCount:  desc.XCount,
		YCount:  desc.YCount,
		Width:   desc.Width,
		Height:  desc.Height,
	}
	for y, row := range desc.Tilemap {
		cfg.Tilemap[y] = make([]config.TileConfig, len(row))
		for x, c := range row {
			cfg.Tilemap[y][x] = config.TileConfig{X: c.X, Y: c.Y}
		}
	}
	if base != nil {
		cfg.Exits = base.Exits
		cfg.Spawn = base.Spawn
	}
	return cfg
}

// TileSource returns the tileset rectangle for a cell
func TileSource(c entity.TileCoord, tileSize int) image.Rectangle {
	x, y := c.X*tileSize, c.Y*tileSize
	return image.Rect(x, y, x+tileSize, y+tileSize)
}

// DrawTilemap draws every non-empty cell of desc from tileset onto dst.
// The tileset is expected at the descriptor's tile size. view is applied
// after each cell's world translation.
func DrawTilemap(dst, tileset *ebiten.Image, desc *entity.SceneDescriptor, view ebiten.GeoM) {
	if tileset == nil || desc == nil {
		return
	}
	bounds := tileset.Bounds()
	op := &ebiten.DrawImageOptions{}

	for y, row := range desc.Tilemap {
		for x, c := range row {
			if c.IsEmpty() {
				continue
			}
			src := TileSource(c, desc.TileSize)
			if !src.In(bounds) {
				continue
			}

			op.GeoM.Reset()
			op.GeoM.Translate(float64(x*desc.TileSize), float64(y*desc.TileSize))
			op.GeoM.Concat(view)
			dst.DrawImage(tileset.SubImage(src).(*ebiten.Image), op)
		}
	}
}

// ExitRect converts an exit's tile rectangle to world pixels
func ExitRect(e config.ExitConfig, tileSize int) entity.Rect {
	ts := float64(tileSize)
	return entity.Rect{
		X: float64(e.Rect.X) * ts,
		Y: float64(e.Rect.Y) * ts,
		W: float64(e.Rect.W) * ts,
		H: float64(e.Rect.H) * ts,
	}
}
