package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDescriptor() *SceneDescriptor {
	// 3x2 map with the top-left and bottom-right cells drawn
	return &SceneDescriptor{
		Name:    "test",
		Tileset: "tileset.png",
		Tilemap: [][]TileCoord{
			{{X: 1, Y: 0}, EmptyTile, EmptyTile},
			{EmptyTile, EmptyTile, {X: 2, Y: 3}},
		},
		XCount:   3,
		YCount:   2,
		Width:    48,
		Height:   32,
		TileSize: 16,
	}
}

func TestSceneDescriptor_Tile(t *testing.T) {
	d := createTestDescriptor()

	tests := []struct {
		name string
		x, y int
		want TileCoord
	}{
		{"top-left", 0, 0, TileCoord{X: 1, Y: 0}},
		{"empty", 1, 0, EmptyTile},
		{"bottom-right", 2, 1, TileCoord{X: 2, Y: 3}},
		{"negative x", -1, 0, EmptyTile},
		{"y too large", 0, 5, EmptyTile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Tile(tt.x, tt.y))
		})
	}
}

func TestSceneDescriptor_TileAtPixel(t *testing.T) {
	d := createTestDescriptor()

	assert.Equal(t, TileCoord{X: 1, Y: 0}, d.TileAtPixel(15, 15))
	assert.Equal(t, TileCoord{X: 2, Y: 3}, d.TileAtPixel(40, 20))
	assert.True(t, d.TileAtPixel(-1, 0).IsEmpty())
}

func TestSceneDescriptor_SetTile(t *testing.T) {
	d := createTestDescriptor()

	assert.True(t, d.SetTile(1, 1, TileCoord{X: 4, Y: 4}))
	assert.Equal(t, TileCoord{X: 4, Y: 4}, d.Tile(1, 1))
	assert.False(t, d.SetTile(9, 9, TileCoord{}))
}

func TestSceneDescriptor_Resize(t *testing.T) {
	t.Run("grows with empty cells", func(t *testing.T) {
		d := createTestDescriptor()
		d.Resize(4, 3)

		require.Len(t, d.Tilemap, 3)
		for _, row := range d.Tilemap {
			assert.Len(t, row, 4)
		}
		assert.Equal(t, TileCoord{X: 1, Y: 0}, d.Tile(0, 0), "existing cells are kept")
		assert.True(t, d.Tile(3, 2).IsEmpty())
		assert.Equal(t, 64, d.Width)
		assert.Equal(t, 48, d.Height)
	})

	t.Run("shrinks", func(t *testing.T) {
		d := createTestDescriptor()
		d.Resize(1, 1)

		require.Len(t, d.Tilemap, 1)
		assert.Len(t, d.Tilemap[0], 1)
		assert.Equal(t, 1, d.XCount)
		assert.Equal(t, 16, d.Width)
	})

	t.Run("negative counts clamp to zero", func(t *testing.T) {
		d := createTestDescriptor()
		d.Resize(-2, -2)

		assert.Empty(t, d.Tilemap)
		assert.Equal(t, 0, d.Height)
	})
}

func TestNewSceneDescriptor(t *testing.T) {
	d := NewSceneDescriptor("room", "tiles.png", 16, 8, 64)

	assert.Equal(t, "room", d.Name)
	assert.Equal(t, 1024, d.Width)
	assert.Equal(t, 512, d.Height)
	assert.True(t, d.Tile(15, 7).IsEmpty())
}

func TestSceneDescriptor_Clone(t *testing.T) {
	d := createTestDescriptor()
	c := d.Clone()

	c.SetTile(0, 0, TileCoord{X: 9, Y: 9})
	assert.Equal(t, TileCoord{X: 1, Y: 0}, d.Tile(0, 0), "clone must not share rows")
}
