package config

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScene = `{
  "name": "room",
  "tileset": "/assets/tileset.png",
  "tilemap": [[{"x": 0, "y": 0}, {"x": -1, "y": -1}]],
  "xCount": 2,
  "yCount": 1,
  "width": 128,
  "height": 64,
  "exits": [{"target": "hall", "rect": {"x": 1, "y": 0, "w": 1, "h": 1}, "arrive": {"x": 3, "y": 4}}]
}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"game.yaml": &fstest.MapFile{Data: []byte(`
display:
  screenWidth: 640
  screenHeight: 360
scenes:
  start: room
  prefetchConcurrency: 2
dev:
  enabled: true
`)},
		"scenes/room.json":   &fstest.MapFile{Data: []byte(testScene)},
		"scenes/hall.json":   &fstest.MapFile{Data: []byte(`{"name": "hall"}`)},
		"scenes/notes.txt":   &fstest.MapFile{Data: []byte("ignored")},
		"scenes/bad-1.json":  &fstest.MapFile{Data: []byte("{}")},
		"assets/tileset.png": &fstest.MapFile{Data: []byte("png")},
	}
}

func TestLoader_LoadGame(t *testing.T) {
	loader := NewFSLoader(testFS(), "configs")

	cfg, err := loader.LoadGame()
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Display.ScreenWidth)
	assert.Equal(t, 360, cfg.Display.ScreenHeight)
	assert.Equal(t, 60, cfg.Display.Framerate, "unset fields keep defaults")
	assert.Equal(t, "room", cfg.Scenes.Start)
	assert.Equal(t, 2, cfg.Scenes.PrefetchConcurrency)
	assert.Equal(t, 64, cfg.Tiles.TileSize())
	assert.True(t, cfg.Dev.Enabled)
	assert.Equal(t, "localhost:3033", cfg.Dev.Addr)
}

func TestLoader_LoadGame_Missing(t *testing.T) {
	loader := NewFSLoader(fstest.MapFS{}, "configs")

	_, err := loader.LoadGame()
	assert.Error(t, err)
}

func TestLoader_LoadScene(t *testing.T) {
	loader := NewFSLoader(testFS(), "configs")

	cfg, err := loader.LoadScene("room")
	require.NoError(t, err)

	assert.Equal(t, "room", cfg.Name)
	assert.Equal(t, 2, cfg.XCount)
	require.Len(t, cfg.Tilemap, 1)
	assert.Equal(t, TileConfig{X: -1, Y: -1}, cfg.Tilemap[0][1])
	require.Len(t, cfg.Exits, 1)
	assert.Equal(t, "hall", cfg.Exits[0].Target)
	assert.Equal(t, 4, cfg.Exits[0].Arrive.Y)
}

func TestLoader_LoadScene_Errors(t *testing.T) {
	loader := NewFSLoader(testFS(), "configs")

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadScene("nowhere")
		assert.Error(t, err)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := loader.LoadScene("../game")
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("name differs from file", func(t *testing.T) {
		fsys := testFS()
		fsys["scenes/hall.json"] = &fstest.MapFile{Data: []byte(`{"name": "room"}`)}
		_, err := NewFSLoader(fsys, "configs").LoadScene("hall")
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("invalid json", func(t *testing.T) {
		fsys := testFS()
		fsys["scenes/broken.json"] = &fstest.MapFile{Data: []byte("{")}
		_, err := NewFSLoader(fsys, "configs").LoadScene("broken")
		assert.Error(t, err)
	})
}

func TestLoader_SceneIndex(t *testing.T) {
	loader := NewFSLoader(testFS(), "configs")

	names, err := loader.SceneIndex()
	require.NoError(t, err)
	assert.Equal(t, []string{"hall", "room"}, names)
}

func TestLoader_ReadAsset(t *testing.T) {
	loader := NewFSLoader(testFS(), "configs")

	data, err := loader.ReadAsset("/assets/tileset.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = loader.ReadAsset("../secret")
	assert.Error(t, err)
}

func TestLoader_SaveScene(t *testing.T) {
	t.Run("read-only loader", func(t *testing.T) {
		loader := NewFSLoader(testFS(), "configs")
		err := loader.SaveScene(&SceneConfig{Name: "room"})
		assert.ErrorIs(t, err, ErrReadOnly)
	})

	t.Run("writes and reads back", func(t *testing.T) {
		dir := t.TempDir()
		loader := NewLoader(dir)

		err := loader.SaveScene(&SceneConfig{Name: "fresh", XCount: 3, YCount: 2})
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "scenes", "fresh.json"))
		require.NoError(t, err)

		cfg, err := loader.LoadScene("fresh")
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.XCount)
	})

	t.Run("rejects bad name", func(t *testing.T) {
		loader := NewLoader(t.TempDir())
		err := loader.SaveScene(&SceneConfig{Name: "a/b"})
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestSceneNameFromPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"configs/scenes/room.json", "room", true},
		{"room.json.tmp", "", false},
		{"scenes/readme.md", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			name, ok := SceneNameFromPath(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestLoader_Paths(t *testing.T) {
	ro := NewFSLoader(testFS(), "configs")
	assert.False(t, ro.Writable())
	assert.Empty(t, ro.ScenesPath())

	dir := t.TempDir()
	rw := NewLoader(dir)
	rw.SetScenesDir("levels/rooms")
	assert.True(t, rw.Writable())
	assert.Equal(t, dir, rw.BasePath())
	assert.Equal(t, filepath.Join(dir, "levels", "rooms"), rw.ScenesPath())
}
