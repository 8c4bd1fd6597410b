package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"github.com/younwookim/tilewalk/internal/domain/entity"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// testTileset is two 2x2 tiles side by side: red then blue
func testTileset() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				img.SetNRGBA(x, y, red)
			} else {
				img.SetNRGBA(x, y, blue)
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeReader struct {
	mu    sync.Mutex
	files map[string][]byte
	reads map[string]int
}

func newFakeReader(files map[string][]byte) *fakeReader {
	return &fakeReader{files: files, reads: make(map[string]int)}
}

func (r *fakeReader) ReadAsset(name string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads[name]++
	data, ok := r.files[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (r *fakeReader) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads[name]
}

func TestDecodeImage(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		img, err := DecodeImage("tiles.PNG", encodePNG(t, testTileset()))

		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	})

	t.Run("tga", func(t *testing.T) {
		// 1x1 uncompressed true-colour, top-left origin, one BGR pixel
		data := []byte{
			0, 0, 2,
			0, 0, 0, 0, 0,
			0, 0, 0, 0,
			1, 0, 1, 0,
			24, 0x20,
			0, 0, 255,
		}

		img, err := DecodeImage("tiles.tga", data)

		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
		assert.Equal(t, red, color.NRGBAModel.Convert(img.At(0, 0)))
	})

	t.Run("corrupt data", func(t *testing.T) {
		_, err := DecodeImage("tiles.png", []byte("not an image"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := DecodeImage("tiles.bmp", nil)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestScaleNearest(t *testing.T) {
	scaled := ScaleNearest(testTileset(), 4)

	assert.Equal(t, image.Rect(0, 0, 16, 8), scaled.Bounds())
	assert.Equal(t, red, scaled.NRGBAAt(7, 7))
	assert.Equal(t, blue, scaled.NRGBAAt(8, 0), "no blending at the tile edge")

	assert.Equal(t, image.Rect(0, 0, 4, 2), ScaleNearest(testTileset(), 0).Bounds())
}

func TestRenderTilemap(t *testing.T) {
	desc := entity.NewSceneDescriptor("room", "tiles.png", 3, 1, 2)
	desc.SetTile(0, 0, entity.TileCoord{X: 1, Y: 0})
	desc.SetTile(1, 0, entity.TileCoord{X: 0, Y: 0})
	desc.SetTile(2, 0, entity.TileCoord{X: 5, Y: 5}) // outside the tileset

	img := RenderTilemap(desc, testTileset())

	assert.Equal(t, image.Rect(0, 0, 6, 2), img.Bounds())
	assert.Equal(t, blue, img.NRGBAAt(0, 0))
	assert.Equal(t, red, img.NRGBAAt(3, 1))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(5, 0))
}

func TestEncodePreview(t *testing.T) {
	desc := entity.NewSceneDescriptor("room", "tiles.png", 2, 1, 2)
	desc.SetTile(0, 0, entity.TileCoord{X: 0, Y: 0})
	desc.SetTile(1, 0, entity.TileCoord{X: 1, Y: 0})

	var buf bytes.Buffer
	require.NoError(t, EncodePreview(&buf, desc, testTileset()))

	require.Greater(t, buf.Len(), 12)
	assert.Equal(t, "RIFF", buf.String()[0:4])
	assert.Equal(t, "WEBP", buf.String()[8:12])

	cfg, err := webp.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, 2, cfg.Height)
}

func TestLibrary_Source(t *testing.T) {
	r := newFakeReader(map[string][]byte{
		"assets/tiles.png": encodePNG(t, testTileset()),
	})
	lib := NewLibrary(context.Background(), r, 2)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := lib.Source(context.Background(), "assets/tiles.png")
			assert.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.count("assets/tiles.png"), "decoded once")
	assert.Equal(t, []string{"assets/tiles.png"}, lib.Keys())

	lib.Invalidate("assets/tiles.png")
	_, err := lib.Source(context.Background(), "assets/tiles.png")
	require.NoError(t, err)
	assert.Equal(t, 2, r.count("assets/tiles.png"))
}

func TestLibrary_SourceMissing(t *testing.T) {
	r := newFakeReader(nil)
	lib := NewLibrary(context.Background(), r, 1)

	_, err := lib.Source(context.Background(), "missing.png")
	assert.Error(t, err)

	_, err = lib.Source(context.Background(), "missing.png")
	assert.Error(t, err)
	assert.Equal(t, 1, r.count("missing.png"), "failures are cached")
}
