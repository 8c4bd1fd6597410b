// Package asset loads and exports images used by scenes.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/younwookim/tilewalk/internal/domain/entity"
)

// ErrUnsupportedFormat is returned for image extensions the decoder does not know
var ErrUnsupportedFormat = errors.New("asset: unsupported image format")

// DecodeImage decodes png, webp and tga images, chosen by the extension of name.
func DecodeImage(name string, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)

	var (
		img image.Image
		err error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		img, err = png.Decode(r)
	case ".webp":
		img, err = webp.Decode(r)
	case ".tga":
		img, err = tga.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return img, nil
}

// ScaleNearest scales src by an integer factor without smoothing, keeping
// pixel art crisp.
func ScaleNearest(src image.Image, factor int) *image.NRGBA {
	if factor < 1 {
		factor = 1
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// RenderTilemap draws desc onto a new image the size of the scene.
// tileset must already be at the descriptor's tile size.
func RenderTilemap(desc *entity.SceneDescriptor, tileset image.Image) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, desc.Width, desc.Height))
	if tileset == nil {
		return dst
	}
	ts := desc.TileSize
	tb := tileset.Bounds()

	for y, row := range desc.Tilemap {
		for x, c := range row {
			if c.IsEmpty() {
				continue
			}
			src := image.Rect(c.X*ts, c.Y*ts, c.X*ts+ts, c.Y*ts+ts).Add(tb.Min)
			if !src.In(tb) {
				continue
			}
			draw.Copy(dst, image.Pt(x*ts, y*ts), tileset, src, draw.Over, nil)
		}
	}
	return dst
}

// EncodePreview renders desc and writes it to w as lossless webp.
func EncodePreview(w io.Writer, desc *entity.SceneDescriptor, tileset image.Image) error {
	img := RenderTilemap(desc, tileset)
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("failed to encode preview of %s: %w", desc.Name, err)
	}
	return nil
}
