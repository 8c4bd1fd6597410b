package asset

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/tilewalk/internal/application/cache"
)

// Reader reads asset bytes by path
type Reader interface {
	ReadAsset(name string) ([]byte, error)
}

// Library decodes tilesets once and shares them between scenes.
//
// Decoded images are scaled by the configured factor so a tileset of
// pixel-base tiles lines up with the on-screen tile size.
type Library struct {
	reader  Reader
	scale   int
	sources *cache.ResourceCache[image.Image]
	images  *cache.ResourceCache[*ebiten.Image]
}

// NewLibrary creates a library reading through r and scaling by scale
func NewLibrary(ctx context.Context, r Reader, scale int) *Library {
	return &Library{
		reader:  r,
		scale:   scale,
		sources: cache.New[image.Image](ctx),
		images:  cache.New[*ebiten.Image](ctx),
	}
}

// Source returns the decoded and scaled image at path.
func (l *Library) Source(ctx context.Context, path string) (image.Image, error) {
	return l.sources.GetOrLoad(path, l.loadSource).Wait(ctx)
}

func (l *Library) loadSource(_ context.Context, path string) (image.Image, error) {
	data, err := l.reader.ReadAsset(path)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(path, data)
	if err != nil {
		return nil, err
	}
	return ScaleNearest(img, l.scale), nil
}

// Image returns the GPU image for path
func (l *Library) Image(ctx context.Context, path string) (*ebiten.Image, error) {
	return l.images.GetOrLoad(path, l.loadImage).Wait(ctx)
}

func (l *Library) loadImage(ctx context.Context, path string) (*ebiten.Image, error) {
	src, err := l.Source(ctx, path)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(src), nil
}

// Invalidate drops path so the next request reads it again
func (l *Library) Invalidate(path string) {
	l.sources.Invalidate(path)
	l.images.Invalidate(path)
}

// Keys returns the cached asset paths
func (l *Library) Keys() []string {
	return l.sources.Keys()
}
