package main

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/younwookim/tilewalk/internal/application/scene"
	"github.com/younwookim/tilewalk/internal/application/system"
	"github.com/younwookim/tilewalk/internal/domain/entity"
	"github.com/younwookim/tilewalk/internal/infrastructure/watch"
)

// sceneTarget is the part of the manager hot reload drives
type sceneTarget interface {
	Current() *scene.Current
	ApplyDescriptor(ctx context.Context, desc *entity.SceneDescriptor) (bool, error)
	Reload(ctx context.Context, name string) error
}

type invalidator interface {
	Invalidate(path string)
}

// hotReloader applies watched file changes to the running game
type hotReloader struct {
	base     string
	tileSize int
	scenes   scene.SceneSource
	target   sceneTarget
	images   invalidator
}

func (h *hotReloader) run(ctx context.Context, w *watch.Watcher) {
	for {
		select {
		case change, ok := <-w.Events:
			if !ok {
				return
			}
			h.apply(ctx, change)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("hotreload: watch error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

func (h *hotReloader) apply(ctx context.Context, c watch.Change) {
	switch c.Kind {
	case watch.KindScene:
		if c.Removed {
			return
		}
		h.applyScene(ctx, c.Scene)
	case watch.KindAsset:
		h.applyAsset(ctx, c.Path)
	}
}

func (h *hotReloader) applyScene(ctx context.Context, name string) {
	cfg, err := h.scenes.LoadScene(name)
	if err != nil {
		log.Printf("hotreload: %v", err)
		return
	}
	desc, err := system.LoadDescriptor(cfg, h.tileSize)
	if err != nil {
		log.Printf("hotreload: %v", err)
		return
	}
	ok, err := h.target.ApplyDescriptor(ctx, desc)
	if err != nil {
		log.Printf("hotreload: apply %s: %v", name, err)
		return
	}
	if ok {
		log.Printf("hotreload: applied %s", name)
	}
}

// applyAsset drops a changed image and reloads the current scene if it draws it
func (h *hotReloader) applyAsset(ctx context.Context, path string) {
	key, ok := assetKey(h.base, path)
	if !ok {
		return
	}
	if h.images != nil {
		h.images.Invalidate(key)
		h.images.Invalidate("/" + key)
	}

	cur := h.target.Current()
	if cur.Descriptor == nil || assetKeyOf(cur.Descriptor.Tileset) != key {
		return
	}
	if err := h.target.Reload(ctx, cur.Name()); err != nil {
		log.Printf("hotreload: reload %s: %v", cur.Name(), err)
		return
	}
	log.Printf("hotreload: reloaded %s for %s", cur.Name(), key)
}

// assetKey returns the slash path of file relative to base, as scenes name it
func assetKey(base, file string) (string, bool) {
	rel, err := filepath.Rel(base, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func assetKeyOf(tileset string) string {
	return strings.TrimLeft(tileset, "/")
}
