package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/tilewalk/internal/application/cache"
	"github.com/younwookim/tilewalk/internal/application/game"
	"github.com/younwookim/tilewalk/internal/application/replay"
	"github.com/younwookim/tilewalk/internal/application/scene"
	"github.com/younwookim/tilewalk/internal/application/scene/levels"
	"github.com/younwookim/tilewalk/internal/application/system"
	"github.com/younwookim/tilewalk/internal/application/viewport"
	"github.com/younwookim/tilewalk/internal/infrastructure/asset"
	"github.com/younwookim/tilewalk/internal/infrastructure/config"
	"github.com/younwookim/tilewalk/internal/infrastructure/devserver"
	"github.com/younwookim/tilewalk/internal/infrastructure/watch"
)

type flags struct {
	dir     string
	scene   string
	dev     bool
	trace   string
	record  string
	replay  string
	profile string
}

func main() {
	var f flags
	flag.StringVar(&f.dir, "dir", "", "Read configs from this directory instead of the embedded copy (enables saving and watching)")
	flag.StringVar(&f.scene, "scene", "", "Scene to start in (default from game.yaml)")
	flag.BoolVar(&f.dev, "dev", false, "Serve the scene editor API")
	flag.StringVar(&f.trace, "trace", "", "Record scene swaps to file (e.g., -trace swaps.json)")
	flag.StringVar(&f.record, "record", "", "Record hero input to file (e.g., -record replay.json)")
	flag.StringVar(&f.replay, "replay", "", "Play hero input back from file")
	flag.StringVar(&f.profile, "profile", "", "Write a cpu or mem profile")
	flag.Parse()

	if err := run(f); err != nil {
		log.Fatalf("tilewalk: %v", err)
	}
}

func newLoader(dir string) (*config.Loader, error) {
	if dir != "" {
		return config.NewLoader(dir), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, err
	}
	return config.NewFSLoader(fsys, "configs"), nil
}

func run(f flags) error {
	prof, err := startProfile(f.profile)
	if err != nil {
		return err
	}
	defer prof.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader, err := newLoader(f.dir)
	if err != nil {
		return err
	}
	cfg, err := loader.LoadGame()
	if err != nil {
		return err
	}
	loader.SetScenesDir(cfg.Scenes.Dir)

	start := cfg.Scenes.Start
	if f.scene != "" {
		start = f.scene
	}
	if start == "" {
		start = levels.Start
	}

	display := cfg.Display
	vp := viewport.New(display.ScreenWidth, display.ScreenHeight)
	vp.Zoom(cfg.Viewport.Zoom, display.ScreenWidth, display.ScreenHeight)

	tileSize := cfg.Tiles.TileSize()
	images := asset.NewLibrary(ctx, loader, cfg.Tiles.ScaleBase)

	steer := system.NewInputSystem(vp)
	read := steer.GetInput
	switch {
	case f.replay != "":
		data, err := replay.LoadReplay(f.replay)
		if err != nil {
			return err
		}
		if data.Scene != "" {
			start = data.Scene
		}
		read = replay.NewReplayer(*data).GetInput
	case f.record != "":
		rec := replay.NewRecorder(start, steer.GetInput)
		read = rec.GetInput
		defer func() {
			if err := rec.Save(f.record); err != nil {
				log.Printf("record: %v", err)
				return
			}
			log.Printf("record: saved %d frames to %s", rec.FrameCount(), f.record)
		}()
	}
	world := levels.NewWorld(steer, read)

	var cacheOpts []cache.Option
	if n := cfg.Scenes.PrefetchConcurrency; n > 0 {
		cacheOpts = append(cacheOpts, cache.WithMaxConcurrentLoads(n))
	}
	manager := scene.NewManager(ctx, scene.Options{
		Modules:  levels.Modules(world),
		Viewport: vp,
		Env: &scene.Env{
			Viewport:  vp,
			Scenes:    loader,
			Images:    images,
			TileSize:  tileSize,
			GlideTime: cfg.Viewport.GlideTime,
		},
		CacheOptions: cacheOpts,
	})

	if f.trace != "" {
		rec := NewRecorder(start)
		manager.OnSwap(rec.Record)
		defer func() {
			if err := rec.Save(f.trace); err != nil {
				log.Printf("trace: %v", err)
				return
			}
			log.Printf("trace: saved %d swaps to %s", rec.Count(), f.trace)
		}()
	}

	if err := manager.Swap(ctx, start); err != nil {
		return err
	}

	if f.dev || cfg.Dev.Enabled {
		startDev(ctx, cfg, loader, images, manager)
	}

	g := game.New(manager, vp, game.Options{ShowDelta: cfg.Viewport.ShowDelta})

	ebiten.SetWindowSize(display.ScreenWidth, display.ScreenHeight)
	ebiten.SetWindowTitle(display.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(display.Framerate)

	return ebiten.RunGame(g)
}

// startDev serves the editor API and, for on-disk configs, applies file edits live
func startDev(ctx context.Context, cfg *config.GameConfig, loader *config.Loader, images *asset.Library, manager *scene.Manager) {
	srv := devserver.New(devserver.Options{
		Scenes:   loader,
		Images:   images,
		Applier:  manager,
		TileSize: cfg.Tiles.TileSize(),
		CacheKeys: func() map[string][]string {
			return map[string][]string{
				"scenes": manager.Cache().Keys(),
				"assets": images.Keys(),
			}
		},
	})
	go func() {
		if err := srv.ListenAndServe(ctx, cfg.Dev.Addr); err != nil {
			log.Printf("devserver: %v", err)
		}
	}()

	if !cfg.Dev.Watch || !loader.Writable() {
		return
	}
	base := loader.BasePath()
	w, err := watch.New(loader.ScenesPath(), filepath.Join(base, "assets"))
	if err != nil {
		log.Printf("watch: %v", err)
		return
	}
	context.AfterFunc(ctx, func() { _ = w.Close() })

	h := &hotReloader{
		base:     base,
		tileSize: cfg.Tiles.TileSize(),
		scenes:   loader,
		target:   manager,
		images:   images,
	}
	go h.run(ctx, w)
}
