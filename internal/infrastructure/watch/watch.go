// Package watch reports edits to scene and asset files.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/younwookim/tilewalk/internal/infrastructure/config"
)

// debounce is how long a file must stay quiet before its change is reported
const debounce = 100 * time.Millisecond

// Kind is what changed
type Kind int

const (
	KindScene Kind = iota
	KindAsset
)

// Change is one debounced file edit
type Change struct {
	Kind    Kind
	Path    string
	Scene   string // scene name, for KindScene
	Removed bool
}

type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	// fired carries the paths whose debounce timer expired
	fired chan fire
}

// fire is one expired timer; gen tells a stale timer from the latest
type fire struct {
	path string
	gen  int
}

type pendingChange struct {
	change Change
	timer  *time.Timer
	gen    int
}

// New watches dirs, non-recursively.
func New(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		fired:   make(chan fire),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once it has stopped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// run reports each file once it has been quiet for the debounce window,
// with the last change seen for it.
func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	pending := make(map[string]*pendingChange)
	defer func() {
		for _, p := range pending {
			p.timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			change, ok := Classify(event)
			if !ok {
				continue
			}
			p, ok := pending[event.Name]
			if !ok {
				p = &pendingChange{}
				pending[event.Name] = p
			} else {
				p.timer.Stop()
			}
			p.change = change
			p.gen++
			p.timer = w.schedule(fire{path: event.Name, gen: p.gen})
		case f := <-w.fired:
			p, ok := pending[f.path]
			if !ok || p.gen != f.gen {
				continue
			}
			delete(pending, f.path)
			select {
			case w.Events <- p.change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) schedule(f fire) *time.Timer {
	return time.AfterFunc(debounce, func() {
		select {
		case w.fired <- f:
		case <-w.closeCh:
		}
	})
}

// Classify turns a raw event into a Change, dropping files and operations
// nothing reloads.
func Classify(event fsnotify.Event) (Change, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return Change{}, false
	}
	removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0

	if name, ok := config.SceneNameFromPath(event.Name); ok {
		return Change{Kind: KindScene, Path: event.Name, Scene: name, Removed: removed}, true
	}
	if isImageFile(event.Name) {
		return Change{Kind: KindAsset, Path: event.Name, Removed: removed}, true
	}
	return Change{}, false
}

func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".webp", ".tga":
		return true
	}
	return false
}
