package scene

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/younwookim/tilewalk/internal/application/cache"
	"github.com/younwookim/tilewalk/internal/application/state"
	"github.com/younwookim/tilewalk/internal/domain/entity"
)

var (
	// ErrLoadFailed wraps every error that stops a swap before its hooks run
	ErrLoadFailed = errors.New("scene: load failed")
	// ErrUnknownModule is returned for names with no module
	ErrUnknownModule = errors.New("scene: unknown module")
	// ErrNotRegistered is returned when a module loaded without registering its scene
	ErrNotRegistered = errors.New("scene: not registered")
)

// Resizer is the part of the viewport the manager drives after a swap.
type Resizer interface {
	Resize(width, height int)
}

// Options configures a Manager.
type Options struct {
	Modules  Modules
	Viewport Resizer
	// Env is handed to modules; its Registry is filled in by NewManager
	Env *Env
	// CacheOptions configure the scene cache, e.g. cache.WithMaxConcurrentLoads
	CacheOptions []cache.Option
}

// Manager owns the swap protocol and the published current scene.
//
// Swaps are serialized: a Swap that arrives while another is in flight waits
// for it to finish. The render loop reads Current without locking.
type Manager struct {
	modules  Modules
	viewport Resizer
	env      *Env
	graph    *Graph
	registry *Registry
	cache    *cache.ResourceCache[*Registration]

	current atomic.Pointer[Current]
	state   atomic.Int32
	slot    chan struct{}

	mu        sync.Mutex
	listeners []func(*entity.SceneDescriptor)
}

// NewManager creates a manager with an empty graph, registry and cache.
// ctx bounds every module load started by the manager.
func NewManager(ctx context.Context, opts Options) *Manager {
	m := &Manager{
		modules:  opts.Modules,
		viewport: opts.Viewport,
		graph:    NewGraph(),
		slot:     make(chan struct{}, 1),
	}
	if m.modules == nil {
		m.modules = Modules{}
	}
	m.registry = NewRegistry(m.graph, m.Swap)
	m.cache = cache.New[*Registration](ctx, opts.CacheOptions...)

	m.env = opts.Env
	if m.env == nil {
		m.env = &Env{}
	}
	m.env.Registry = m.registry

	m.current.Store(&Current{Process: noopProcess})
	return m
}

// Registry returns the scene registry
func (m *Manager) Registry() *Registry { return m.registry }

// Graph returns the scene graph
func (m *Manager) Graph() *Graph { return m.graph }

// Cache returns the scene cache
func (m *Manager) Cache() *cache.ResourceCache[*Registration] { return m.cache }

// Current returns the published scene. It is never nil.
func (m *Manager) Current() *Current {
	return m.current.Load()
}

// State returns where the manager is in a swap
func (m *Manager) State() state.SwapState {
	return state.SwapState(m.state.Load())
}

func (m *Manager) setState(s state.SwapState) {
	m.state.Store(int32(s))
}

// OnSwap registers fn to run after every successful swap
func (m *Manager) OnSwap(fn func(*entity.SceneDescriptor)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) notify(desc *entity.SceneDescriptor) {
	m.mu.Lock()
	listeners := append([]func(*entity.SceneDescriptor)(nil), m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(desc)
	}
}

func (m *Manager) acquire(ctx context.Context) error {
	select {
	case m.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) release() {
	<-m.slot
}

// importModule runs the module for name and returns what it registered.
func (m *Manager) importModule(ctx context.Context, name string) (*Registration, error) {
	mod, ok := m.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	if err := mod(ctx, m.env); err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", name, err)
	}
	reg, ok := m.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return reg, nil
}

// load returns the cached or newly started load of name.
func (m *Manager) load(name string) *cache.Future[*Registration] {
	return m.cache.GetOrLoad(name, m.importModule)
}

// prime starts background loads for the neighbours of name that are not
// cached yet. Failures stay in the cache and surface on a direct swap.
func (m *Manager) prime(name string) {
	for _, n := range m.graph.NeighborsOf(name) {
		if m.cache.Has(n) {
			continue
		}
		f := m.load(n)
		go func(n string) {
			if _, err := f.Wait(context.Background()); err != nil {
				log.Printf("scene: prefetch %s: %v", n, err)
			}
		}(n)
	}
}

// Swap makes name the current scene.
//
// The target is loaded through the cache, its neighbours are primed without
// waiting, then the incoming PreProcess runs before the outgoing PostProcess.
// Only then is the new scene published and the viewport resized. A failed
// load returns an error wrapping ErrLoadFailed and changes nothing, as does
// a ctx that ends while waiting for an earlier swap.
// Hooks must not call Swap synchronously; use SwapAsync.
func (m *Manager) Swap(ctx context.Context, name string) error {
	if err := m.acquire(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadFailed, name, err)
	}
	defer m.release()

	m.setState(state.SwapLoading)
	defer m.setState(state.SwapIdle)

	if _, err := m.load(name).Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadFailed, name, err)
	}

	m.prime(name)

	next, ok := m.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s: %w", ErrLoadFailed, name, ErrNotRegistered)
	}

	m.setState(state.SwapRunningHooks)
	prev := m.current.Load()
	next.runPreProcess()
	if prev.reg != nil {
		prev.reg.runPostProcess()
	}

	desc := next.Descriptor()
	m.current.Store(&Current{
		Descriptor: desc,
		Process:    next.Process(),
		reg:        next,
	})
	m.setState(state.SwapPublished)

	if m.viewport != nil {
		m.viewport.Resize(desc.Width, desc.Height)
	}
	m.notify(desc)

	log.Printf("scene: swapped %q -> %q", prev.Name(), name)
	return nil
}

// SwapAsync runs Swap on its own goroutine and logs a failure.
// Process closures use it so the render loop never blocks on a load.
func (m *Manager) SwapAsync(name string) {
	go func() {
		if err := m.Swap(context.Background(), name); err != nil {
			log.Printf("scene: swap to %s: %v", name, err)
		}
	}()
}

// Reload drops the cached load of name and swaps to it again, re-running
// its module.
func (m *Manager) Reload(ctx context.Context, name string) error {
	m.cache.Invalidate(name)
	return m.Swap(ctx, name)
}

// ApplyDescriptor replaces the descriptor of a registered scene, keeping its
// hooks. If the scene is current it is republished and the viewport resized.
// It returns false when the scene is not registered.
func (m *Manager) ApplyDescriptor(ctx context.Context, desc *entity.SceneDescriptor) (bool, error) {
	if err := m.acquire(ctx); err != nil {
		return false, err
	}
	defer m.release()

	if !m.registry.UpdateDescriptor(desc) {
		return false, nil
	}

	cur := m.current.Load()
	if cur.Name() != desc.Name {
		return true, nil
	}

	m.current.Store(&Current{
		Descriptor: desc,
		Process:    cur.reg.Process(),
		reg:        cur.reg,
	})
	if m.viewport != nil {
		m.viewport.Resize(desc.Width, desc.Height)
	}
	m.notify(desc)
	return true, nil
}
