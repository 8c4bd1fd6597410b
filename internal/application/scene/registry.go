package scene

import (
	"context"
	"sort"
	"sync"

	"github.com/younwookim/tilewalk/internal/domain/entity"
)

// Registration is everything a scene module registered under one name.
type Registration struct {
	mu          sync.RWMutex
	descriptor  *entity.SceneDescriptor
	process     ProcessFunc
	preProcess  HookFunc
	postProcess HookFunc
}

// Descriptor returns the registered descriptor
func (r *Registration) Descriptor() *entity.SceneDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.descriptor
}

// Process returns the per-frame closure, or a no-op if none was set
func (r *Registration) Process() ProcessFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.process == nil {
		return noopProcess
	}
	return r.process
}

func (r *Registration) runPreProcess() {
	r.mu.RLock()
	fn := r.preProcess
	r.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (r *Registration) runPostProcess() {
	r.mu.RLock()
	fn := r.postProcess
	r.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Handle is returned by Register and lets a module attach its hooks.
type Handle struct {
	reg      *Registration
	name     string
	registry *Registry
}

// Process sets the per-frame closure
func (h *Handle) Process(fn ProcessFunc) {
	h.reg.mu.Lock()
	h.reg.process = fn
	h.reg.mu.Unlock()
}

// PreProcess sets the hook run when the scene becomes current
func (h *Handle) PreProcess(fn HookFunc) {
	h.reg.mu.Lock()
	h.reg.preProcess = fn
	h.reg.mu.Unlock()
}

// PostProcess sets the hook run when the scene stops being current
func (h *Handle) PostProcess(fn HookFunc) {
	h.reg.mu.Lock()
	h.reg.postProcess = fn
	h.reg.mu.Unlock()
}

// DeclareNeighbors adds an edge from this scene to each name and returns
// the swap function of the registry's manager.
func (h *Handle) DeclareNeighbors(names ...string) SwapFunc {
	h.registry.graph.AddEdges(h.name, names...)
	return h.registry.swap
}

// Registry maps scene names to their registrations.
type Registry struct {
	mu    sync.RWMutex
	regs  map[string]*Registration
	graph *Graph
	swap  SwapFunc
}

// NewRegistry creates a registry whose handles add edges to graph and
// swap through swap.
func NewRegistry(graph *Graph, swap SwapFunc) *Registry {
	if swap == nil {
		swap = func(context.Context, string) error { return nil }
	}
	return &Registry{
		regs:  make(map[string]*Registration),
		graph: graph,
		swap:  swap,
	}
}

// Register stores desc under desc.Name, replacing any earlier registration.
func (r *Registry) Register(desc *entity.SceneDescriptor) *Handle {
	reg := &Registration{descriptor: desc}

	r.mu.Lock()
	r.regs[desc.Name] = reg
	r.mu.Unlock()

	return &Handle{reg: reg, name: desc.Name, registry: r}
}

// Lookup returns the latest registration for name
func (r *Registry) Lookup(name string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.regs[name]
	return reg, ok
}

// UpdateDescriptor swaps the descriptor of an existing registration,
// keeping its hooks. It returns false if desc.Name is not registered.
func (r *Registry) UpdateDescriptor(desc *entity.SceneDescriptor) bool {
	reg, ok := r.Lookup(desc.Name)
	if !ok {
		return false
	}
	reg.mu.Lock()
	reg.descriptor = desc
	reg.mu.Unlock()
	return true
}

// Names returns the registered scene names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.regs))
	for name := range r.regs {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}
