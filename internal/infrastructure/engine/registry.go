package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"
)

// Well-known engine ids
const (
	IDDynamic = "dynamic"
	IDBuiltin = "builtin"
)

// Engine is a loaded engine
type Engine struct {
	ID   string
	Name string
	// Path is where a dynamically loaded engine came from, empty otherwise.
	Path string
	// PlatformSeed marks engines that need the platform entropy collector run once they are up.
	PlatformSeed bool
}

// Factory creates an engine for the dynamic loader. path is the configured location, possibly empty.
type Factory func(ctx context.Context, path string) (*Engine, error)

// Registry is the process-wide engine list
type Registry struct {
	mu        *sync.RWMutex
	engines   map[string]*Engine
	order     []string
	factories map[string]Factory
	logger    logger.Logger
}

// New creates an empty registry guarded by mu; a nil mu gets a private lock
func New(mu *sync.RWMutex, logger logger.Logger) *Registry {
	if mu == nil {
		mu = &sync.RWMutex{}
	}
	return &Registry{
		mu:        mu,
		engines:   make(map[string]*Engine),
		factories: make(map[string]Factory),
		logger:    logger,
	}
}

// RegisterFactory makes id loadable through the dynamic loader. A later registration replaces an earlier one.
func (r *Registry) RegisterFactory(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = f
}

func (r *Registry) add(e *Engine) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[e.ID]; exists {
		return false
	}
	r.engines[e.ID] = e
	r.order = append(r.order, e.ID)
	return true
}

// LoadDynamic brings up the dynamic loader engine
func (r *Registry) LoadDynamic() {
	r.add(&Engine{ID: IDDynamic, Name: "Dynamic engine loading support"})
}

// LoadBuiltin brings up the default engine backed by the Go runtime's crypto packages.
// On Windows it asks for the platform entropy collector.
func (r *Registry) LoadBuiltin() {
	r.add(&Engine{
		ID:           IDBuiltin,
		Name:         fmt.Sprintf("Go %s built-in crypto engine", runtime.Version()),
		PlatformSeed: runtime.GOOS == "windows",
	})
}

// LoadByID loads an engine through the dynamic loader. Loading an id that is already up returns it.
func (r *Registry) LoadByID(ctx context.Context, id, path string) (*Engine, error) {
	if e, ok := r.Lookup(id); ok {
		return e, nil
	}

	r.mu.RLock()
	_, dynamic := r.engines[IDDynamic]
	factory, known := r.factories[id]
	r.mu.RUnlock()

	if !dynamic {
		errqueue.Report(ctx, errqueue.LibEngine, errqueue.ReasonEngineNotFound, IDDynamic)
		return nil, fmt.Errorf("%w: dynamic engine loader not loaded", provider.ErrNotFound)
	}
	if !known {
		errqueue.Report(ctx, errqueue.LibEngine, errqueue.ReasonEngineNotFound, id)
		return nil, fmt.Errorf("%w: engine %q", provider.ErrNotFound, id)
	}

	e, err := factory(ctx, path)
	if err != nil {
		errqueue.Report(ctx, errqueue.LibEngine, errqueue.ReasonEngineInitFailed, id)
		return nil, fmt.Errorf("%w: engine %q failed to initialize: %v", provider.ErrProvider, id, err)
	}
	if e == nil {
		errqueue.Report(ctx, errqueue.LibEngine, errqueue.ReasonEngineInitFailed, id)
		return nil, fmt.Errorf("%w: engine %q factory returned no engine", provider.ErrProvider, id)
	}
	e.ID = id
	e.Path = path
	if !r.add(e) {
		existing, _ := r.Lookup(id)
		return existing, nil
	}

	if r.logger != nil {
		r.logger.Info(fmt.Sprintf("loaded engine %s", id))
	}
	return e, nil
}

// Lookup returns a loaded engine
func (r *Registry) Lookup(id string) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[id]
	if !ok {
		return nil, false
	}
	cp := *e
	return &cp, true
}

// List returns loaded engine ids in load order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Factories returns the ids the dynamic loader can bring up, sorted
func (r *Registry) Factories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NeedingPlatformSeed returns the loaded engines flagged for platform entropy collection
func (r *Registry) NeedingPlatformSeed() []*Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Engine
	for _, id := range r.order {
		if e := r.engines[id]; e.PlatformSeed {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}
