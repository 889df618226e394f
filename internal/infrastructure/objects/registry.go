package objects

import (
	"context"
	"fmt"
	"sync"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/metrics"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/validators"
)

// Registry is the process-wide object identifier table. Entries are never removed.
type Registry struct {
	mu      *sync.RWMutex
	byNID   map[int]provider.Object
	byOID   map[string]int
	byName  map[string]int
	nextNID int
	logger  logger.Logger
	metrics *metrics.Metrics
}

var _ provider.ObjectRegistry = (*Registry)(nil)

// New creates an empty registry serialized by mu; a nil mu gets a private lock
func New(mu *sync.RWMutex, logger logger.Logger, m *metrics.Metrics) *Registry {
	if mu == nil {
		mu = &sync.RWMutex{}
	}
	return &Registry{
		mu:      mu,
		byNID:   make(map[int]provider.Object),
		byOID:   make(map[string]int),
		byName:  make(map[string]int),
		nextNID: FirstDynamicNID,
		logger:  logger,
		metrics: m,
	}
}

// LoadBuiltin adds the well-known objects and returns how many were added. Repeated calls add nothing.
func (r *Registry) LoadBuiltin() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, obj := range builtinObjects {
		if _, exists := r.byNID[obj.NID]; exists {
			continue
		}
		r.insert(obj)
		if obj.NID >= r.nextNID {
			r.nextNID = obj.NID + 1
		}
		added++
	}
	return added
}

func (r *Registry) insert(obj provider.Object) {
	r.byNID[obj.NID] = obj
	r.byOID[obj.OID] = obj.NID
	r.byName[obj.ShortName] = obj.NID
	r.byName[obj.LongName] = obj.NID
}

// LookupByID returns the object with the given numeric id
func (r *Registry) LookupByID(nid int) (*provider.Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.byNID[nid]
	if !ok {
		return nil, false
	}
	return &obj, true
}

// LookupByOID resolves text to an object. Dotted OIDs are tried first, then short and long names.
func (r *Registry) LookupByOID(text string) (*provider.Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nid, ok := r.byOID[text]
	if !ok {
		nid, ok = r.byName[text]
	}
	if !ok {
		return nil, false
	}
	obj := r.byNID[nid]
	return &obj, true
}

// Register creates a permanent entry. The long name defaults to the short name.
// A rejected registration returns ErrRegistrationFailure and leaves the reason on the caller's error queue.
func (r *Registry) Register(ctx context.Context, spec provider.ObjectSpec) (*provider.Object, error) {
	if spec.LongName == "" {
		spec.LongName = spec.ShortName
	}

	if !validators.IsDottedOID(spec.OID) {
		errqueue.Report(ctx, errqueue.LibOBJ, errqueue.ReasonOBJInvalidOID, spec.OID)
		return nil, fmt.Errorf("%w: malformed OID %q", provider.ErrRegistrationFailure, spec.OID)
	}
	if err := spec.Validate(); err != nil {
		errqueue.Report(ctx, errqueue.LibOBJ, errqueue.ReasonOBJInvalidSpec, spec.ShortName)
		return nil, fmt.Errorf("%w: %v", provider.ErrRegistrationFailure, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byOID[spec.OID]; exists {
		errqueue.Report(ctx, errqueue.LibOBJ, errqueue.ReasonOBJOIDExists, spec.OID)
		return nil, fmt.Errorf("%w: OID %s already registered", provider.ErrRegistrationFailure, spec.OID)
	}
	for _, name := range []string{spec.ShortName, spec.LongName} {
		if _, exists := r.byName[name]; exists {
			errqueue.Report(ctx, errqueue.LibOBJ, errqueue.ReasonOBJNameExists, name)
			return nil, fmt.Errorf("%w: name %q already registered", provider.ErrRegistrationFailure, name)
		}
	}

	obj := provider.Object{
		NID:       r.nextNID,
		ShortName: spec.ShortName,
		LongName:  spec.LongName,
		OID:       spec.OID,
	}
	r.nextNID++
	r.insert(obj)

	r.metrics.ObjectRegistered()
	if r.logger != nil {
		r.logger.Debug(fmt.Sprintf("registered object %s (%s) as nid %d", obj.ShortName, obj.OID, obj.NID))
	}
	return &obj, nil
}

// Len returns the number of entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byNID)
}
