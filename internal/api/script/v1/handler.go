package v1

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MGTheTrain/crypto-binding/internal/app"
	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/engine"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/errqueue"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// EngineDirectory is the engine list as seen from scripts
type EngineDirectory interface {
	Lookup(id string) (*engine.Engine, bool)
	LoadByID(ctx context.Context, id, path string) (*engine.Engine, error)
	List() []string
}

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

// Handler implements the top-level functions of the module
type Handler struct {
	algorithms provider.AlgorithmEnumerator
	hex        provider.HexCodec
	objects    provider.ObjectRegistry
	random     provider.RandomGenerator
	engines    EngineDirectory
	newQueue   QueueFactory
	version    app.VersionInfo
	diag       io.Writer
	verbose    bool
	logger     logger.Logger
}

// NewHandler creates a Handler. verboseErrors is what error() does when called without an argument.
func NewHandler(
	algorithms provider.AlgorithmEnumerator,
	hex provider.HexCodec,
	objects provider.ObjectRegistry,
	random provider.RandomGenerator,
	engines EngineDirectory,
	newQueue QueueFactory,
	version app.VersionInfo,
	diag io.Writer,
	verboseErrors bool,
	logger logger.Logger,
) *Handler {
	return &Handler{
		algorithms: algorithms,
		hex:        hex,
		objects:    objects,
		random:     random,
		engines:    engines,
		newQueue:   newQueue,
		version:    version,
		diag:       diag,
		verbose:    verboseErrors,
		logger:     logger,
	}
}

// Members returns the function table keyed by script name
func (h *Handler) Members() starlark.StringDict {
	fns := map[string]builtinFunc{
		"version":         h.Version,
		"list":            h.List,
		"hex":             h.Hex,
		"mem_leaks":       h.MemLeaks,
		"rand_status":     h.RandStatus,
		"rand_load":       h.RandLoad,
		"rand_write":      h.RandWrite,
		"rand_cleanup":    h.RandCleanup,
		"random":          h.Random,
		"error":           h.Error,
		"object":          h.Object,
		"object_by_nid":   h.ObjectByNID,
		"object_by_oid":   h.ObjectByOID,
		"object_register": h.ObjectRegister,
		"engine":          h.Engine,
	}

	members := make(starlark.StringDict, len(fns))
	for name, fn := range fns {
		members[name] = starlark.NewBuiltin(name, fn)
	}
	return members
}

// Version returns (binding, runtime, provider)
func (h *Handler) Version(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.Tuple{
		starlark.String(h.version.Binding),
		starlark.String(h.version.Runtime),
		starlark.String(h.version.Provider),
	}, nil
}

// List returns the sorted names of an algorithm category
func (h *Handler) List(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "category", &name); err != nil {
		return nil, err
	}

	category, err := provider.ParseCategory(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	names, err := h.algorithms.List(category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return stringList(names), nil
}

// Hex encodes bytes to hex text, or with encode=False decodes hex text to bytes
func (h *Handler) Hex(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		data   starlark.Value
		encode = true
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "data", &data, "encode?", &encode); err != nil {
		return nil, err
	}

	raw, ok := asBytes(data)
	if !ok {
		return nil, fmt.Errorf("%s: got %s, want string or bytes", b.Name(), data.Type())
	}

	if encode {
		return starlark.String(h.hex.Encode([]byte(raw))), nil
	}
	out, err := h.hex.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.Bytes(out), nil
}

// MemLeaks reports outstanding allocations
func (h *Handler) MemLeaks(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.String(app.MemoryReport()), nil
}

// RandStatus reports whether the pool is seeded
func (h *Handler) RandStatus(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.Bool(h.random.Status()), nil
}

// RandLoad mixes a seed file or daemon socket into the pool
func (h *Handler) RandLoad(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	path, err := optionalPath(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	ok, err := h.random.LoadFile(threadContext(thread, h.newQueue), path)
	if err != nil {
		h.logger.Debug(fmt.Sprintf("rand_load failed: %v", err))
		return starlark.False, nil
	}
	return starlark.Bool(ok), nil
}

// RandWrite persists pool output to a seed file
func (h *Handler) RandWrite(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	path, err := optionalPath(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	if err := h.random.WriteFile(threadContext(thread, h.newQueue), path); err != nil {
		h.logger.Debug(fmt.Sprintf("rand_write failed: %v", err))
		return starlark.False, nil
	}
	return starlark.True, nil
}

// RandCleanup releases the pool
func (h *Handler) RandCleanup(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	h.random.Cleanup()
	return starlark.None, nil
}

// Random returns length random bytes, strong when asked, or False when the entropy source fails
func (h *Handler) Random(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		length int
		strong bool
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "length", &length, "strong?", &strong); err != nil {
		return nil, err
	}

	mode := provider.RandPseudo
	if strong {
		mode = provider.RandStrong
	}

	out, err := h.random.Bytes(threadContext(thread, h.newQueue), length, mode)
	switch {
	case errors.Is(err, provider.ErrInvalidArgument):
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	case err != nil:
		return starlark.False, nil
	}
	return starlark.Bytes(out), nil
}

// Error pops one record from the calling thread's queue as (code, message), or None.
// With verbose, which defaults to the configured setting, the remaining records are written to the
// diagnostic stream. The queue is left empty.
func (h *Handler) Error(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	verbose := h.verbose
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "verbose?", &verbose); err != nil {
		return nil, err
	}

	rec, ok := ThreadQueue(thread, h.newQueue).Drain(verbose, h.diag)
	if !ok {
		return starlark.None, nil
	}
	return starlark.Tuple{starlark.MakeUint64(uint64(rec.Code)), starlark.String(rec.Message)}, nil
}

// Object keeps the arity-overloaded form: object(nid), object(text), object(oid, name[, alias]).
// The first two return a handle or None; the registration form returns a boolean.
func (h *Handler) Object(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	switch len(args) {
	case 1:
		switch v := args[0].(type) {
		case starlark.Int:
			return h.ObjectByNID(thread, b, args, nil)
		case starlark.String:
			return h.ObjectByOID(thread, b, args, nil)
		default:
			return nil, fmt.Errorf("%s: got %s, want int or string", b.Name(), v.Type())
		}
	case 2, 3:
		obj, err := h.ObjectRegister(thread, b, args, nil)
		if err != nil {
			return nil, err
		}
		return starlark.Bool(obj != starlark.None), nil
	default:
		return nil, fmt.Errorf("%s: got %d arguments, want 1 to 3", b.Name(), len(args))
	}
}

// ObjectByNID looks an object up by numeric id
func (h *Handler) ObjectByNID(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var nid int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "nid", &nid); err != nil {
		return nil, err
	}
	obj, ok := h.objects.LookupByID(nid)
	if !ok {
		return starlark.None, nil
	}
	return NewObject(obj), nil
}

// ObjectByOID looks an object up by dotted OID, short name or long name
func (h *Handler) ObjectByOID(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "oid", &text); err != nil {
		return nil, err
	}
	obj, ok := h.objects.LookupByOID(text)
	if !ok {
		return starlark.None, nil
	}
	return NewObject(obj), nil
}

// ObjectRegister creates an object and returns its handle, or None when the registry rejects it.
// The long name defaults to the short name.
func (h *Handler) ObjectRegister(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var oid, name, alias string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "oid", &oid, "name", &name, "alias?", &alias); err != nil {
		return nil, err
	}

	obj, err := h.objects.Register(threadContext(thread, h.newQueue), provider.ObjectSpec{
		OID:       oid,
		ShortName: name,
		LongName:  alias,
	})
	if err != nil {
		h.logger.Debug(fmt.Sprintf("object registration failed: %v", err))
		return starlark.None, nil
	}
	return NewObject(obj), nil
}

// Engine lists loaded engine ids, returns the engine with the given id, or with load=True brings it
// up through the dynamic loader. Unknown engines yield None.
func (h *Handler) Engine(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		id   string
		load bool
		path string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "id?", &id, "load?", &load, "path?", &path); err != nil {
		return nil, err
	}

	if id == "" {
		return stringList(h.engines.List()), nil
	}

	if load {
		e, err := h.engines.LoadByID(threadContext(thread, h.newQueue), id, path)
		if err != nil {
			return starlark.None, nil
		}
		return engineValue(e), nil
	}

	e, ok := h.engines.Lookup(id)
	if !ok {
		errqueue.Report(threadContext(thread, h.newQueue), errqueue.LibEngine, errqueue.ReasonEngineNotFound, id)
		return starlark.None, nil
	}
	return engineValue(e), nil
}

func engineValue(e *engine.Engine) starlark.Value {
	return starlarkstruct.FromStringDict(starlark.String("engine"), starlark.StringDict{
		"id":            starlark.String(e.ID),
		"name":          starlark.String(e.Name),
		"path":          starlark.String(e.Path),
		"platform_seed": starlark.Bool(e.PlatformSeed),
	})
}

func optionalPath(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (string, error) {
	var v starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "path?", &v); err != nil {
		return "", err
	}
	switch p := v.(type) {
	case starlark.NoneType:
		return "", nil
	case starlark.String:
		return string(p), nil
	default:
		return "", fmt.Errorf("%s: got %s, want string or None", b.Name(), v.Type())
	}
}

func stringList(items []string) *starlark.List {
	values := make([]starlark.Value, len(items))
	for i, s := range items {
		values[i] = starlark.String(s)
	}
	return starlark.NewList(values)
}

// asBytes returns the contents of a string or bytes value
func asBytes(v starlark.Value) (string, bool) {
	switch x := v.(type) {
	case starlark.String:
		return string(x), true
	case starlark.Bytes:
		return string(x), true
	default:
		return "", false
	}
}
