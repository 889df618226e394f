package v1

import (
	"fmt"
	"slices"
	"sync"

	"github.com/MGTheTrain/crypto-binding/internal/app"

	"go.starlark.net/starlark"
)

// SubmoduleOrder is the order sub-modules are opened in; primitives come before the modules built on them
var SubmoduleOrder = []string{
	"bio", "asn1", "bn", "digest", "cipher", "hmac", "pkey", "ec",
	"x509", "pkcs7", "pkcs12", "csr", "crl", "ocsp", "ts", "cms",
	"ssl", "rsa", "dsa", "dh",
}

// Submodule is a named member of the module, opened against the initialized provider
type Submodule interface {
	Name() string
	Open(p *app.Provider) (starlark.Value, error)
}

// ConditionalSubmodule is a Submodule that is only present when the provider supports it
type ConditionalSubmodule interface {
	Submodule
	Available(p *app.Provider) bool
}

// SubmoduleRegistry maps sub-module names to implementations
type SubmoduleRegistry struct {
	mu   sync.RWMutex
	mods map[string]Submodule
}

// NewSubmoduleRegistry creates an empty registry
func NewSubmoduleRegistry() *SubmoduleRegistry {
	return &SubmoduleRegistry{mods: make(map[string]Submodule)}
}

// Register adds m. Names outside SubmoduleOrder and duplicates are rejected.
func (r *SubmoduleRegistry) Register(m Submodule) error {
	name := m.Name()
	if !slices.Contains(SubmoduleOrder, name) {
		return fmt.Errorf("unknown sub-module %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.mods[name]; exists {
		return fmt.Errorf("sub-module %q already registered", name)
	}
	r.mods[name] = m
	return nil
}

// Lookup returns the implementation registered under name
func (r *SubmoduleRegistry) Lookup(name string) (Submodule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mods[name]
	return m, ok
}

var (
	defaultSubmodules     *SubmoduleRegistry
	defaultSubmodulesOnce sync.Once
)

// DefaultSubmodules returns the process-wide registry, holding the built-in sub-modules
func DefaultSubmodules() *SubmoduleRegistry {
	defaultSubmodulesOnce.Do(func() {
		defaultSubmodules = NewSubmoduleRegistry()
		for _, m := range builtinSubmodules() {
			if err := defaultSubmodules.Register(m); err != nil {
				panic(err)
			}
		}
	})
	return defaultSubmodules
}

// RegisterSubmodule plugs an implementation into the process-wide registry
func RegisterSubmodule(m Submodule) error {
	return DefaultSubmodules().Register(m)
}

func builtinSubmodules() []Submodule {
	return []Submodule{
		bioModule{},
		asn1Module{},
		digestModule{},
		cipherModule{},
		hmacModule{},
		pkeyModule{},
		ecModule{},
		sslModule{},
		bnModule{},
	}
}
