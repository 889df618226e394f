package algorithms

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
)

// Entry is one name in a category table. An alias carries the canonical name in AliasOf.
type Entry struct {
	Name    string
	AliasOf string
	Impl    any
}

// Table is the provider-wide algorithm name table. It is written during initialization and read-only after.
type Table struct {
	mu        *sync.RWMutex
	names     map[provider.Category]map[string]Entry
	tlsSuites []TLSSuite
}

// NewTable creates an empty table guarded by mu; a nil mu gets a private lock
func NewTable(mu *sync.RWMutex) *Table {
	if mu == nil {
		mu = &sync.RWMutex{}
	}
	names := make(map[provider.Category]map[string]Entry, 4)
	for _, c := range provider.Categories() {
		names[c] = make(map[string]Entry)
	}
	return &Table{mu: mu, names: names}
}

// Add registers a canonical entry. Adding an existing name fails.
func (t *Table) Add(category provider.Category, name string, impl any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	names, ok := t.names[category]
	if !ok {
		return fmt.Errorf("%w: unknown category %q", provider.ErrInvalidArgument, category)
	}
	if _, exists := names[name]; exists {
		return fmt.Errorf("%s %q already registered", category, name)
	}
	names[name] = Entry{Name: name, Impl: impl}
	return nil
}

// Alias registers alias as another name for target
func (t *Table) Alias(category provider.Category, alias, target string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	names, ok := t.names[category]
	if !ok {
		return fmt.Errorf("%w: unknown category %q", provider.ErrInvalidArgument, category)
	}
	if _, exists := names[target]; !exists {
		return fmt.Errorf("%s alias %q targets unknown name %q", category, alias, target)
	}
	if _, exists := names[alias]; exists {
		return fmt.Errorf("%s %q already registered", category, alias)
	}
	names[alias] = Entry{Name: alias, AliasOf: target}
	return nil
}

// List returns every name of a category sorted byte-wise, built completely before it is returned
func (t *Table) List(category provider.Category) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names, ok := t.names[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", provider.ErrInvalidArgument, category)
	}

	list := make([]string, 0, len(names))
	for name := range names {
		list = append(list, name)
	}
	sort.Strings(list)
	return list, nil
}

// Len returns the number of names in a category
func (t *Table) Len(category provider.Category) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names[category])
}

// Lookup resolves a name, following one alias hop, to its canonical entry
func (t *Table) Lookup(category provider.Category, name string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.names[category][name]
	if !ok {
		return Entry{}, false
	}
	if e.AliasOf != "" {
		e, ok = t.names[category][e.AliasOf]
	}
	return e, ok
}

// Digest returns the digest method registered under name
func (t *Table) Digest(name string) (*DigestMethod, bool) {
	e, ok := t.Lookup(provider.CategoryDigests, name)
	if !ok {
		return nil, false
	}
	d, ok := e.Impl.(*DigestMethod)
	return d, ok
}

// Cipher returns the cipher method registered under name
func (t *Table) Cipher(name string) (*CipherMethod, bool) {
	e, ok := t.Lookup(provider.CategoryCiphers, name)
	if !ok {
		return nil, false
	}
	c, ok := e.Impl.(*CipherMethod)
	return c, ok
}

// Comp returns the compression method registered under name
func (t *Table) Comp(name string) (*CompMethod, bool) {
	e, ok := t.Lookup(provider.CategoryComps, name)
	if !ok {
		return nil, false
	}
	c, ok := e.Impl.(*CompMethod)
	return c, ok
}
