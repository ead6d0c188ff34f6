package codegen

import (
	"sort"
	"sync"

	"github.com/multicode/codegraph/internal/packages"
)

// Registry maps node type tags to generators. Registration is last-write-wins
// per tag; overwriting a builtin with a package-supplied generator is allowed.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]NodeGenerator

	// Package-aware mode: extra type tags resolved lazily through lookup.
	lookup packages.LookupFunc
	extra  map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]NodeGenerator)}
}

// NewDefaultRegistry creates a registry containing one generator per built-in
// node type.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, g := range builtinGenerators() {
		r.Register(g)
	}
	return r
}

// NewPackageRegistry creates a default registry that additionally resolves
// the given type tags through a caller-supplied package definition lookup.
// Each extra tag is resolved lazily on first use and cached.
func NewPackageRegistry(lookup packages.LookupFunc, extraTypes []string) *Registry {
	r := NewDefaultRegistry()
	r.lookup = lookup
	r.extra = make(map[string]bool, len(extraTypes))
	for _, t := range extraTypes {
		r.extra[t] = true
	}
	return r
}

// Register adds a generator, replacing any previous one for the same tag.
func (r *Registry) Register(g NodeGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[g.Type()] = g
}

// Get returns the generator for a type tag, or nil when none is registered.
func (r *Registry) Get(typeTag string) NodeGenerator {
	r.mu.RLock()
	g, ok := r.generators[typeTag]
	r.mu.RUnlock()
	if ok {
		return g
	}
	return r.resolvePackage(typeTag)
}

// Has reports whether a generator exists for the type tag.
func (r *Registry) Has(typeTag string) bool {
	return r.Get(typeTag) != nil
}

// SupportedTypes returns all registered and declared type tags, sorted.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool, len(r.generators)+len(r.extra))
	for t := range r.generators {
		seen[t] = true
	}
	for t := range r.extra {
		seen[t] = true
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// resolvePackage lazily materializes a template generator for a declared
// third-party type tag.
func (r *Registry) resolvePackage(typeTag string) NodeGenerator {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.generators[typeTag]; ok {
		return g // raced with another resolver
	}
	if r.lookup == nil || !r.extra[typeTag] {
		return nil
	}
	def, ok := r.lookup(typeTag)
	if !ok || def == nil {
		return nil
	}
	g := newTemplateGenerator(typeTag, def)
	r.generators[typeTag] = g
	return g
}
