package generator

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
	"github.com/teranos/patternkit/patterns/bridge"
	"github.com/teranos/patternkit/patterns/composite"
	"github.com/teranos/patternkit/patterns/dispatcher"
	"github.com/teranos/patternkit/patterns/iterator"
	"github.com/teranos/patternkit/patterns/observer"
	"github.com/teranos/patternkit/patterns/prototype"
	"github.com/teranos/patternkit/patterns/proxy"
	"github.com/teranos/patternkit/patterns/statemachine"
	"github.com/teranos/patternkit/patterns/visitor"
)

// Registry maps marker names to the generator that owns them.
type Registry struct {
	gens     []pattern.Generator
	byMarker map[string]pattern.Generator
}

// NewRegistry registers generators in order. Two generators claiming the
// same marker or the same pattern name is an error.
func NewRegistry(gens ...pattern.Generator) (*Registry, error) {
	r := &Registry{byMarker: make(map[string]pattern.Generator)}
	names := make(map[string]bool)
	for _, g := range gens {
		if names[g.Name()] {
			return nil, errors.Newf("pattern %s registered twice", g.Name())
		}
		names[g.Name()] = true
		for _, m := range g.Markers() {
			m = model.NormalizeAttributeName(m)
			if prev, ok := r.byMarker[m]; ok {
				return nil, errors.Newf("marker [%s] claimed by both %s and %s", m, prev.Name(), g.Name())
			}
			r.byMarker[m] = g
		}
		r.gens = append(r.gens, g)
	}
	return r, nil
}

// Default returns a registry with every built-in generator
func Default() *Registry {
	r, err := NewRegistry(
		composite.New(),
		visitor.New(),
		observer.New(),
		statemachine.New(),
		prototype.New(),
		proxy.New(),
		bridge.New(),
		iterator.New(),
		iterator.NewTraversal(),
		dispatcher.New(),
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Generators returns the registered generators in registration order
func (r *Registry) Generators() []pattern.Generator {
	return append([]pattern.Generator(nil), r.gens...)
}

// ForMarker finds the generator owning a normalized marker name
func (r *Registry) ForMarker(name string) (pattern.Generator, bool) {
	g, ok := r.byMarker[name]
	return g, ok
}

// Catalog lists every descriptor a pass with this registry can report
func (r *Registry) Catalog() (*diag.Catalog, error) {
	groups := [][]diag.Descriptor{model.Descriptors, Descriptors}
	for _, g := range r.gens {
		groups = append(groups, g.Descriptors())
	}
	c, err := diag.NewCatalog(groups...)
	if err != nil {
		return nil, errors.Wrap(err, "build diagnostic catalog")
	}
	return c, nil
}
