// Package visitor generates delegate-based visitors over a class or
// interface hierarchy marked [GenerateVisitor]. A node is handled by the
// nearest type on its ancestor chain that has a registered handler.
package visitor

import "github.com/teranos/patternkit/pattern"

// New returns the generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "Visitor",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}
