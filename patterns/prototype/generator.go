// Package prototype generates a Clone method for types marked [Prototype].
// Each member is duplicated by its strategy: by reference, a one-level copy
// of a collection, a delegated clone, or a user hook.
package prototype

import "github.com/teranos/patternkit/pattern"

// New returns the generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "Prototype",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}
