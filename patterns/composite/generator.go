// Package composite generates a component base and a composite base for
// contracts marked [Composite]. The composite keeps an ordered child list and
// forwards void and ValueTask operations to every child in order.
package composite

import "github.com/teranos/patternkit/pattern"

// New returns the generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "Composite",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}
