// Package observer generates a typed subscriber registry for types marked
// [Observer(typeof(TPayload))].
//
// Publish always iterates an immutable snapshot of the subscribers. The
// threading policy decides how the registry itself is guarded and the
// exception policy what a failing subscriber does to the rest.
package observer

import "github.com/teranos/patternkit/pattern"

// New returns the generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "Observer",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}
