// Package bridge generates the abstraction side of a bridge: a protected
// constructor taking the implementor, the implementor property, and
// protected forwarders for every accessible implementor member.
package bridge

import "github.com/teranos/patternkit/pattern"

// New returns the generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "Bridge",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}
