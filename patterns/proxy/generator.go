// Package proxy generates a forwarding proxy for interfaces and abstract
// classes marked [GenerateProxy], optionally running interceptors around
// each call.
package proxy

import "github.com/teranos/patternkit/pattern"

// New returns the generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "Proxy",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}
