// Package iterator generates enumerators. [Iterator] types get a struct
// enumerator driven by a bool TryStep(ref TState, out TItem) method;
// [TraversalIterator] types get depth-first and breadth-first walks over a
// static child provider.
package iterator

import "github.com/teranos/patternkit/pattern"

// New returns the step iterator generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "Iterator",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}

// NewTraversal returns the traversal generator
func NewTraversal() pattern.Generator {
	return &pattern.Definition[TraversalConfig, TraversalPlan]{
		Pattern:     "Traversal",
		MarkerNames: []string{TraversalMarker},
		Rules:       Descriptors,
		Parse:       ParseTraversalConfig,
		Validate:    ValidateTraversal,
		Emit:        EmitTraversal,
	}
}
