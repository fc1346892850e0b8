// Package statemachine generates table-driven Fire/CanFire methods for types
// marked [StateMachine], from [StateTransition], [StateGuard], [StateEntry]
// and [StateExit] members.
//
// A fire runs guard, exit hook, transition action, state assignment and entry
// hook, in that order. A rejected guard stops before anything is mutated.
package statemachine

import "github.com/teranos/patternkit/pattern"

// New returns the generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "StateMachine",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}
