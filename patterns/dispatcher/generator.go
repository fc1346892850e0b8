// Package dispatcher generates an in-process message dispatcher for a class
// marked [GenerateDispatcher]. Types marked [Command], [Notification] or
// [StreamRequest] are routed to it by namespace or by an explicit
// Dispatcher argument.
package dispatcher

import "github.com/teranos/patternkit/pattern"

// New returns the generator
func New() pattern.Generator {
	return &pattern.Definition[Config, Plan]{
		Pattern:     "Dispatcher",
		MarkerNames: []string{Marker},
		Rules:       Descriptors,
		Parse:       ParseConfig,
		Validate:    Validate,
		Emit:        Emit,
	}
}
