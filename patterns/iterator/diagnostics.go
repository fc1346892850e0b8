package iterator

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKIT001",
		Severity: diag.Error,
		Title:    "Iterator type must be partial",
		Format:   "type '%s' is marked for iterator generation but is not declared partial",
	}
	NoStep = diag.Descriptor{
		ID:       "PKIT002",
		Severity: diag.Error,
		Title:    "No step method",
		Format:   "iterator '%s' has no method marked [IteratorStep]",
	}
	MultipleSteps = diag.Descriptor{
		ID:       "PKIT003",
		Severity: diag.Error,
		Title:    "Multiple step methods",
		Format:   "iterator '%s' marks more than one method [IteratorStep]: %s",
	}
	InvalidStepSignature = diag.Descriptor{
		ID:       "PKIT004",
		Severity: diag.Error,
		Title:    "Invalid step signature",
		Format:   "step method '%s' must have the shape 'bool %s(ref TState state, out TItem item)'",
	}
	NoChildProvider = diag.Descriptor{
		ID:       "PKIT005",
		Severity: diag.Error,
		Title:    "No child provider",
		Format:   "traversal '%s' has no method marked [TraversalChildren]",
	}
	MultipleChildProviders = diag.Descriptor{
		ID:       "PKIT006",
		Severity: diag.Error,
		Title:    "Multiple child providers",
		Format:   "traversal '%s' marks more than one method [TraversalChildren]: %s",
	}
	ChildProviderNotStatic = diag.Descriptor{
		ID:       "PKIT007",
		Severity: diag.Error,
		Title:    "Child provider must be static",
		Format:   "child provider '%s' must be static",
	}
	InvalidChildProviderSignature = diag.Descriptor{
		ID:       "PKIT008",
		Severity: diag.Error,
		Title:    "Invalid child provider signature",
		Format:   "child provider '%s' must have the shape 'static IEnumerable<T> %s(T node)'",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKIT009",
		Severity: diag.Error,
		Title:    "Invalid iterator argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
	SeedMismatch = diag.Descriptor{
		ID:       "PKIT010",
		Severity: diag.Error,
		Title:    "Seed does not match step state",
		Format:   "seed member '%s' cannot seed the step state of '%s': %s",
	}
)

// Descriptors lists every rule both iterator generators report
var Descriptors = []diag.Descriptor{
	NotPartial, NoStep, MultipleSteps, InvalidStepSignature,
	NoChildProvider, MultipleChildProviders, ChildProviderNotStatic, InvalidChildProviderSignature,
	InvalidArgument, SeedMismatch,
}
