package prototype

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKPRO001",
		Severity: diag.Error,
		Title:    "Prototype type must be partial",
		Format:   "type '%s' is marked [Prototype] but is not declared partial",
	}
	GenericType = diag.Descriptor{
		ID:       "PKPRO002",
		Severity: diag.Error,
		Title:    "Generic prototypes are not supported",
		Format:   "prototype '%s' declares type parameters",
	}
	NestedType = diag.Descriptor{
		ID:       "PKPRO003",
		Severity: diag.Error,
		Title:    "Nested prototypes are not supported",
		Format:   "prototype '%s' is nested in another type",
	}
	AbstractType = diag.Descriptor{
		ID:       "PKPRO004",
		Severity: diag.Error,
		Title:    "Abstract prototypes are not supported",
		Format:   "prototype '%s' is a %s and cannot be instantiated",
	}
	NoConstruction = diag.Descriptor{
		ID:       "PKPRO005",
		Severity: diag.Error,
		Title:    "No construction path",
		Format:   "prototype '%s' has neither a parameterless constructor nor a copy constructor",
	}
	NotCloneable = diag.Descriptor{
		ID:       "PKPRO006",
		Severity: diag.Error,
		Title:    "Member type cannot be cloned",
		Format:   "member '%s' uses the Clone strategy but %s",
	}
	MissingCustomHook = diag.Descriptor{
		ID:       "PKPRO007",
		Severity: diag.Error,
		Title:    "Custom clone hook missing",
		Format:   "member '%s' uses the Custom strategy; declare 'private static %s %s(%s value)'",
	}
	DeepCopyUnsupported = diag.Descriptor{
		ID:       "PKPRO008",
		Severity: diag.Error,
		Title:    "DeepCopy is not supported",
		Format:   "member '%s' uses the DeepCopy strategy, which is reserved and not implemented",
	}
	SharedMutableMember = diag.Descriptor{
		ID:       "PKPRO009",
		Severity: diag.Warning,
		Title:    "Mutable member copied by reference",
		Format:   "member '%s' of mutable type '%s' is copied by reference; the clone and the original share it",
	}
	RedundantMarker = diag.Descriptor{
		ID:       "PKPRO010",
		Severity: diag.Warning,
		Title:    "Marker has no effect",
		Format:   "[%s] on member '%s' has no effect when %s",
	}
	ShallowCopyUnsupported = diag.Descriptor{
		ID:       "PKPRO011",
		Severity: diag.Error,
		Title:    "ShallowCopy needs a collection",
		Format:   "member '%s' uses the ShallowCopy strategy but '%s' is not an array or a known collection type",
	}
	NotAssignable = diag.Descriptor{
		ID:       "PKPRO012",
		Severity: diag.Error,
		Title:    "Member cannot be assigned",
		Format:   "member '%s' is copied but cannot be assigned by %s",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKPRO013",
		Severity: diag.Error,
		Title:    "Invalid prototype argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
	ReadOnlyFieldSkipped = diag.Descriptor{
		ID:       "PKPRO014",
		Severity: diag.Warning,
		Title:    "Readonly field is not copied",
		Format:   "readonly field '%s' cannot be assigned by %s and keeps its default in the clone; mark it [%s] or add a copy constructor",
	}
)

// Descriptors lists every rule this generator reports
var Descriptors = []diag.Descriptor{
	NotPartial, GenericType, NestedType, AbstractType, NoConstruction, NotCloneable,
	MissingCustomHook, DeepCopyUnsupported, SharedMutableMember, RedundantMarker,
	ShallowCopyUnsupported, NotAssignable, InvalidArgument, ReadOnlyFieldSkipped,
}
