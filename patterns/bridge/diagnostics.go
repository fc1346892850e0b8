package bridge

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKBRG001",
		Severity: diag.Error,
		Title:    "Bridge abstraction must be partial",
		Format:   "type '%s' is marked [Bridge] but is not declared partial",
	}
	InvalidImplementorKind = diag.Descriptor{
		ID:       "PKBRG002",
		Severity: diag.Error,
		Title:    "Bridge implementor must be an interface or abstract class",
		Format:   "implementor '%s' of bridge '%s' is a %s; declare it as an interface or an abstract class",
	}
	MissingImplementor = diag.Descriptor{
		ID:       "PKBRG003",
		Severity: diag.Error,
		Title:    "Bridge implementor type not found",
		Format:   "bridge '%s' %s",
	}
	PropertyCollision = diag.Descriptor{
		ID:       "PKBRG004",
		Severity: diag.Error,
		Title:    "Implementor property name is already used",
		Format:   "bridge '%s' already declares a member named '%s'; choose another ImplementorPropertyName",
	}
	GenericMemberSkipped = diag.Descriptor{
		ID:       "PKBRG005",
		Severity: diag.Warning,
		Title:    "Generic implementor member is not forwarded",
		Format:   "method '%s' of implementor '%s' declares type parameters and is not forwarded",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKBRG006",
		Severity: diag.Error,
		Title:    "Invalid bridge argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
	InvalidAbstractionKind = diag.Descriptor{
		ID:       "PKBRG007",
		Severity: diag.Error,
		Title:    "Bridge abstraction must be a class",
		Format:   "bridge abstraction '%s' is a %s; declare it as a class or record class",
	}
)

// Descriptors lists every rule this generator reports
var Descriptors = []diag.Descriptor{
	NotPartial, InvalidImplementorKind, MissingImplementor, PropertyCollision,
	GenericMemberSkipped, InvalidArgument, InvalidAbstractionKind,
}
