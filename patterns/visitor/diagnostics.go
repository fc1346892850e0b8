package visitor

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKVIS001",
		Severity: diag.Error,
		Title:    "Visitor hierarchy root must be partial",
		Format:   "type '%s' is marked [GenerateVisitor] but is not declared partial",
	}
	InvalidRootKind = diag.Descriptor{
		ID:       "PKVIS002",
		Severity: diag.Error,
		Title:    "Visitor root must be a class, record class or interface",
		Format:   "hierarchy root '%s' is a %s; declare it as a class, record class or interface",
	}
	SealedRoot = diag.Descriptor{
		ID:       "PKVIS003",
		Severity: diag.Error,
		Title:    "Visitor root is sealed",
		Format:   "hierarchy root '%s' is sealed and can have no descendants",
	}
	NoDescendants = diag.Descriptor{
		ID:       "PKVIS004",
		Severity: diag.Warning,
		Title:    "Visitor hierarchy has no descendants",
		Format:   "no type in this compilation unit derives from or implements '%s'",
	}
	SimpleNameClash = diag.Descriptor{
		ID:       "PKVIS005",
		Severity: diag.Error,
		Title:    "Hierarchy members share a simple name",
		Format:   "types '%s' and '%s' in the hierarchy of '%s' share the simple name '%s'",
	}
	GenericDescendantSkipped = diag.Descriptor{
		ID:       "PKVIS006",
		Severity: diag.Warning,
		Title:    "Generic descendant is not visited",
		Format:   "generic type '%s' in the hierarchy of '%s' has no handler slot; instances dispatch to its nearest non-generic ancestor",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKVIS007",
		Severity: diag.Error,
		Title:    "Invalid visitor argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
)

// Descriptors lists every rule this generator reports
var Descriptors = []diag.Descriptor{
	NotPartial, InvalidRootKind, SealedRoot, NoDescendants, SimpleNameClash, GenericDescendantSkipped, InvalidArgument,
}
