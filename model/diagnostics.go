package model

import "github.com/teranos/patternkit/diag"

var (
	UnknownKind = diag.Descriptor{
		ID:       "PKGEN001",
		Severity: diag.Error,
		Title:    "Unknown declaration kind",
		Format:   "declaration '%s' has unknown kind '%s'",
	}
	UnknownMemberKind = diag.Descriptor{
		ID:       "PKGEN002",
		Severity: diag.Error,
		Title:    "Unknown member kind",
		Format:   "member '%s' of '%s' has unknown kind '%s'; the member is ignored",
	}
	UnknownAccessibility = diag.Descriptor{
		ID:       "PKGEN003",
		Severity: diag.Warning,
		Title:    "Unknown accessibility",
		Format:   "'%s' has unknown accessibility '%s'; the language default is used",
	}
	UnknownModifier = diag.Descriptor{
		ID:       "PKGEN004",
		Severity: diag.Warning,
		Title:    "Unknown modifier or ref kind",
		Format:   "'%s' has unknown %s '%s'; it is ignored",
	}
	UnparseableType = diag.Descriptor{
		ID:       "PKGEN005",
		Severity: diag.Error,
		Title:    "Unparseable type name",
		Format:   "'%s' has a type name that cannot be read: %v",
	}
	DuplicateDeclaration = diag.Descriptor{
		ID:       "PKGEN006",
		Severity: diag.Error,
		Title:    "Duplicate declaration",
		Format:   "declaration '%s' is defined more than once; only the first definition is used",
	}
)

// Descriptors lists the diagnostics the builder reports
var Descriptors = []diag.Descriptor{
	UnknownKind,
	UnknownMemberKind,
	UnknownAccessibility,
	UnknownModifier,
	UnparseableType,
	DuplicateDeclaration,
}
