package composite

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKCPS001",
		Severity: diag.Error,
		Title:    "Composite contract must be partial",
		Format:   "type '%s' is marked [Composite] but is not declared partial",
	}
	InvalidContractKind = diag.Descriptor{
		ID:       "PKCPS002",
		Severity: diag.Error,
		Title:    "Composite contract must be an interface or abstract class",
		Format:   "component contract '%s' is a %s; declare it as an interface or an abstract class",
	}
	GenericContract = diag.Descriptor{
		ID:       "PKCPS003",
		Severity: diag.Error,
		Title:    "Generic component contracts are not supported",
		Format:   "component contract '%s' declares type parameters",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKCPS004",
		Severity: diag.Error,
		Title:    "Invalid composite argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
	NoOperations = diag.Descriptor{
		ID:       "PKCPS005",
		Severity: diag.Warning,
		Title:    "Component contract declares no operations",
		Format:   "component contract '%s' declares no methods or properties",
	}
	EventSkipped = diag.Descriptor{
		ID:       "PKCPS006",
		Severity: diag.Warning,
		Title:    "Events are not forwarded",
		Format:   "event '%s' of '%s' is declared abstract on the component base and is not forwarded to children",
	}
)

// Descriptors lists every rule this generator reports
var Descriptors = []diag.Descriptor{
	NotPartial, GenericContract, InvalidContractKind, InvalidArgument, NoOperations, EventSkipped,
}
