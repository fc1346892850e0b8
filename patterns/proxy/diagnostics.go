package proxy

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKPRX001",
		Severity: diag.Error,
		Title:    "Proxy contract must be partial",
		Format:   "type '%s' is marked [GenerateProxy] but is not declared partial",
	}
	GenericContract = diag.Descriptor{
		ID:       "PKPRX002",
		Severity: diag.Error,
		Title:    "Generic contracts are not supported",
		Format:   "proxy contract '%s' declares type parameters",
	}
	GenericMethod = diag.Descriptor{
		ID:       "PKPRX003",
		Severity: diag.Error,
		Title:    "Generic methods are not supported",
		Format:   "method '%s' of proxy contract '%s' declares type parameters",
	}
	EventUnsupported = diag.Descriptor{
		ID:       "PKPRX004",
		Severity: diag.Error,
		Title:    "Events are not supported",
		Format:   "proxy contract '%s' declares event '%s'",
	}
	UnsupportedContract = diag.Descriptor{
		ID:       "PKPRX005",
		Severity: diag.Error,
		Title:    "Contract must be an interface or abstract class",
		Format:   "proxy contract '%s' is a %s; declare it as an interface or an abstract class",
	}
	ProtectedMemberSkipped = diag.Descriptor{
		ID:       "PKPRX006",
		Severity: diag.Warning,
		Title:    "Protected member skipped",
		Format:   "protected member '%s' of '%s' is not proxied",
	}
	NameCollision = diag.Descriptor{
		ID:       "PKPRX007",
		Severity: diag.Error,
		Title:    "Proxy name collides with an existing type",
		Format:   "proxy type '%s' already exists and is not partial",
	}
	ByRefParameter = diag.Descriptor{
		ID:       "PKPRX008",
		Severity: diag.Error,
		Title:    "By-ref parameters cannot be intercepted",
		Format:   "method '%s' has ref, in or out parameters; use InterceptorMode None or mark it [ProxyIgnore]",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKPRX009",
		Severity: diag.Error,
		Title:    "Invalid proxy argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
)

// Descriptors lists every rule this generator reports
var Descriptors = []diag.Descriptor{
	NotPartial, GenericContract, GenericMethod, EventUnsupported, UnsupportedContract,
	ProtectedMemberSkipped, NameCollision, ByRefParameter, InvalidArgument,
}
