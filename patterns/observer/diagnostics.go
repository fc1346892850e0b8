package observer

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKOBS001",
		Severity: diag.Error,
		Title:    "Observer type must be partial",
		Format:   "type '%s' is marked [Observer] but is not declared partial",
	}
	MissingPayload = diag.Descriptor{
		ID:       "PKOBS002",
		Severity: diag.Error,
		Title:    "Payload type missing",
		Format:   "observer '%s' does not name a payload type",
	}
	RacyAsync = diag.Descriptor{
		ID:       "PKOBS003",
		Severity: diag.Warning,
		Title:    "Unsynchronized registry with forced async",
		Format:   "observer '%s' uses ThreadingPolicy SingleThreadedFast with ForceAsync; subscriptions changed while an async publish is in flight race with it",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKOBS004",
		Severity: diag.Error,
		Title:    "Invalid observer argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
	NotClass = diag.Descriptor{
		ID:       "PKOBS005",
		Severity: diag.Error,
		Title:    "Observer must be a class",
		Format:   "observer '%s' is a %s; only classes and record classes are supported",
	}
)

// Descriptors lists every rule this generator reports
var Descriptors = []diag.Descriptor{NotPartial, MissingPayload, RacyAsync, InvalidArgument, NotClass}
