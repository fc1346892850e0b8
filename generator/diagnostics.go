package generator

import "github.com/teranos/patternkit/diag"

var (
	DuplicateMarker = diag.Descriptor{
		ID:       "PKGEN007",
		Severity: diag.Warning,
		Title:    "Marker applied more than once",
		Format:   "'%s' carries [%s] more than once; only the first is generated",
	}
	InternalFailure = diag.Descriptor{
		ID:       "PKGEN008",
		Severity: diag.Error,
		Title:    "Generator failure",
		Format:   "the %s generator failed on '%s': %v",
	}
	DuplicateKey = diag.Descriptor{
		ID:       "PKGEN009",
		Severity: diag.Error,
		Title:    "Duplicate document key",
		Format:   "document '%s' from %s collides with the one from %s; it is dropped",
	}
)

// Descriptors lists the diagnostics the driver itself reports
var Descriptors = []diag.Descriptor{
	DuplicateMarker,
	InternalFailure,
	DuplicateKey,
}
