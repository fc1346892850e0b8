package pattern

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
)

// RequirePartial reports desc for d and for every containing type that is
// not partial. The descriptor's format takes the type name.
func RequirePartial(bag *diag.Bag, d *model.Declaration, desc diag.Descriptor, loc diag.Location) bool {
	ok := true
	for _, c := range d.Containing {
		if !c.Partial {
			bag.Report(desc, loc, c.Name)
			ok = false
		}
	}
	if !d.IsPartial() {
		bag.Report(desc, loc, d.QualifiedName())
		ok = false
	}
	return ok
}

// MarkerLocation is where diagnostics about the candidate as a whole are
// reported: the marker attribute when it has a position, else the declaration.
func MarkerLocation(d *model.Declaration, marker model.Attribute) diag.Location {
	return marker.Location.Or(d.Location)
}

// HasTaskShape reports void or non-generic ValueTask, the return types a
// parameterless hook may use
func HasTaskShape(t model.TypeRef) bool {
	return t.IsVoid() || t.IsValueTask()
}

// AcceptsOptionalToken reports zero parameters or one CancellationToken
func AcceptsOptionalToken(m *model.Member) bool {
	switch len(m.Parameters) {
	case 0:
		return true
	case 1:
		p := m.Parameters[0]
		return p.RefKind == model.ByValue && p.Type.IsCancellationToken()
	}
	return false
}

// TakesToken reports whether the member's single parameter is a CancellationToken
func TakesToken(m *model.Member) bool {
	return len(m.Parameters) == 1 && m.Parameters[0].Type.IsCancellationToken()
}
