package diag

// Bag accumulates diagnostics for one validation call. The zero value is ready to use.
type Bag struct {
	items []Diagnostic
}

// Report instantiates d at loc and adds it
func (b *Bag) Report(d Descriptor, loc Location, args ...any) {
	b.items = append(b.items, d.At(loc, args...))
}

// Add appends already-built diagnostics
func (b *Bag) Add(ds ...Diagnostic) {
	b.items = append(b.items, ds...)
}

// HasErrors reports whether an error has been reported so far
func (b *Bag) HasErrors() bool {
	return HasErrors(b.items)
}

// Len returns the number of diagnostics reported
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a copy of the reported diagnostics in reporting order
func (b *Bag) Items() []Diagnostic {
	if len(b.items) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}
