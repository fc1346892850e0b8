// Package diag carries diagnostics about user declarations.
//
// A Descriptor is the stable identity of one rule (pattern prefix plus a
// three digit code, e.g. PKST004). External tooling filters and suppresses by
// that ID, so an ID is never reused or renumbered once published.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/patternkit/errors"
)

// Severity of a diagnostic. Errors block emission for their candidate; warnings never do.
type Severity int

const (
	Warning Severity = iota + 1
	Error
)

// String returns "warning" or "error"
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name for JSON/YAML output
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name
func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "warning":
		*s = Warning
	case "error":
		*s = Error
	default:
		return errors.Newf("unknown severity %q", string(b))
	}
	return nil
}

// Location points at the attribute or member a diagnostic is about.
type Location struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty" toml:"column,omitempty"`
}

// IsZero reports whether the location carries no position
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

// String renders file:line:column, dropping unknown parts
func (l Location) String() string {
	if l.IsZero() {
		return "<unknown>"
	}
	var sb strings.Builder
	sb.WriteString(l.File)
	if l.Line > 0 {
		sb.WriteString(fmt.Sprintf(":%d", l.Line))
		if l.Column > 0 {
			sb.WriteString(fmt.Sprintf(":%d", l.Column))
		}
	}
	return sb.String()
}

// Or returns l unless it is zero, in which case fallback is returned
func (l Location) Or(fallback Location) Location {
	if l.IsZero() {
		return fallback
	}
	return l
}

// Descriptor is the static definition of one rule.
type Descriptor struct {
	ID       string
	Severity Severity
	Title    string
	// Format is a fmt format string for the message
	Format string
}

// At instantiates the descriptor at a location
func (d Descriptor) At(loc Location, args ...any) Diagnostic {
	return Diagnostic{
		ID:       d.ID,
		Severity: d.Severity,
		Message:  fmt.Sprintf(d.Format, args...),
		Location: loc,
	}
}

// Diagnostic is one reported finding.
type Diagnostic struct {
	ID       string   `json:"id" yaml:"id"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Location Location `json:"location" yaml:"location"`
	// Candidate is the qualified name and pattern of the candidate that produced it, if any
	Candidate string `json:"candidate,omitempty" yaml:"candidate,omitempty"`
}

// String renders the diagnostic the way compilers do: location: severity ID: message
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Location, d.Severity, d.ID, d.Message)
}

// IsError reports whether the diagnostic blocks emission
func (d Diagnostic) IsError() bool {
	return d.Severity == Error
}

// HasErrors reports whether any diagnostic in ds is an error
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Count returns the number of errors and warnings in ds
func Count(ds []Diagnostic) (errs, warnings int) {
	for _, d := range ds {
		switch d.Severity {
		case Error:
			errs++
		case Warning:
			warnings++
		}
	}
	return errs, warnings
}

// IDs returns the diagnostic IDs in order, convenient for assertions and logging
func IDs(ds []Diagnostic) []string {
	ids := make([]string, len(ds))
	for i, d := range ds {
		ids[i] = d.ID
	}
	return ids
}

// Sort orders diagnostics by file, line, column, then ID. The sort is stable
// so diagnostics at the same position keep their reporting order.
func Sort(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i].Location, ds[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return ds[i].ID < ds[j].ID
	})
}
