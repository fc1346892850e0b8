// Package emit holds the text primitives shared by every pattern emitter:
// an indenting line writer, document keys and headers, and C# naming helpers.
package emit

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// Writer builds generated source one line at a time.
type Writer struct {
	sb    strings.Builder
	depth int
}

// NewWriter returns an empty writer at depth zero
func NewWriter() *Writer {
	return &Writer{}
}

// Line writes s at the current indentation. An empty s writes a blank line
// without trailing whitespace.
func (w *Writer) Line(s string) {
	if s != "" {
		for i := 0; i < w.depth; i++ {
			w.sb.WriteString(indentUnit)
		}
		w.sb.WriteString(s)
	}
	w.sb.WriteByte('\n')
}

// Linef is Line with fmt formatting
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Blank writes an empty line
func (w *Writer) Blank() {
	w.sb.WriteByte('\n')
}

// Open writes a header line followed by "{" and indents
func (w *Writer) Open(header string) {
	w.Line(header)
	w.Line("{")
	w.depth++
}

// Openf is Open with fmt formatting
func (w *Writer) Openf(format string, args ...any) {
	w.Open(fmt.Sprintf(format, args...))
}

// Close dedents and writes "}"
func (w *Writer) Close() {
	w.CloseWith("}")
}

// CloseWith dedents and writes the given closing line, e.g. "};" or "});"
func (w *Writer) CloseWith(s string) {
	if w.depth > 0 {
		w.depth--
	}
	w.Line(s)
}

// Indent and Dedent adjust depth without writing braces
func (w *Writer) Indent() { w.depth++ }

func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Depth is the current indentation depth
func (w *Writer) Depth() int { return w.depth }

// String returns everything written so far
func (w *Writer) String() string {
	return w.sb.String()
}
