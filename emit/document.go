package emit

import (
	"sort"
	"strings"

	"github.com/teranos/patternkit/model"
)

// Document is one generated output, keyed uniquely per candidate and purpose.
type Document struct {
	Key  string `json:"key" yaml:"key"`
	Text string `json:"text" yaml:"text"`
}

// Key builds "<Qualified>.<part>...g", e.g. Key(d, "Composite", "Traversal")
// gives "Demo.Shape.Composite.Traversal.g".
func Key(d *model.Declaration, parts ...string) string {
	return d.DocumentStem() + "." + strings.Join(parts, ".") + ".g"
}

// SortDocuments orders documents by key
func SortDocuments(docs []Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
}

// Header writes the preamble every generated document starts with
func Header(w *Writer) {
	w.Line("// <auto-generated />")
	w.Line("#nullable enable")
	w.Blank()
}

// OpenScope writes the namespace block and any containing type declarations
// of d, leaving the writer positioned where a member of d's enclosing scope
// belongs. The returned func closes everything it opened.
func OpenScope(w *Writer, d *model.Declaration) func() {
	opened := 0
	if d.Namespace != "" {
		w.Openf("namespace %s", d.Namespace)
		opened++
	}
	for _, c := range d.Containing {
		name := c.Name
		if len(c.TypeParameters) > 0 {
			name += "<" + strings.Join(c.TypeParameters, ", ") + ">"
		}
		w.Openf("partial %s %s", c.Kind.Keyword(), name)
		opened++
	}
	return func() {
		for i := 0; i < opened; i++ {
			w.Close()
		}
	}
}

// PartialHeader renders the declaration line that reopens d as a partial type,
// e.g. "partial class Door" or "partial record struct Point".
func PartialHeader(d *model.Declaration) string {
	var sb strings.Builder
	sb.WriteString("partial ")
	sb.WriteString(d.Kind.Keyword())
	sb.WriteByte(' ')
	sb.WriteString(d.TypeSyntax())
	return sb.String()
}

// Accessibility renders the keyword for a generated type that mirrors d.
// Public stays public, everything else becomes internal.
func Accessibility(d *model.Declaration) string {
	if d.Accessibility == model.Public {
		return "public"
	}
	return "internal"
}
