// Package testkit builds declaration units from YAML for generator tests.
package testkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Unit decodes a YAML manifest and builds it, failing on any builder diagnostic
func Unit(t testing.TB, src string) *model.Unit {
	t.Helper()
	var raw model.RawUnit
	require.NoError(t, yaml.Unmarshal([]byte(dedent(src)), &raw))
	unit, ds := model.Build(raw)
	require.Empty(t, ds, "builder diagnostics")
	return unit
}

// Decl finds a declaration by qualified name
func Decl(t testing.TB, unit *model.Unit, qualified string) *model.Declaration {
	t.Helper()
	for _, d := range unit.Declarations {
		if d.QualifiedName() == qualified {
			return d
		}
	}
	require.FailNow(t, "declaration not found", qualified)
	return nil
}

// Run generates one candidate: the declaration named qualified, using the
// first of the generator's markers it carries.
func Run(t testing.TB, gen pattern.Generator, src, qualified string) pattern.Output {
	t.Helper()
	unit := Unit(t, src)
	d := Decl(t, unit, qualified)
	for _, name := range gen.Markers() {
		if marker, ok := d.Attribute(name); ok {
			return gen.Generate(pattern.Input{Decl: d, Marker: marker, Index: hierarchy.New(unit)})
		}
	}
	require.FailNow(t, "declaration carries no marker of the generator", qualified)
	return pattern.Output{}
}

// IDs returns the diagnostic IDs of an output
func IDs(out pattern.Output) []string {
	return diag.IDs(out.Diagnostics)
}

// Doc returns the text of the document with the given key
func Doc(t testing.TB, out pattern.Output, key string) string {
	t.Helper()
	for _, d := range out.Documents {
		if d.Key == key {
			return d.Text
		}
	}
	require.FailNow(t, "document not found", "%s (have %v)", key, Keys(out.Documents))
	return ""
}

// Keys lists document keys
func Keys(docs []emit.Document) []string {
	keys := make([]string, len(docs))
	for i, d := range docs {
		keys[i] = d.Key
	}
	return keys
}

// dedent strips the common leading tab indentation of a raw string literal
// so YAML can be written indented alongside the test code.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	found := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lead := l[:len(l)-len(strings.TrimLeft(l, "\t"))]
		if !found || len(lead) < len(prefix) {
			prefix = lead
			found = true
		}
	}
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, prefix)
	}
	return strings.Join(lines, "\n")
}
