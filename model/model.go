// Package model is the immutable declaration snapshot the generators read.
//
// A Unit is built once per generation pass from raw input (see Build) and is
// never mutated afterwards. Validators and emitters only read it.
package model

import (
	"strings"

	"github.com/teranos/patternkit/diag"
)

// Location is where a declaration, member or attribute was written.
type Location = diag.Location

// Unit is the set of declarations visible to one generation pass.
type Unit struct {
	Name         string
	Declarations []*Declaration
}

// Attribute is a marker applied to a declaration or member. Argument values
// are the decoded manifest scalars: string, bool, int64, float64, []any or
// map[string]any.
type Attribute struct {
	Name       string
	Positional []any
	Named      map[string]any
	Location   Location
}

// Arg finds an argument by name, falling back to a positional slot when pos >= 0.
// Named lookups are case-insensitive.
func (a Attribute) Arg(name string, pos int) (any, bool) {
	if v, ok := a.Named[name]; ok {
		return v, true
	}
	for k, v := range a.Named {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	if pos >= 0 && pos < len(a.Positional) {
		return a.Positional[pos], true
	}
	return nil, false
}

// ContainingType is one enclosing type of a nested declaration.
type ContainingType struct {
	Name           string
	Kind           Kind
	TypeParameters []string
	Partial        bool
}

// Declaration is a type declaration.
type Declaration struct {
	Name           string
	Namespace      string
	Containing     []ContainingType
	Kind           Kind
	Modifiers      Modifiers
	Accessibility  Accessibility
	TypeParameters []string
	// BaseType is empty when the declaration derives from object or is an interface
	BaseType    TypeRef
	Interfaces  []TypeRef
	EnumMembers []string
	Members     []*Member
	Attributes  []Attribute
	Location    Location
}

// QualifiedName joins namespace, containing types and name with dots
func (d *Declaration) QualifiedName() string {
	parts := make([]string, 0, len(d.Containing)+2)
	if d.Namespace != "" {
		parts = append(parts, d.Namespace)
	}
	for _, c := range d.Containing {
		parts = append(parts, c.Name)
	}
	parts = append(parts, d.Name)
	return strings.Join(parts, ".")
}

// NestedName is the name relative to the namespace ("Outer.Inner")
func (d *Declaration) NestedName() string {
	if len(d.Containing) == 0 {
		return d.Name
	}
	parts := make([]string, 0, len(d.Containing)+1)
	for _, c := range d.Containing {
		parts = append(parts, c.Name)
	}
	return strings.Join(append(parts, d.Name), ".")
}

// DocumentStem is the qualified name made safe for use in a document key.
// Generic arity is kept so Box and Box<T> do not collide.
func (d *Declaration) DocumentStem() string {
	stem := d.QualifiedName()
	if len(d.TypeParameters) > 0 {
		stem += "_" + strings.Join(d.TypeParameters, "_")
	}
	return stem
}

// TypeSyntax is how the declaration is referenced from inside its namespace,
// with type parameters ("Box<T>")
func (d *Declaration) TypeSyntax() string {
	if len(d.TypeParameters) == 0 {
		return d.Name
	}
	return d.Name + "<" + strings.Join(d.TypeParameters, ", ") + ">"
}

func (d *Declaration) IsPartial() bool { return d.Modifiers.Partial }
func (d *Declaration) IsAbstract() bool { return d.Modifiers.Abstract }
func (d *Declaration) IsSealed() bool { return d.Modifiers.Sealed }
func (d *Declaration) IsGeneric() bool { return len(d.TypeParameters) > 0 }
func (d *Declaration) IsNested() bool { return len(d.Containing) > 0 }

// Attribute returns the first attribute with the given normalized name
func (d *Declaration) Attribute(name string) (Attribute, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// AttributesNamed returns every attribute with the given name, in order
func (d *Declaration) AttributesNamed(name string) []Attribute {
	return attributesNamed(d.Attributes, name)
}

// HasAttribute reports whether the marker is applied
func (d *Declaration) HasAttribute(name string) bool {
	_, ok := d.Attribute(name)
	return ok
}

// MembersOfKind returns members of one kind in declaration order
func (d *Declaration) MembersOfKind(k MemberKind) []*Member {
	var out []*Member
	for _, m := range d.Members {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

// MembersMarked returns members carrying the named attribute
func (d *Declaration) MembersMarked(name string) []*Member {
	var out []*Member
	for _, m := range d.Members {
		if m.HasAttribute(name) {
			out = append(out, m)
		}
	}
	return out
}

// Member looks up a non-constructor member by name
func (d *Declaration) Member(name string) (*Member, bool) {
	for _, m := range d.Members {
		if m.Name == name && m.Kind != Constructor {
			return m, true
		}
	}
	return nil, false
}

// HasMemberNamed reports whether a non-constructor member uses the name
func (d *Declaration) HasMemberNamed(name string) bool {
	_, ok := d.Member(name)
	return ok
}

// HasEnumMember reports whether the enum declares the member
func (d *Declaration) HasEnumMember(name string) bool {
	for _, m := range d.EnumMembers {
		if m == name {
			return true
		}
	}
	return false
}

// EnumOrdinal is the declaration order index of an enum member, -1 when absent
func (d *Declaration) EnumOrdinal(name string) int {
	for i, m := range d.EnumMembers {
		if m == name {
			return i
		}
	}
	return -1
}

// Parameter of a method or constructor.
type Parameter struct {
	Name       string
	Type       TypeRef
	RefKind    RefKind
	HasDefault bool
	// Default is the default value expression text, only meaningful when HasDefault
	Default  string
	IsParams bool
}

// Member of a declaration.
type Member struct {
	Name string
	Kind MemberKind
	// Type is the return type of a method or the value type of a property, field or event
	Type           TypeRef
	Parameters     []Parameter
	TypeParameters []string
	Accessibility  Accessibility
	Modifiers      Modifiers
	HasGetter      bool
	HasSetter      bool
	HasInit        bool
	Attributes     []Attribute
	Location       Location
}

func (m *Member) IsStatic() bool { return m.Modifiers.Static }
func (m *Member) IsGeneric() bool { return len(m.TypeParameters) > 0 }

// Attribute returns the first attribute with the given normalized name
func (m *Member) Attribute(name string) (Attribute, bool) {
	for _, a := range m.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// AttributesNamed returns every attribute with the given name, in order
func (m *Member) AttributesNamed(name string) []Attribute {
	return attributesNamed(m.Attributes, name)
}

// HasAttribute reports whether the marker is applied
func (m *Member) HasAttribute(name string) bool {
	_, ok := m.Attribute(name)
	return ok
}

// IsWritable reports whether the value can be assigned from an object
// initializer: a property with set or init, or a non-readonly field.
func (m *Member) IsWritable() bool {
	switch m.Kind {
	case Property:
		return m.HasSetter || m.HasInit
	case Field:
		return !m.Modifiers.ReadOnly
	}
	return false
}

// IsReadable reports a field or a property with a getter
func (m *Member) IsReadable() bool {
	return m.Kind == Field || (m.Kind == Property && m.HasGetter)
}

// HasRefParameters reports ref, in or out parameters
func (m *Member) HasRefParameters() bool {
	for _, p := range m.Parameters {
		if p.RefKind != ByValue {
			return true
		}
	}
	return false
}

func attributesNamed(attrs []Attribute, name string) []Attribute {
	var out []Attribute
	for _, a := range attrs {
		if a.Name == name {
			out = append(out, a)
		}
	}
	return out
}

// NormalizeAttributeName strips an alias qualifier, namespace and the
// Attribute suffix: "global::PatternKit.Generators.StateMachineAttribute"
// becomes "StateMachine".
func NormalizeAttributeName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if trimmed, ok := strings.CutSuffix(name, "Attribute"); ok && trimmed != "" {
		name = trimmed
	}
	return name
}
