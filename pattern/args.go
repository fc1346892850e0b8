package pattern

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
)

// Args reads the arguments of one attribute, reporting every unusable value
// with the family's invalid-argument descriptor and substituting the default.
// The descriptor's format takes the argument name, the attribute name and a reason.
type Args struct {
	attr    model.Attribute
	bag     *diag.Bag
	invalid diag.Descriptor
	read    map[string]bool
}

// NewArgs binds a reader to an attribute
func NewArgs(attr model.Attribute, bag *diag.Bag, invalid diag.Descriptor) *Args {
	return &Args{attr: attr, bag: bag, invalid: invalid, read: make(map[string]bool)}
}

// Attribute returns the attribute being read
func (a *Args) Attribute() model.Attribute { return a.attr }

func (a *Args) lookup(name string, pos int) (any, bool) {
	a.read[strings.ToLower(name)] = true
	v, ok := a.attr.Arg(name, pos)
	if ok && v == nil {
		return nil, false
	}
	return v, ok
}

// Report adds an invalid-argument diagnostic for name
func (a *Args) Report(name, reason string, args ...any) {
	a.bag.Report(a.invalid, a.attr.Location, name, a.attr.Name, fmt.Sprintf(reason, args...))
}

// String reads a string argument
func (a *Args) String(name string, pos int, def string) string {
	v, ok := a.lookup(name, pos)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		a.Report(name, "expected a string, got %s", describe(v))
		return def
	}
	return s
}

// Identifier reads a string argument that must be a valid C# identifier.
// An empty string means the default.
func (a *Args) Identifier(name string, pos int, def string) string {
	s := strings.TrimSpace(a.String(name, pos, def))
	if s == "" {
		return def
	}
	if !IsIdentifier(s) {
		a.Report(name, "%q is not a valid identifier", s)
		return def
	}
	return s
}

// Bool reads a boolean argument
func (a *Args) Bool(name string, pos int, def bool) bool {
	v, ok := a.lookup(name, pos)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	a.Report(name, "expected true or false, got %s", describe(v))
	return def
}

// Int reads an integer argument
func (a *Args) Int(name string, pos int, def int) int {
	v, ok := a.lookup(name, pos)
	if !ok {
		return def
	}
	if n, ok := asInt(v); ok {
		return n
	}
	a.Report(name, "expected an integer, got %s", describe(v))
	return def
}

// Type reads a type argument written as a type name ("DoorState") or as
// typeof(DoorState). ok is false when absent or invalid.
func (a *Args) Type(name string, pos int) (model.TypeRef, bool) {
	v, present := a.lookup(name, pos)
	if !present {
		return model.TypeRef{}, false
	}
	s, isString := v.(string)
	if !isString {
		a.Report(name, "expected a type name, got %s", describe(v))
		return model.TypeRef{}, false
	}
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutPrefix(s, "typeof("); ok {
		s = strings.TrimSuffix(inner, ")")
	}
	t, err := model.ParseType(s)
	if err != nil {
		a.Report(name, "%q is not a type name", s)
		return model.TypeRef{}, false
	}
	return t, true
}

// Strings reads a list of strings; a single string is accepted as a one-element list
func (a *Args) Strings(name string, pos int) []string {
	v, ok := a.lookup(name, pos)
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case string:
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				a.Report(name, "expected a list of strings, found %s", describe(e))
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	a.Report(name, "expected a list of strings, got %s", describe(v))
	return nil
}

// EnumMember reads a symbolic member name of a user enum ("DoorState.Open"
// or "Open"). It returns the bare member name.
func (a *Args) EnumMember(name string, pos int) (string, bool) {
	v, ok := a.lookup(name, pos)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		a.Report(name, "expected an enum member name, got %s", describe(v))
		return "", false
	}
	return bareMember(s), true
}

// Option reads one of a fixed set of option names. Values may be written
// bare ("Throw"), qualified ("InvalidTriggerPolicy.Throw"), in any case, or
// as the option's ordinal.
func Option[E comparable](a *Args, name string, pos int, def E, options []E, label func(E) string) E {
	v, ok := a.lookup(name, pos)
	if !ok {
		return def
	}
	if n, isInt := asInt(v); isInt {
		if n >= 0 && n < len(options) {
			return options[n]
		}
		a.Report(name, "%d is not a valid %s", n, name)
		return def
	}
	s, isString := v.(string)
	if !isString {
		a.Report(name, "expected one of %s, got %s", optionList(options, label), describe(v))
		return def
	}
	want := strings.ToLower(bareMember(s))
	for _, o := range options {
		if strings.ToLower(label(o)) == want {
			return o
		}
	}
	a.Report(name, "%q is not one of %s", s, optionList(options, label))
	return def
}

// Finish reports named arguments that no reader asked for
func (a *Args) Finish() {
	var unknown []string
	for k := range a.attr.Named {
		if !a.read[strings.ToLower(k)] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		a.Report(k, "unknown argument")
	}
}

func optionList[E any](options []E, label func(E) string) string {
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = label(o)
	}
	return strings.Join(names, ", ")
}

func bareMember(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	}
	return 0, false
}

func describe(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case bool:
		return fmt.Sprintf("%t", x)
	case int64, int, float64:
		return fmt.Sprintf("%v", x)
	case []any:
		return "a list"
	case map[string]any:
		return "a map"
	}
	return fmt.Sprintf("%T", v)
}

// IsIdentifier reports whether s is a plain C# identifier
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
