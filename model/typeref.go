package model

import (
	"strconv"
	"strings"

	"github.com/teranos/patternkit/errors"
)

// Known identifies the framework types the generators reason about. Every
// other name stays KnownNone and is resolved through the hierarchy index.
type Known int

const (
	KnownNone Known = iota
	KnownVoid
	KnownBool
	KnownNumeric
	KnownChar
	KnownString
	KnownObject
	KnownValueTask
	KnownTask
	KnownCancellationToken
	KnownList
	KnownDictionary
	KnownHashSet
	KnownQueue
	KnownStack
	KnownSortedSet
	KnownSortedDictionary
	KnownLinkedList
	KnownEnumerable
	KnownAsyncEnumerable
	KnownCloneable
	// KnownImmutableValue covers DateTime, Guid and friends
	KnownImmutableValue
)

// TypeRef is a parsed type name.
type TypeRef struct {
	// Name is the written name without generic arguments, e.g. "List" or "System.Int32"
	Name     string
	Args     []TypeRef
	Elem     *TypeRef
	Rank     int
	Nullable bool
	Known    Known
}

type knownEntry struct {
	known Known
	ns    string
}

// keyed by simple name and arity
var knownTypes = map[string]knownEntry{
	"ValueTask/0":         {KnownValueTask, "System.Threading.Tasks"},
	"ValueTask/1":         {KnownValueTask, "System.Threading.Tasks"},
	"Task/0":              {KnownTask, "System.Threading.Tasks"},
	"Task/1":              {KnownTask, "System.Threading.Tasks"},
	"CancellationToken/0": {KnownCancellationToken, "System.Threading"},
	"List/1":              {KnownList, "System.Collections.Generic"},
	"Dictionary/2":        {KnownDictionary, "System.Collections.Generic"},
	"HashSet/1":           {KnownHashSet, "System.Collections.Generic"},
	"Queue/1":             {KnownQueue, "System.Collections.Generic"},
	"Stack/1":             {KnownStack, "System.Collections.Generic"},
	"SortedSet/1":         {KnownSortedSet, "System.Collections.Generic"},
	"SortedDictionary/2":  {KnownSortedDictionary, "System.Collections.Generic"},
	"LinkedList/1":        {KnownLinkedList, "System.Collections.Generic"},
	"IEnumerable/1":       {KnownEnumerable, "System.Collections.Generic"},
	"IAsyncEnumerable/1":  {KnownAsyncEnumerable, "System.Collections.Generic"},
	"ICloneable/0":        {KnownCloneable, "System"},
	"DateTime/0":          {KnownImmutableValue, "System"},
	"DateTimeOffset/0":    {KnownImmutableValue, "System"},
	"TimeSpan/0":          {KnownImmutableValue, "System"},
	"Guid/0":              {KnownImmutableValue, "System"},
	"Uri/0":               {KnownImmutableValue, "System"},
}

var keywordTypes = map[string]Known{
	"void":    KnownVoid,
	"bool":    KnownBool,
	"byte":    KnownNumeric,
	"sbyte":   KnownNumeric,
	"short":   KnownNumeric,
	"ushort":  KnownNumeric,
	"int":     KnownNumeric,
	"uint":    KnownNumeric,
	"long":    KnownNumeric,
	"ulong":   KnownNumeric,
	"nint":    KnownNumeric,
	"nuint":   KnownNumeric,
	"float":   KnownNumeric,
	"double":  KnownNumeric,
	"decimal": KnownNumeric,
	"char":    KnownChar,
	"string":  KnownString,
	"object":  KnownObject,
}

// System.X spellings of the keyword types
var systemAliases = map[string]string{
	"Void":    "void",
	"Boolean": "bool",
	"Byte":    "byte",
	"SByte":   "sbyte",
	"Int16":   "short",
	"UInt16":  "ushort",
	"Int32":   "int",
	"UInt32":  "uint",
	"Int64":   "long",
	"UInt64":  "ulong",
	"IntPtr":  "nint",
	"UIntPtr": "nuint",
	"Single":  "float",
	"Double":  "double",
	"Decimal": "decimal",
	"Char":    "char",
	"String":  "string",
	"Object":  "object",
}

// Void is the parsed "void" type
var Void = TypeRef{Name: "void", Known: KnownVoid}

// MustParseType panics on malformed input. Intended for generator-internal constants and tests.
func MustParseType(s string) TypeRef {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseType parses a C# type name: dotted names with optional global::
// qualifier, generic arguments, array ranks and nullable markers. Tuples,
// pointers and function pointers are rejected.
func ParseType(s string) (TypeRef, error) {
	p := &typeParser{src: s}
	p.skipSpace()
	if p.eof() {
		return TypeRef{}, errors.Newf("empty type name")
	}
	t, err := p.parseType()
	if err != nil {
		return TypeRef{}, errors.Wrapf(err, "parse type %q", s)
	}
	p.skipSpace()
	if !p.eof() {
		return TypeRef{}, errors.Newf("parse type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) eof() bool { return p.pos >= len(p.src) }

func (p *typeParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '@' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *typeParser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	if p.eof() || !isIdentStart(p.peek()) {
		return "", errors.Newf("expected identifier at offset %d", p.pos)
	}
	p.pos++
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *typeParser) parseType() (TypeRef, error) {
	p.skipSpace()
	if p.peek() == '(' {
		return TypeRef{}, errors.New("tuple types are not supported")
	}

	var parts []string
	first, err := p.ident()
	if err != nil {
		return TypeRef{}, err
	}
	if strings.HasPrefix(p.src[p.pos:], "::") {
		// alias qualifier, only global:: is meaningful here
		p.pos += 2
		first, err = p.ident()
		if err != nil {
			return TypeRef{}, err
		}
	}
	parts = append(parts, first)
	for {
		p.skipSpace()
		if p.peek() != '.' {
			break
		}
		p.pos++
		next, err := p.ident()
		if err != nil {
			return TypeRef{}, err
		}
		parts = append(parts, next)
	}

	t := TypeRef{Name: strings.Join(parts, ".")}

	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseType()
			if err != nil {
				return TypeRef{}, err
			}
			t.Args = append(t.Args, arg)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			if p.peek() == '>' {
				p.pos++
				break
			}
			return TypeRef{}, errors.Newf("expected ',' or '>' at offset %d", p.pos)
		}
	}
	t.Known = classify(t.Name, len(t.Args))
	if alias, ok := aliasOf(t.Name); ok && len(t.Args) == 0 {
		t.Name = alias
	}

	p.skipSpace()
	if p.peek() == '?' {
		p.pos++
		t.Nullable = true
	}

	for {
		p.skipSpace()
		if p.peek() != '[' {
			break
		}
		p.pos++
		rank := 1
		for {
			p.skipSpace()
			if p.peek() == ',' {
				rank++
				p.pos++
				continue
			}
			if p.peek() == ']' {
				p.pos++
				break
			}
			return TypeRef{}, errors.Newf("expected ']' at offset %d", p.pos)
		}
		elem := t
		t = TypeRef{Elem: &elem, Rank: rank}
		p.skipSpace()
		if p.peek() == '?' {
			p.pos++
			t.Nullable = true
		}
	}

	if p.peek() == '*' {
		return TypeRef{}, errors.New("pointer types are not supported")
	}
	return t, nil
}

// aliasOf maps System.Int32 style names onto their keyword
func aliasOf(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, "System.")
	if !ok {
		return "", false
	}
	kw, ok := systemAliases[rest]
	return kw, ok
}

func classify(name string, arity int) Known {
	if k, ok := keywordTypes[name]; ok && arity == 0 {
		return k
	}
	if kw, ok := aliasOf(name); ok && arity == 0 {
		return keywordTypes[kw]
	}
	simple := name
	ns := ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		simple = name[i+1:]
		ns = name[:i]
	}
	entry, ok := knownTypes[simple+"/"+strconv.Itoa(arity)]
	if !ok {
		return KnownNone
	}
	if ns != "" && ns != entry.ns {
		return KnownNone
	}
	return entry.known
}

// IsZero reports an unset type
func (t TypeRef) IsZero() bool {
	return t.Name == "" && t.Elem == nil
}

// String renders the type as written, normalized
func (t TypeRef) String() string {
	return t.render(false)
}

// Qualified renders the type with framework types written global::System...
// so generated documents compile without using directives.
func (t TypeRef) Qualified() string {
	return t.render(true)
}

func (t TypeRef) render(qualify bool) string {
	var sb strings.Builder
	t.write(&sb, qualify)
	return sb.String()
}

func (t TypeRef) write(sb *strings.Builder, qualify bool) {
	if t.Elem != nil {
		t.Elem.write(sb, qualify)
		sb.WriteByte('[')
		for i := 1; i < t.Rank; i++ {
			sb.WriteByte(',')
		}
		sb.WriteByte(']')
		if t.Nullable {
			sb.WriteByte('?')
		}
		return
	}
	name := t.Name
	if qualify {
		name = t.qualifiedName()
	}
	sb.WriteString(name)
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.write(sb, qualify)
		}
		sb.WriteByte('>')
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
}

func (t TypeRef) qualifiedName() string {
	if t.Known == KnownNone || t.Known == KnownImmutableValue {
		return t.Name
	}
	if _, kw := keywordTypes[t.Name]; kw {
		return t.Name
	}
	entry, ok := knownTypes[t.Simple()+"/"+strconv.Itoa(len(t.Args))]
	if !ok {
		return t.Name
	}
	return "global::" + entry.ns + "." + t.Simple()
}

// Simple is the last dotted segment of the name
func (t TypeRef) Simple() string {
	if t.Elem != nil {
		return t.Elem.Simple()
	}
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Equal compares two types structurally, treating System.Int32 and int alike
func (t TypeRef) Equal(o TypeRef) bool {
	return t.String() == o.String()
}

// WithoutNullable strips a top-level nullable marker
func (t TypeRef) WithoutNullable() TypeRef {
	t.Nullable = false
	return t
}

func (t TypeRef) IsVoid() bool { return t.Known == KnownVoid && t.Elem == nil }
func (t TypeRef) IsBool() bool { return t.Known == KnownBool && t.Elem == nil && !t.Nullable }
func (t TypeRef) IsString() bool { return t.Known == KnownString && t.Elem == nil }
func (t TypeRef) IsArray() bool { return t.Elem != nil }
func (t TypeRef) IsCancellationToken() bool { return t.Known == KnownCancellationToken && !t.Nullable }

// IsValueTask reports the non-generic ValueTask
func (t TypeRef) IsValueTask() bool {
	return t.Elem == nil && t.Known == KnownValueTask && len(t.Args) == 0
}

// IsValueTaskOf reports ValueTask<T> where pred accepts T
func (t TypeRef) IsValueTaskOf(pred func(TypeRef) bool) bool {
	return t.Elem == nil && t.Known == KnownValueTask && len(t.Args) == 1 && pred(t.Args[0])
}

// IsAwaitable reports Task, Task<T>, ValueTask or ValueTask<T>
func (t TypeRef) IsAwaitable() bool {
	return t.Elem == nil && (t.Known == KnownValueTask || t.Known == KnownTask)
}

// Awaited returns the result type of an awaitable; void for the non-generic forms
func (t TypeRef) Awaited() (TypeRef, bool) {
	if !t.IsAwaitable() {
		return TypeRef{}, false
	}
	if len(t.Args) == 0 {
		return Void, true
	}
	return t.Args[0], true
}

// IsCollection reports arrays and the well-known concrete generic collections
func (t TypeRef) IsCollection() bool {
	if t.Elem != nil {
		return true
	}
	switch t.Known {
	case KnownList, KnownDictionary, KnownHashSet, KnownQueue, KnownStack,
		KnownSortedSet, KnownSortedDictionary, KnownLinkedList:
		return true
	}
	return false
}

// IsImmutableLeaf reports types whose values cannot be changed after creation:
// primitives, strings and well-known immutable framework values.
func (t TypeRef) IsImmutableLeaf() bool {
	if t.Elem != nil {
		return false
	}
	switch t.Known {
	case KnownBool, KnownNumeric, KnownChar, KnownString, KnownImmutableValue, KnownCancellationToken:
		return true
	}
	return false
}

// IsFrameworkValueType reports well-known value types
func (t TypeRef) IsFrameworkValueType() bool {
	if t.Elem != nil {
		return false
	}
	switch t.Known {
	case KnownBool, KnownNumeric, KnownChar, KnownCancellationToken, KnownValueTask:
		return true
	case KnownImmutableValue:
		return t.Simple() != "Uri"
	}
	return false
}
