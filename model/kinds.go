package model

import "strings"

// Kind is the declaration kind of a type.
type Kind int

const (
	KindUnknown Kind = iota
	KindClass
	KindStruct
	KindInterface
	KindRecordClass
	KindRecordStruct
	KindEnum
)

var kindNames = map[Kind]string{
	KindClass:        "class",
	KindStruct:       "struct",
	KindInterface:    "interface",
	KindRecordClass:  "record-class",
	KindRecordStruct: "record-struct",
	KindEnum:         "enum",
}

var kindAliases = map[string]Kind{
	"class":         KindClass,
	"struct":        KindStruct,
	"interface":     KindInterface,
	"record":        KindRecordClass,
	"record-class":  KindRecordClass,
	"record class":  KindRecordClass,
	"record-struct": KindRecordStruct,
	"record struct": KindRecordStruct,
	"enum":          KindEnum,
}

// ParseKind accepts the manifest spelling of a declaration kind
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Keyword is the C# keyword sequence that declares this kind
func (k Kind) Keyword() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindRecordClass:
		return "record"
	case KindRecordStruct:
		return "record struct"
	case KindEnum:
		return "enum"
	}
	return "class"
}

// IsClass reports class or record class
func (k Kind) IsClass() bool { return k == KindClass || k == KindRecordClass }

// IsStruct reports struct or record struct
func (k Kind) IsStruct() bool { return k == KindStruct || k == KindRecordStruct }

// IsRecord reports record class or record struct
func (k Kind) IsRecord() bool { return k == KindRecordClass || k == KindRecordStruct }

// Accessibility of a declaration or member.
type Accessibility int

const (
	AccessDefault Accessibility = iota
	Public
	Internal
	Protected
	ProtectedInternal
	Private
	PrivateProtected
)

var accessAliases = map[string]Accessibility{
	"public":             Public,
	"internal":           Internal,
	"protected":          Protected,
	"protected internal": ProtectedInternal,
	"protected-internal": ProtectedInternal,
	"internal protected": ProtectedInternal,
	"private":            Private,
	"private protected":  PrivateProtected,
	"private-protected":  PrivateProtected,
}

// ParseAccessibility accepts both space and dash separated spellings
func ParseAccessibility(s string) (Accessibility, bool) {
	a, ok := accessAliases[strings.ToLower(strings.Join(strings.Fields(s), " "))]
	return a, ok
}

// Keyword renders the C# accessibility keywords
func (a Accessibility) Keyword() string {
	switch a {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	case ProtectedInternal:
		return "protected internal"
	case Private:
		return "private"
	case PrivateProtected:
		return "private protected"
	}
	return ""
}

func (a Accessibility) String() string {
	if a == AccessDefault {
		return "default"
	}
	return a.Keyword()
}

// IsProtected reports accessibilities only visible through inheritance
func (a Accessibility) IsProtected() bool {
	return a == Protected || a == PrivateProtected
}

// IsAccessible reports whether a member is reachable from generated code in
// the same assembly that is not part of the declaring type.
func (a Accessibility) IsAccessible() bool {
	return a == Public || a == Internal || a == ProtectedInternal
}

// MemberKind of a member.
type MemberKind int

const (
	MemberUnknown MemberKind = iota
	Method
	Property
	Field
	Event
	Constructor
)

var memberKindNames = map[string]MemberKind{
	"method":      Method,
	"property":    Property,
	"field":       Field,
	"event":       Event,
	"constructor": Constructor,
	"ctor":        Constructor,
}

// ParseMemberKind accepts the manifest spelling of a member kind
func ParseMemberKind(s string) (MemberKind, bool) {
	k, ok := memberKindNames[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

func (k MemberKind) String() string {
	switch k {
	case Method:
		return "method"
	case Property:
		return "property"
	case Field:
		return "field"
	case Event:
		return "event"
	case Constructor:
		return "constructor"
	}
	return "unknown"
}

// RefKind of a parameter.
type RefKind int

const (
	ByValue RefKind = iota
	Ref
	In
	Out
)

// ParseRefKind accepts "", "value", "ref", "in" and "out"
func ParseRefKind(s string) (RefKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "value", "by-value", "byvalue":
		return ByValue, true
	case "ref":
		return Ref, true
	case "in":
		return In, true
	case "out":
		return Out, true
	}
	return ByValue, false
}

// Keyword is the parameter modifier, empty for by-value
func (r RefKind) Keyword() string {
	switch r {
	case Ref:
		return "ref"
	case In:
		return "in"
	case Out:
		return "out"
	}
	return ""
}

func (r RefKind) String() string {
	if r == ByValue {
		return "value"
	}
	return r.Keyword()
}

// Modifiers applied to a declaration or member.
type Modifiers struct {
	Partial  bool
	Abstract bool
	Static   bool
	Sealed   bool
	Virtual  bool
	Override bool
	ReadOnly bool
}

// set flips the named modifier on, reporting false for unknown names
func (m *Modifiers) set(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "partial":
		m.Partial = true
	case "abstract":
		m.Abstract = true
	case "static":
		m.Static = true
	case "sealed":
		m.Sealed = true
	case "virtual":
		m.Virtual = true
	case "override":
		m.Override = true
	case "readonly":
		m.ReadOnly = true
	default:
		return false
	}
	return true
}
