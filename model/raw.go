package model

// Raw* types are the host front end's view of the source, before any
// interpretation. Manifests decode straight into them.

// RawUnit is one decoded manifest.
type RawUnit struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	// Requires is a semver constraint on the pkgen version, e.g. ">= 0.3"
	Requires     string           `json:"requires,omitempty" yaml:"requires,omitempty" toml:"requires,omitempty"`
	Declarations []RawDeclaration `json:"declarations" yaml:"declarations" toml:"declarations"`
}

// RawDeclaration is one type declaration.
type RawDeclaration struct {
	Name           string          `json:"name" yaml:"name" toml:"name"`
	Namespace      string          `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	Containing     []RawContaining `json:"containing,omitempty" yaml:"containing,omitempty" toml:"containing,omitempty"`
	Kind           string          `json:"kind" yaml:"kind" toml:"kind"`
	Modifiers      []string        `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	Accessibility  string          `json:"accessibility,omitempty" yaml:"accessibility,omitempty" toml:"accessibility,omitempty"`
	TypeParameters []string        `json:"type_parameters,omitempty" yaml:"type_parameters,omitempty" toml:"type_parameters,omitempty"`
	Base           string          `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
	Interfaces     []string        `json:"interfaces,omitempty" yaml:"interfaces,omitempty" toml:"interfaces,omitempty"`
	EnumMembers    []string        `json:"enum_members,omitempty" yaml:"enum_members,omitempty" toml:"enum_members,omitempty"`
	Members        []RawMember     `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`
	Attributes     []RawAttribute  `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Location       Location        `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
}

// RawContaining is an enclosing type of a nested declaration.
type RawContaining struct {
	Name           string   `json:"name" yaml:"name" toml:"name"`
	Kind           string   `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Modifiers      []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	TypeParameters []string `json:"type_parameters,omitempty" yaml:"type_parameters,omitempty" toml:"type_parameters,omitempty"`
}

// RawMember is one member. Type is the value type of a property, field or
// event; Returns is the return type of a method (empty means void).
type RawMember struct {
	Name           string         `json:"name" yaml:"name" toml:"name"`
	Kind           string         `json:"kind" yaml:"kind" toml:"kind"`
	Type           string         `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Returns        string         `json:"returns,omitempty" yaml:"returns,omitempty" toml:"returns,omitempty"`
	Parameters     []RawParameter `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters,omitempty"`
	TypeParameters []string       `json:"type_parameters,omitempty" yaml:"type_parameters,omitempty" toml:"type_parameters,omitempty"`
	Accessibility  string         `json:"accessibility,omitempty" yaml:"accessibility,omitempty" toml:"accessibility,omitempty"`
	Modifiers      []string       `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	// Accessors lists get, set and init; omitted on a property means get and set
	Accessors  []string       `json:"accessors,omitempty" yaml:"accessors,omitempty" toml:"accessors,omitempty"`
	Attributes []RawAttribute `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Location   Location       `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
}

// RawParameter is a method or constructor parameter.
type RawParameter struct {
	Name    string  `json:"name" yaml:"name" toml:"name"`
	Type    string  `json:"type" yaml:"type" toml:"type"`
	Ref     string  `json:"ref,omitempty" yaml:"ref,omitempty" toml:"ref,omitempty"`
	Default *string `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Params  bool    `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

// RawAttribute is an applied attribute with its already-evaluated arguments.
type RawAttribute struct {
	Name     string         `json:"name" yaml:"name" toml:"name"`
	Args     []any          `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	Named    map[string]any `json:"named,omitempty" yaml:"named,omitempty" toml:"named,omitempty"`
	Location Location       `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
}
