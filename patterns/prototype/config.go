package prototype

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker names
const (
	Marker         = "Prototype"
	IgnoreMarker   = "PrototypeIgnore"
	IncludeMarker  = "PrototypeInclude"
	StrategyMarker = "PrototypeStrategy"
)

// Mode picks the strategy of members without a [PrototypeStrategy].
type Mode int

const (
	// Shallow copies every unmarked member by reference
	Shallow Mode = iota
	// DeepWhenPossible clones cloneable members and shallow-copies collections
	DeepWhenPossible
)

func (m Mode) String() string {
	if m == DeepWhenPossible {
		return "DeepWhenPossible"
	}
	return "Shallow"
}

// Strategy duplicates one member value.
type Strategy int

const (
	ByReference Strategy = iota
	ShallowCopy
	Clone
	Custom
	// DeepCopy is reserved and always rejected
	DeepCopy
)

func (s Strategy) String() string {
	switch s {
	case ShallowCopy:
		return "ShallowCopy"
	case Clone:
		return "Clone"
	case Custom:
		return "Custom"
	case DeepCopy:
		return "DeepCopy"
	}
	return "ByReference"
}

var strategies = []Strategy{ByReference, ShallowCopy, Clone, Custom, DeepCopy}

// Config is the resolved [Prototype] marker.
type Config struct {
	Mode Mode
	// CloneMethodName is empty for the default: Clone, or Duplicate on records
	// where a member named Clone is not allowed
	CloneMethodName string
	IncludeExplicit bool
}

// ParseConfig reads [Prototype(Mode = ..., CloneMethodName = ..., IncludeExplicit = ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	cfg := Config{
		Mode:            pattern.Option(args, "Mode", 0, Shallow, []Mode{Shallow, DeepWhenPossible}, Mode.String),
		CloneMethodName: args.Identifier("CloneMethodName", -1, ""),
		IncludeExplicit: args.Bool("IncludeExplicit", -1, false),
	}
	args.Finish()
	return cfg
}

// parseStrategy reads [PrototypeStrategy(Strategy)] on a member
func parseStrategy(attr model.Attribute, bag *diag.Bag) Strategy {
	args := pattern.NewArgs(attr, bag, InvalidArgument)
	s := pattern.Option(args, "Strategy", 0, ByReference, strategies, Strategy.String)
	args.Finish()
	return s
}
