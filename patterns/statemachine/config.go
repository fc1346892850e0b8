package statemachine

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker names
const (
	Marker           = "StateMachine"
	TransitionMarker = "StateTransition"
	GuardMarker      = "StateGuard"
	EntryMarker      = "StateEntry"
	ExitMarker       = "StateExit"
)

// InvalidTriggerPolicy decides what firing a trigger with no transition from
// the current state does.
type InvalidTriggerPolicy int

const (
	InvalidThrow InvalidTriggerPolicy = iota
	InvalidIgnore
	InvalidReturnFalse
)

func (p InvalidTriggerPolicy) String() string {
	switch p {
	case InvalidIgnore:
		return "Ignore"
	case InvalidReturnFalse:
		return "ReturnFalse"
	}
	return "Throw"
}

// GuardFailurePolicy decides what a rejected guard does.
type GuardFailurePolicy int

const (
	GuardThrow GuardFailurePolicy = iota
	GuardIgnore
)

func (p GuardFailurePolicy) String() string {
	if p == GuardIgnore {
		return "Ignore"
	}
	return "Throw"
}

// Config is the resolved [StateMachine] marker.
type Config struct {
	StateType      model.TypeRef
	TriggerType    model.TypeRef
	InvalidTrigger InvalidTriggerPolicy
	GuardFailure   GuardFailurePolicy
	FireMethod     string
	FireAsync      string
	CanFireMethod  string
	StateProperty  string
	// InitialState is empty when the state property starts at the enum default
	InitialState string
	ForceAsync   bool
	// GenerateAsync false suppresses the async surface unless a hook needs it
	GenerateAsync bool
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		FireMethod:    "Fire",
		FireAsync:     "FireAsync",
		CanFireMethod: "CanFire",
		StateProperty: "State",
		GenerateAsync: true,
	}
}

// ParseConfig reads [StateMachine(typeof(TState), typeof(TTrigger), ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	cfg := DefaultConfig()
	args := pattern.NewArgs(marker, bag, InvalidArgument)

	if t, ok := args.Type("StateEnumType", 0); ok {
		cfg.StateType = t
	} else if _, present := marker.Arg("StateEnumType", 0); !present {
		args.Report("StateEnumType", "the state enum type is required")
	}
	if t, ok := args.Type("TriggerEnumType", 1); ok {
		cfg.TriggerType = t
	} else if _, present := marker.Arg("TriggerEnumType", 1); !present {
		args.Report("TriggerEnumType", "the trigger enum type is required")
	}

	cfg.InvalidTrigger = pattern.Option(args, "InvalidTriggerPolicy", -1, InvalidThrow,
		[]InvalidTriggerPolicy{InvalidThrow, InvalidIgnore, InvalidReturnFalse}, InvalidTriggerPolicy.String)
	cfg.GuardFailure = pattern.Option(args, "GuardFailurePolicy", -1, GuardThrow,
		[]GuardFailurePolicy{GuardThrow, GuardIgnore}, GuardFailurePolicy.String)
	cfg.FireMethod = args.Identifier("FireMethodName", -1, cfg.FireMethod)
	cfg.FireAsync = args.Identifier("FireAsyncMethodName", -1, cfg.FireMethod+"Async")
	cfg.CanFireMethod = args.Identifier("CanFireMethodName", -1, cfg.CanFireMethod)
	cfg.StateProperty = args.Identifier("StatePropertyName", -1, cfg.StateProperty)
	if s, ok := args.EnumMember("InitialState", -1); ok {
		cfg.InitialState = s
	}
	cfg.ForceAsync = args.Bool("ForceAsync", -1, cfg.ForceAsync)
	cfg.GenerateAsync = args.Bool("GenerateAsync", -1, cfg.GenerateAsync)
	args.Finish()
	return cfg
}
