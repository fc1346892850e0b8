package bridge

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker name
const Marker = "Bridge"

// Config is the resolved [Bridge] marker.
type Config struct {
	// ImplementorType is zero when the argument is absent
	ImplementorType         model.TypeRef
	ImplementorPropertyName string
	GenerateForwarders      bool
}

// ParseConfig reads [Bridge(typeof(IRenderer), ImplementorPropertyName = ..., GenerateForwarders = ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	cfg := Config{
		ImplementorPropertyName: args.Identifier("ImplementorPropertyName", -1, "Implementor"),
		GenerateForwarders:      args.Bool("GenerateForwarders", -1, true),
	}
	if t, ok := args.Type("ImplementorType", 0); ok {
		cfg.ImplementorType = t
	}
	args.Finish()
	return cfg
}
