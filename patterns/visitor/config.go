package visitor

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker name
const Marker = "GenerateVisitor"

// Config is the resolved [GenerateVisitor] marker.
type Config struct {
	// VisitorName is empty for the default: the root name without a leading
	// I on interfaces, followed by Visitor
	VisitorName     string
	GenerateAsync   bool
	GenerateActions bool
}

// ParseConfig reads [GenerateVisitor(VisitorName = ..., GenerateAsync = ..., GenerateActions = ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	cfg := Config{
		VisitorName:     args.Identifier("VisitorName", 0, ""),
		GenerateAsync:   args.Bool("GenerateAsync", -1, true),
		GenerateActions: args.Bool("GenerateActions", -1, true),
	}
	args.Finish()
	return cfg
}
