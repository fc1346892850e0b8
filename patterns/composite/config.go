package composite

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker name
const Marker = "Composite"

// Config is the resolved [Composite] marker. Empty names mean the defaults
// derived from the contract name.
type Config struct {
	ComponentBaseName        string
	CompositeBaseName        string
	ChildrenPropertyName     string
	GenerateTraversalHelpers bool
}

// ParseConfig reads [Composite(ComponentBaseName = ..., ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	cfg := Config{
		ComponentBaseName:        args.Identifier("ComponentBaseName", -1, ""),
		CompositeBaseName:        args.Identifier("CompositeBaseName", -1, ""),
		ChildrenPropertyName:     args.Identifier("ChildrenPropertyName", -1, "Children"),
		GenerateTraversalHelpers: args.Bool("GenerateTraversalHelpers", -1, true),
	}
	args.Finish()
	return cfg
}

// withDefaults fills the names derived from the contract: IGraphic gives
// GraphicBase and GraphicComposite.
func (c Config) withDefaults(d *model.Declaration) Config {
	stem := d.Name
	if d.Kind == model.KindInterface {
		stem = emit.StripInterfacePrefix(d.Name)
	}
	if c.ComponentBaseName == "" {
		c.ComponentBaseName = stem + "Base"
	}
	if c.CompositeBaseName == "" {
		c.CompositeBaseName = stem + "Composite"
	}
	if c.ChildrenPropertyName == "" {
		c.ChildrenPropertyName = "Children"
	}
	return c
}
