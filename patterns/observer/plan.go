package observer

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Plan is a validated observer.
type Plan struct {
	Decl      *model.Declaration
	Payload   string
	Config    Config
	EmitAsync bool
}

// Validate checks an [Observer] declaration
func Validate(decl *model.Declaration, cfg Config, _ *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	var bag diag.Bag
	marker, _ := decl.Attribute(Marker)
	loc := pattern.MarkerLocation(decl, marker)

	pattern.RequirePartial(&bag, decl, NotPartial, loc)
	if !decl.Kind.IsClass() {
		bag.Report(NotClass, loc, decl.QualifiedName(), decl.Kind)
	}
	if cfg.Payload.IsZero() {
		if _, present := marker.Arg("PayloadType", 0); !present {
			bag.Report(MissingPayload, loc, decl.QualifiedName())
		}
	}
	if cfg.Threading == SingleThreadedFast && cfg.ForceAsync {
		bag.Report(RacyAsync, loc, decl.QualifiedName())
	}
	if bag.HasErrors() || cfg.Payload.IsZero() {
		return nil, bag.Items()
	}
	return &Plan{
		Decl:      decl,
		Payload:   cfg.Payload.Qualified(),
		Config:    cfg,
		EmitAsync: cfg.GenerateAsync || cfg.ForceAsync,
	}, bag.Items()
}
