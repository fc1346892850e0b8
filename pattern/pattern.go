// Package pattern is the contract between the generation driver and the
// per-pattern generators, plus helpers every generator shares.
package pattern

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
)

// Input is one candidate: a declaration carrying one of the generator's markers.
type Input struct {
	Decl   *model.Declaration
	Marker model.Attribute
	Index  *hierarchy.Index
}

// Output is everything a generator produced for one candidate.
type Output struct {
	Documents   []emit.Document
	Diagnostics []diag.Diagnostic
}

// Generator turns a candidate into documents and diagnostics. Generate must
// be deterministic and must not retain the input.
type Generator interface {
	// Name is the pattern name used in document keys and logs
	Name() string
	// Markers are the normalized attribute names that make a declaration a candidate
	Markers() []string
	Descriptors() []diag.Descriptor
	Generate(in Input) Output
}

// Definition wires the three stages of a pattern into a Generator: parse the
// marker into a config, validate into a plan, emit the plan.
type Definition[C any, P any] struct {
	Pattern     string
	MarkerNames []string
	Rules       []diag.Descriptor
	Parse       func(marker model.Attribute, bag *diag.Bag) C
	Validate    func(decl *model.Declaration, cfg C, idx *hierarchy.Index) (*P, []diag.Diagnostic)
	Emit        func(plan *P) []emit.Document
}

func (d *Definition[C, P]) Name() string { return d.Pattern }
func (d *Definition[C, P]) Markers() []string { return d.MarkerNames }
func (d *Definition[C, P]) Descriptors() []diag.Descriptor { return d.Rules }

// Generate runs parse, validate and emit. Emission only happens when no
// error was reported by either earlier stage.
func (d *Definition[C, P]) Generate(in Input) Output {
	var bag diag.Bag
	cfg := d.Parse(in.Marker, &bag)
	plan, ds := d.Validate(in.Decl, cfg, in.Index)
	bag.Add(ds...)
	out := Output{Diagnostics: bag.Items()}
	if bag.HasErrors() || plan == nil {
		return out
	}
	out.Documents = d.Emit(plan)
	return out
}
