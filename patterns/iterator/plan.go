package iterator

import (
	"strings"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Seed is the member that provides the initial step state.
type Seed struct {
	Member *model.Member
	// Call is set for a parameterless method
	Call bool
}

// Plan is a validated step iterator.
type Plan struct {
	Decl   *model.Declaration
	Config Config
	Step   *model.Member
	State  model.TypeRef
	Item   model.TypeRef
	// Seed is nil when the state starts at its default value
	Seed *Seed
}

// Validate checks an [Iterator] declaration
func Validate(decl *model.Declaration, cfg Config, _ *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	var bag diag.Bag
	marker, _ := decl.Attribute(Marker)
	loc := pattern.MarkerLocation(decl, marker)

	pattern.RequirePartial(&bag, decl, NotPartial, loc)
	if decl.HasMemberNamed(cfg.EnumeratorName) || decl.Name == cfg.EnumeratorName {
		pattern.NewArgs(marker, &bag, InvalidArgument).
			Report("EnumeratorName", "%q collides with an existing member", cfg.EnumeratorName)
	}

	p := &Plan{Decl: decl, Config: cfg}
	steps := decl.MembersMarked(StepMarker)
	switch len(steps) {
	case 0:
		bag.Report(NoStep, loc, decl.QualifiedName())
	case 1:
		p.Step = steps[0]
	default:
		bag.Report(MultipleSteps, steps[1].Location.Or(loc), decl.QualifiedName(), memberNames(steps))
	}
	if p.Step != nil {
		state, item, ok := stepShape(p.Step)
		if ok {
			p.State, p.Item = state, item
		} else {
			bag.Report(InvalidStepSignature, p.Step.Location.Or(loc), p.Step.Name, p.Step.Name)
		}
	}

	for i, m := range decl.MembersMarked(SeedMarker) {
		mloc := m.Location.Or(loc)
		if i > 0 {
			bag.Report(SeedMismatch, mloc, m.Name, decl.QualifiedName(), "only one member may be marked [IteratorSeed]")
			continue
		}
		seed, reason := seedOf(m)
		if reason == "" && !p.State.IsZero() && !m.Type.Equal(p.State) {
			reason = "its type " + m.Type.String() + " is not " + p.State.String()
		}
		if reason != "" {
			bag.Report(SeedMismatch, mloc, m.Name, decl.QualifiedName(), reason)
			continue
		}
		p.Seed = seed
	}

	if bag.HasErrors() || p.Step == nil {
		return nil, bag.Items()
	}
	return p, bag.Items()
}

// stepShape matches bool M(ref TState, out TItem)
func stepShape(m *model.Member) (state, item model.TypeRef, ok bool) {
	if m.Kind != model.Method || m.IsGeneric() || !m.Type.IsBool() || len(m.Parameters) != 2 {
		return state, item, false
	}
	s, i := m.Parameters[0], m.Parameters[1]
	if s.RefKind != model.Ref || i.RefKind != model.Out {
		return state, item, false
	}
	return s.Type, i.Type, true
}

func seedOf(m *model.Member) (*Seed, string) {
	switch m.Kind {
	case model.Field:
		return &Seed{Member: m}, ""
	case model.Property:
		if !m.HasGetter {
			return nil, "the property has no getter"
		}
		return &Seed{Member: m}, ""
	case model.Method:
		if len(m.Parameters) != 0 || m.IsGeneric() || m.Type.IsVoid() {
			return nil, "a seed method must take no parameters and return the state"
		}
		return &Seed{Member: m, Call: true}, ""
	}
	return nil, "only fields, properties and parameterless methods can seed the state"
}

func memberNames(ms []*model.Member) string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = "'" + m.Name + "'"
	}
	return strings.Join(names, ", ")
}

// TraversalPlan is a validated traversal iterator.
type TraversalPlan struct {
	Decl     *model.Declaration
	Config   TraversalConfig
	Children *model.Member
	Node     model.TypeRef
}

// ValidateTraversal checks a [TraversalIterator] declaration
func ValidateTraversal(decl *model.Declaration, cfg TraversalConfig, _ *hierarchy.Index) (*TraversalPlan, []diag.Diagnostic) {
	var bag diag.Bag
	marker, _ := decl.Attribute(TraversalMarker)
	loc := pattern.MarkerLocation(decl, marker)

	pattern.RequirePartial(&bag, decl, NotPartial, loc)
	args := pattern.NewArgs(marker, &bag, InvalidArgument)
	for _, name := range []string{cfg.DepthFirstName, cfg.BreadthFirstName} {
		if decl.HasMemberNamed(name) {
			args.Report(name, "%q collides with an existing member", name)
		}
	}

	p := &TraversalPlan{Decl: decl, Config: cfg}
	providers := decl.MembersMarked(ChildrenMarker)
	switch len(providers) {
	case 0:
		bag.Report(NoChildProvider, loc, decl.QualifiedName())
	case 1:
		p.Children = providers[0]
	default:
		bag.Report(MultipleChildProviders, providers[1].Location.Or(loc), decl.QualifiedName(), memberNames(providers))
	}
	if c := p.Children; c != nil {
		cloc := c.Location.Or(loc)
		if !c.IsStatic() {
			bag.Report(ChildProviderNotStatic, cloc, c.Name)
		}
		if node, ok := childShape(c); ok {
			p.Node = node
		} else {
			bag.Report(InvalidChildProviderSignature, cloc, c.Name, c.Name)
		}
	}

	if bag.HasErrors() || p.Children == nil {
		return nil, bag.Items()
	}
	return p, bag.Items()
}

// childShape matches IEnumerable<T> M(T)
func childShape(m *model.Member) (model.TypeRef, bool) {
	if m.Kind != model.Method || m.IsGeneric() || len(m.Parameters) != 1 {
		return model.TypeRef{}, false
	}
	ret, p := m.Type, m.Parameters[0]
	if ret.Known != model.KnownEnumerable || len(ret.Args) != 1 || p.RefKind != model.ByValue {
		return model.TypeRef{}, false
	}
	if !ret.Args[0].WithoutNullable().Equal(p.Type.WithoutNullable()) {
		return model.TypeRef{}, false
	}
	return p.Type.WithoutNullable(), true
}
