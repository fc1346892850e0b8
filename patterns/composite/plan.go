package composite

import (
	"strings"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// OpKind is how the composite base implements one operation.
type OpKind int

const (
	// Leaf operations stay abstract; every concrete type implements them
	Leaf OpKind = iota
	// FanOut is a void method the composite forwards to each child in order
	FanOut
	// FanOutAsync is a ValueTask method the composite awaits on each child in order
	FanOutAsync
)

// Operation is one member of the component contract.
type Operation struct {
	Member *model.Member
	Kind   OpKind
	// Access is the accessibility keyword the generated members use
	Access string
	// Abstract is set when nothing implements the member yet
	Abstract bool
}

// Plan is a validated composite.
type Plan struct {
	Decl   *model.Declaration
	Config Config
	// Contract is how generated code names the component type
	Contract    string
	IsInterface bool
	Operations  []Operation
	Events      []*model.Member
}

// FanOuts returns the operations the composite forwards to its children
func (p *Plan) FanOuts() []Operation {
	var out []Operation
	for _, op := range p.Operations {
		if op.Kind != Leaf {
			out = append(out, op)
		}
	}
	return out
}

// Validate checks a [Composite] contract
func Validate(decl *model.Declaration, cfg Config, idx *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	var bag diag.Bag
	marker, _ := decl.Attribute(Marker)
	loc := pattern.MarkerLocation(decl, marker)
	cfg = cfg.withDefaults(decl)

	pattern.RequirePartial(&bag, decl, NotPartial, loc)
	isInterface := decl.Kind == model.KindInterface
	if !isInterface && !(decl.Kind.IsClass() && decl.IsAbstract()) {
		kind := decl.Kind.String()
		if decl.Kind.IsClass() {
			kind = "non-abstract " + kind
		}
		bag.Report(InvalidContractKind, loc, decl.QualifiedName(), kind)
	}
	if decl.IsGeneric() {
		bag.Report(GenericContract, loc, decl.QualifiedName())
	}
	args := pattern.NewArgs(marker, &bag, InvalidArgument)
	if cfg.ComponentBaseName == cfg.CompositeBaseName {
		args.Report("CompositeBaseName", "%q is also the component base name", cfg.CompositeBaseName)
	}
	if cfg.ComponentBaseName == decl.Name {
		args.Report("ComponentBaseName", "%q is the name of the contract itself", decl.Name)
	}
	if cfg.CompositeBaseName == decl.Name {
		args.Report("CompositeBaseName", "%q is the name of the contract itself", decl.Name)
	}

	p := &Plan{Decl: decl, Config: cfg, IsInterface: isInterface, Contract: decl.NestedName()}
	members := contractMembers(decl, idx)
	for _, m := range members {
		switch m.Kind {
		case model.Event:
			bag.Report(EventSkipped, m.Location.Or(loc), m.Name, decl.QualifiedName())
			p.Events = append(p.Events, m)
		case model.Method, model.Property:
			if strings.EqualFold(m.Name, cfg.ChildrenPropertyName) {
				args.Report("ChildrenPropertyName", "%q collides with contract member '%s'", cfg.ChildrenPropertyName, m.Name)
			}
			p.Operations = append(p.Operations, operation(m, isInterface))
		}
	}
	if len(p.Operations) == 0 {
		bag.Report(NoOperations, loc, decl.QualifiedName())
	}
	if bag.HasErrors() {
		return nil, bag.Items()
	}
	return p, bag.Items()
}

func operation(m *model.Member, isInterface bool) Operation {
	op := Operation{Member: m, Access: "public", Abstract: isInterface || m.Modifiers.Abstract}
	if !isInterface {
		op.Access = m.Accessibility.Keyword()
		// a protected member cannot be called through a child reference
		if m.Accessibility.IsProtected() {
			return op
		}
	}
	if m.Kind != model.Method || m.IsGeneric() || !forwardable(m) {
		return op
	}
	switch {
	case m.Type.IsVoid():
		op.Kind = FanOut
	case m.Type.IsValueTask():
		op.Kind = FanOutAsync
	}
	return op
}

// forwardable reports parameters that can be passed unchanged to every child
func forwardable(m *model.Member) bool {
	for _, p := range m.Parameters {
		if p.RefKind == model.Ref || p.RefKind == model.Out {
			return false
		}
	}
	return true
}

// contractMembers collects the instance members of the contract: for an
// interface, its own and its base interfaces' members; for an abstract class,
// the abstract and virtual members along the class chain. Nearer declarations
// hide farther ones with the same signature.
func contractMembers(decl *model.Declaration, idx *hierarchy.Index) []*model.Member {
	var sources []*model.Declaration
	if decl.Kind == model.KindInterface {
		sources = append([]*model.Declaration{decl}, idx.Interfaces(decl)...)
	} else {
		sources = append([]*model.Declaration{decl}, idx.ClassChain(decl)...)
	}
	seen := make(map[string]bool)
	var out []*model.Member
	for _, src := range sources {
		for _, m := range src.Members {
			if m.IsStatic() || m.Kind == model.Constructor || m.Kind == model.Field {
				continue
			}
			if src.Kind != model.KindInterface {
				if !m.Accessibility.IsAccessible() && !m.Accessibility.IsProtected() {
					continue
				}
				if !m.Modifiers.Abstract && !m.Modifiers.Virtual && !m.Modifiers.Override {
					continue
				}
			}
			sig := memberKey(m)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			if m.Modifiers.Sealed {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

func memberKey(m *model.Member) string {
	var sb strings.Builder
	sb.WriteString(m.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Type.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
