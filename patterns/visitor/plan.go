package visitor

import (
	"sort"
	"strings"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Node is one visitable type of the hierarchy.
type Node struct {
	Decl *model.Declaration
	// Ref is the global:: qualified reference used in generated code
	Ref string
	// Chain lists Ref of the node and every hierarchy ancestor, nearest
	// first: the class chain, then interfaces
	Chain []string
	// Field names the static array holding Chain
	Field string
}

// Variant is one of the four generated visitor shapes.
type Variant struct {
	Name   string
	Result bool
	Async  bool
}

// Plan is a validated visitor hierarchy.
type Plan struct {
	Decl   *model.Declaration
	Config Config
	Access string
	// Nodes holds the root first, then descendants in unit order
	Nodes    []Node
	Dispatch string
	Variants []Variant
	// Accept is false when the root already declares an Accept member
	Accept bool
}

// Root is the hierarchy root node
func (p *Plan) Root() Node { return p.Nodes[0] }

// DispatchOrder lists the non-root nodes with the longest chains first, so no
// type pattern is tested after one of its ancestors.
func (p *Plan) DispatchOrder() []Node {
	out := append([]Node(nil), p.Nodes[1:]...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Chain) > len(out[j].Chain) })
	return out
}

// Validate checks a [GenerateVisitor] root and collects its hierarchy
func Validate(decl *model.Declaration, cfg Config, idx *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	var bag diag.Bag
	marker, _ := decl.Attribute(Marker)
	loc := pattern.MarkerLocation(decl, marker)
	args := pattern.NewArgs(marker, &bag, InvalidArgument)

	pattern.RequirePartial(&bag, decl, NotPartial, loc)
	switch {
	case decl.Kind != model.KindClass && decl.Kind != model.KindRecordClass && decl.Kind != model.KindInterface:
		bag.Report(InvalidRootKind, loc, decl.QualifiedName(), decl.Kind.String())
	case decl.IsGeneric():
		bag.Report(InvalidRootKind, loc, decl.QualifiedName(), "generic "+decl.Kind.String())
	}
	if decl.IsSealed() {
		bag.Report(SealedRoot, loc, decl.QualifiedName())
	}

	members := []*model.Declaration{decl}
	descendants := idx.Descendants(decl)
	if len(descendants) == 0 {
		bag.Report(NoDescendants, loc, decl.QualifiedName())
	}
	for _, d := range descendants {
		if d.IsGeneric() {
			bag.Report(GenericDescendantSkipped, d.Location.Or(loc), d.QualifiedName(), decl.QualifiedName())
			continue
		}
		members = append(members, d)
	}

	bySimple := make(map[string]*model.Declaration, len(members))
	for _, d := range members {
		if prev, ok := bySimple[d.Name]; ok {
			bag.Report(SimpleNameClash, d.Location.Or(loc), prev.QualifiedName(), d.QualifiedName(), decl.QualifiedName(), d.Name)
			continue
		}
		bySimple[d.Name] = d
	}

	p := &Plan{Decl: decl, Config: cfg, Access: access(members)}
	p.Dispatch, p.Variants = names(decl, cfg)
	for _, name := range append([]string{p.Dispatch}, variantNames(p.Variants)...) {
		if existing, ok := idx.ResolveName(name, decl); ok {
			args.Report("VisitorName", "generated type '%s' collides with '%s'", name, existing.QualifiedName())
			break
		}
	}
	inHierarchy := make(map[*model.Declaration]bool, len(members))
	for _, d := range members {
		inHierarchy[d] = true
	}
	for _, d := range members {
		n := Node{Decl: d, Ref: ref(d), Chain: []string{ref(d)}, Field: "s_" + emit.Camel(d.Name)}
		for _, a := range idx.Ancestors(d) {
			if inHierarchy[a] {
				n.Chain = append(n.Chain, ref(a))
			}
		}
		p.Nodes = append(p.Nodes, n)
	}
	_, declared := decl.Member("Accept")
	p.Accept = !declared

	if bag.HasErrors() {
		return nil, bag.Items()
	}
	return p, bag.Items()
}

func ref(d *model.Declaration) string {
	return "global::" + d.QualifiedName()
}

// access is public only when every type the visitor signatures mention is
func access(members []*model.Declaration) string {
	for _, d := range members {
		if d.Accessibility != model.Public {
			return "internal"
		}
	}
	return "public"
}

// names derives the dispatch helper and the variant type names from the
// visitor name: ShapeVisitor gives ShapeActionVisitor, ShapeAsyncVisitor and
// ShapeAsyncActionVisitor.
func names(decl *model.Declaration, cfg Config) (string, []Variant) {
	base := cfg.VisitorName
	if base == "" {
		stem := decl.Name
		if decl.Kind == model.KindInterface {
			stem = emit.StripInterfacePrefix(stem)
		}
		base = stem + "Visitor"
	}
	prefix, suffix := base, ""
	if p, ok := strings.CutSuffix(base, "Visitor"); ok && p != "" {
		prefix, suffix = p, "Visitor"
	}
	variants := []Variant{{Name: base, Result: true}}
	if cfg.GenerateActions {
		variants = append(variants, Variant{Name: prefix + "Action" + suffix})
	}
	if cfg.GenerateAsync {
		variants = append(variants, Variant{Name: prefix + "Async" + suffix, Result: true, Async: true})
		if cfg.GenerateActions {
			variants = append(variants, Variant{Name: prefix + "AsyncAction" + suffix, Async: true})
		}
	}
	return base + "Dispatch", variants
}

func variantNames(vs []Variant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

// Resolve names the hierarchy type whose handler serves an instance of the
// qualified type typ when handlers exist for registered. ok is false when
// typ is not in the hierarchy or only the default handler is left.
func (p *Plan) Resolve(typ string, registered ...string) (string, bool) {
	has := make(map[string]bool, len(registered))
	for _, r := range registered {
		has["global::"+r] = true
	}
	for _, n := range p.Nodes {
		if n.Decl.QualifiedName() != typ {
			continue
		}
		for _, c := range n.Chain {
			if has[c] {
				return strings.TrimPrefix(c, "global::"), true
			}
		}
		return "", false
	}
	return "", false
}
