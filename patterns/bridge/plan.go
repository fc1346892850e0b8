package bridge

import (
	"strings"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Plan is a validated bridge.
type Plan struct {
	Decl        *model.Declaration
	Config      Config
	Implementor *model.Declaration
	// ImplementorType is the implementor as written from the abstraction's scope
	ImplementorType string
	PropertyName    string
	ParameterName   string
	// Forwarders are the implementor members given a protected forwarder,
	// empty when GenerateForwarders is off
	Forwarders []*model.Member
	// Known lists the concrete implementors found in the unit, by qualified name
	Known []string
}

// Validate checks a [Bridge] abstraction and resolves its implementor
func Validate(decl *model.Declaration, cfg Config, idx *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	var bag diag.Bag
	marker, _ := decl.Attribute(Marker)
	loc := pattern.MarkerLocation(decl, marker)

	pattern.RequirePartial(&bag, decl, NotPartial, loc)
	if !decl.Kind.IsClass() {
		bag.Report(InvalidAbstractionKind, loc, decl.QualifiedName(), decl.Kind.String())
	}

	p := &Plan{
		Decl:          decl,
		Config:        cfg,
		PropertyName:  cfg.ImplementorPropertyName,
		ParameterName: emit.Camel(cfg.ImplementorPropertyName),
	}
	if p.PropertyName == decl.Name || decl.HasMemberNamed(p.PropertyName) {
		bag.Report(PropertyCollision, loc, decl.QualifiedName(), p.PropertyName)
	}

	impl, ok := implementor(&bag, decl, cfg, idx, loc)
	if ok {
		p.Implementor = impl
		p.ImplementorType = emit.Type(cfg.ImplementorType)
		for _, k := range idx.Implementors(impl) {
			p.Known = append(p.Known, k.QualifiedName())
		}
		if cfg.GenerateForwarders {
			p.Forwarders = forwarders(&bag, decl, impl, idx, p.PropertyName, loc)
		}
	}

	if bag.HasErrors() {
		return nil, bag.Items()
	}
	return p, bag.Items()
}

func implementor(bag *diag.Bag, decl *model.Declaration, cfg Config, idx *hierarchy.Index, loc diag.Location) (*model.Declaration, bool) {
	if cfg.ImplementorType.IsZero() {
		bag.Report(MissingImplementor, loc, decl.QualifiedName(), "does not name an implementor type")
		return nil, false
	}
	impl, ok := idx.Resolve(cfg.ImplementorType, decl)
	if !ok {
		bag.Report(MissingImplementor, loc, decl.QualifiedName(),
			"names implementor '"+cfg.ImplementorType.String()+"', which is not declared in this compilation unit")
		return nil, false
	}
	switch {
	case impl == decl:
		bag.Report(InvalidImplementorKind, loc, impl.QualifiedName(), decl.QualifiedName(), "reference to the abstraction itself")
	case impl.IsGeneric():
		bag.Report(InvalidImplementorKind, loc, impl.QualifiedName(), decl.QualifiedName(), "generic "+impl.Kind.String())
	case impl.Kind == model.KindInterface:
		return impl, true
	case impl.Kind == model.KindClass && impl.IsAbstract():
		return impl, true
	default:
		kind := impl.Kind.String()
		if impl.Kind == model.KindClass {
			kind = "non-abstract class"
		}
		bag.Report(InvalidImplementorKind, loc, impl.QualifiedName(), decl.QualifiedName(), kind)
	}
	return nil, false
}

// forwarders collects the accessible instance members of the implementor and
// its ancestors. Members the abstraction already declares by name are left to
// the abstraction, as is anything named like the implementor property.
func forwarders(bag *diag.Bag, decl, impl *model.Declaration, idx *hierarchy.Index, property string, loc diag.Location) []*model.Member {
	sources := append([]*model.Declaration{impl}, idx.Ancestors(impl)...)
	seen := make(map[string]bool)
	var out []*model.Member
	for _, src := range sources {
		for _, m := range src.Members {
			switch m.Kind {
			case model.Method, model.Property, model.Event:
			default:
				continue
			}
			if m.IsStatic() || !m.Accessibility.IsAccessible() {
				continue
			}
			if m.Name == property || decl.HasMemberNamed(m.Name) {
				continue
			}
			key := memberKey(m)
			if seen[key] {
				continue
			}
			seen[key] = true
			if m.IsGeneric() {
				bag.Report(GenericMemberSkipped, m.Location.Or(loc), m.Name, impl.QualifiedName())
				continue
			}
			out = append(out, m)
		}
	}
	return out
}

func memberKey(m *model.Member) string {
	if m.Kind != model.Method {
		return m.Name
	}
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for _, p := range m.Parameters {
		sb.WriteString(p.RefKind.Keyword())
		sb.WriteString(p.Type.String())
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}
