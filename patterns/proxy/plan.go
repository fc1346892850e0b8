package proxy

import (
	"strings"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Member is one proxied member.
type Member struct {
	Member *model.Member
	Access string
	// Intercept is false for properties and [ProxyIgnore] members, which are
	// forwarded directly
	Intercept bool
	// Await is set for awaitable methods whose completion After waits for
	Await bool
}

// Plan is a validated proxy.
type Plan struct {
	Decl        *model.Declaration
	Config      Config
	IsInterface bool
	Contract    string
	ProxyName   string
	// Interceptor and Invocation name the generated interceptor contract types
	Interceptor string
	Invocation  string
	Members     []Member
}

// Intercepting reports whether interceptor types are generated
func (p *Plan) Intercepting() bool {
	return p.Config.InterceptorMode != None
}

// Validate checks a [GenerateProxy] contract
func Validate(decl *model.Declaration, cfg Config, idx *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	var bag diag.Bag
	marker, _ := decl.Attribute(Marker)
	loc := pattern.MarkerLocation(decl, marker)

	pattern.RequirePartial(&bag, decl, NotPartial, loc)
	isInterface := decl.Kind == model.KindInterface
	if !isInterface && !(decl.Kind == model.KindClass && decl.IsAbstract()) {
		kind := decl.Kind.String()
		if decl.Kind == model.KindClass {
			kind = "non-abstract class"
		}
		bag.Report(UnsupportedContract, loc, decl.QualifiedName(), kind)
	}
	if decl.IsGeneric() {
		bag.Report(GenericContract, loc, decl.QualifiedName())
	}

	stem := emit.StripInterfacePrefix(decl.Name)
	p := &Plan{
		Decl:        decl,
		Config:      cfg,
		IsInterface: isInterface,
		Contract:    decl.NestedName(),
		ProxyName:   cfg.ProxyTypeName,
		Interceptor: "I" + stem + "Interceptor",
		Invocation:  stem + "Invocation",
	}
	if p.ProxyName == "" {
		p.ProxyName = stem + "Proxy"
	}
	if existing, ok := idx.ResolveName(p.ProxyName, decl); ok && existing != decl && !existing.IsPartial() {
		bag.Report(NameCollision, loc, existing.QualifiedName())
	}
	if p.ProxyName == decl.Name {
		pattern.NewArgs(marker, &bag, InvalidArgument).
			Report("ProxyTypeName", "%q is the name of the contract itself", p.ProxyName)
	}

	for _, m := range contractMembers(decl, idx, isInterface) {
		mloc := m.Location.Or(loc)
		if !isInterface && m.Accessibility.IsProtected() {
			bag.Report(ProtectedMemberSkipped, mloc, m.Name, decl.QualifiedName())
			continue
		}
		switch m.Kind {
		case model.Event:
			bag.Report(EventUnsupported, mloc, decl.QualifiedName(), m.Name)
			continue
		case model.Method:
			if m.IsGeneric() {
				bag.Report(GenericMethod, mloc, m.Name, decl.QualifiedName())
				continue
			}
		}
		pm := Member{Member: m, Access: "public"}
		if !isInterface {
			pm.Access = m.Accessibility.Keyword()
		}
		if m.Kind == model.Method && !m.HasAttribute(IgnoreMarker) && p.Intercepting() {
			pm.Intercept = true
			if m.HasRefParameters() {
				bag.Report(ByRefParameter, mloc, m.Name)
			}
		}
		pm.Await = m.Kind == model.Method && cfg.GenerateAsync && m.Type.IsAwaitable()
		p.Members = append(p.Members, pm)
	}

	if bag.HasErrors() {
		return nil, bag.Items()
	}
	return p, bag.Items()
}

// contractMembers lists the members a proxy must implement: everything on an
// interface and its base interfaces, or the overridable members along an
// abstract class chain. Nearer declarations hide farther ones.
func contractMembers(decl *model.Declaration, idx *hierarchy.Index, isInterface bool) []*model.Member {
	var sources []*model.Declaration
	if isInterface {
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
			if !isInterface {
				if m.Accessibility == model.Private {
					continue
				}
				if !m.Modifiers.Abstract && !m.Modifiers.Virtual && !m.Modifiers.Override {
					continue
				}
			}
			key := memberKey(m)
			if seen[key] {
				continue
			}
			seen[key] = true
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
	sb.WriteString(m.Name)
	if m.Kind == model.Method {
		sb.WriteByte('(')
		for _, p := range m.Parameters {
			sb.WriteString(p.RefKind.Keyword())
			sb.WriteString(p.Type.String())
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	}
	return sb.String()
}
