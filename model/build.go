package model

import (
	"fmt"
	"strings"

	"github.com/tiendc/go-deepcopy"

	"github.com/teranos/patternkit/diag"
)

// Build turns raw declarations into an immutable Unit.
//
// The raw input is deep-copied first so later changes to the caller's
// values never leak into the snapshot. Malformed input is reported and the
// offending part is defaulted; Build never stops at the first problem.
func Build(raw RawUnit) (*Unit, []diag.Diagnostic) {
	var snapshot []RawDeclaration
	if err := deepcopy.Copy(&snapshot, &raw.Declarations); err != nil {
		// fall back to the shallow slice copy; attribute trees are still read-only below
		snapshot = append([]RawDeclaration(nil), raw.Declarations...)
	}

	b := &builder{seen: make(map[string]bool)}
	unit := &Unit{Name: raw.Name}
	for i := range snapshot {
		d := b.declaration(&snapshot[i])
		key := d.DocumentStem()
		if b.seen[key] {
			b.bag.Report(DuplicateDeclaration, d.Location, d.QualifiedName())
			continue
		}
		b.seen[key] = true
		unit.Declarations = append(unit.Declarations, d)
	}
	return unit, b.bag.Items()
}

type builder struct {
	bag  diag.Bag
	seen map[string]bool
}

func (b *builder) declaration(rd *RawDeclaration) *Declaration {
	d := &Declaration{
		Name:           strings.TrimSpace(rd.Name),
		Namespace:      strings.TrimSpace(rd.Namespace),
		TypeParameters: rd.TypeParameters,
		EnumMembers:    rd.EnumMembers,
		Location:       rd.Location,
	}
	for _, c := range rd.Containing {
		ct := ContainingType{Name: c.Name, TypeParameters: c.TypeParameters, Kind: KindClass}
		if c.Kind != "" {
			k, ok := ParseKind(c.Kind)
			if !ok {
				b.bag.Report(UnknownKind, rd.Location, c.Name, c.Kind)
			}
			ct.Kind = k
		}
		var mods Modifiers
		b.modifiers(&mods, c.Modifiers, c.Name, rd.Location)
		ct.Partial = mods.Partial
		d.Containing = append(d.Containing, ct)
	}

	name := d.QualifiedName()
	kind, ok := ParseKind(rd.Kind)
	if !ok {
		b.bag.Report(UnknownKind, d.Location, name, rd.Kind)
	}
	d.Kind = kind
	b.modifiers(&d.Modifiers, rd.Modifiers, name, d.Location)
	d.Accessibility = b.accessibility(rd.Accessibility, name, Internal, d.Location)

	if rd.Base != "" {
		d.BaseType = b.typeRef(rd.Base, name, d.Location)
	}
	for _, iface := range rd.Interfaces {
		d.Interfaces = append(d.Interfaces, b.typeRef(iface, name, d.Location))
	}

	memberDefault := Private
	if kind == KindInterface {
		memberDefault = Public
	}
	for i := range rd.Members {
		if m := b.member(&rd.Members[i], d, memberDefault); m != nil {
			d.Members = append(d.Members, m)
		}
	}
	d.Attributes = attributes(rd.Attributes, d.Location)
	return d
}

func (b *builder) member(rm *RawMember, owner *Declaration, defaultAccess Accessibility) *Member {
	ownerName := owner.QualifiedName()
	loc := rm.Location.Or(owner.Location)
	kind, ok := ParseMemberKind(rm.Kind)
	if !ok {
		b.bag.Report(UnknownMemberKind, loc, rm.Name, ownerName, rm.Kind)
		return nil
	}
	display := ownerName + "." + rm.Name
	m := &Member{
		Name:           strings.TrimSpace(rm.Name),
		Kind:           kind,
		TypeParameters: rm.TypeParameters,
		Location:       loc,
	}
	if kind == Constructor {
		m.Name = owner.Name
	}
	b.modifiers(&m.Modifiers, rm.Modifiers, display, loc)
	m.Accessibility = b.accessibility(rm.Accessibility, display, defaultAccess, loc)

	switch kind {
	case Method:
		if strings.TrimSpace(rm.Returns) == "" {
			m.Type = Void
		} else {
			m.Type = b.typeRef(rm.Returns, display, loc)
		}
	case Property, Field, Event:
		text := rm.Type
		if text == "" {
			text = rm.Returns
		}
		m.Type = b.typeRef(text, display, loc)
	}

	if kind == Property {
		if len(rm.Accessors) == 0 {
			m.HasGetter, m.HasSetter = true, true
		}
		for _, acc := range rm.Accessors {
			switch strings.ToLower(strings.TrimSpace(acc)) {
			case "get":
				m.HasGetter = true
			case "set":
				m.HasSetter = true
			case "init":
				m.HasInit = true
			default:
				b.bag.Report(UnknownModifier, loc, display, "accessor", acc)
			}
		}
	}

	for _, rp := range rm.Parameters {
		p := Parameter{
			Name:     rp.Name,
			Type:     b.typeRef(rp.Type, display+"("+rp.Name+")", loc),
			IsParams: rp.Params,
		}
		rk, ok := ParseRefKind(rp.Ref)
		if !ok {
			b.bag.Report(UnknownModifier, loc, display+"("+rp.Name+")", "ref kind", rp.Ref)
		}
		p.RefKind = rk
		if rp.Default != nil {
			p.HasDefault = true
			p.Default = *rp.Default
		}
		m.Parameters = append(m.Parameters, p)
	}
	m.Attributes = attributes(rm.Attributes, loc)
	return m
}

func (b *builder) modifiers(dst *Modifiers, names []string, owner string, loc Location) {
	for _, n := range names {
		if !dst.set(n) {
			b.bag.Report(UnknownModifier, loc, owner, "modifier", n)
		}
	}
}

func (b *builder) accessibility(s, owner string, fallback Accessibility, loc Location) Accessibility {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	a, ok := ParseAccessibility(s)
	if !ok {
		b.bag.Report(UnknownAccessibility, loc, owner, s)
		return fallback
	}
	return a
}

func (b *builder) typeRef(text, owner string, loc Location) TypeRef {
	t, err := ParseType(text)
	if err != nil {
		b.bag.Report(UnparseableType, loc, owner, err)
		return TypeRef{Name: strings.TrimSpace(text)}
	}
	return t
}

func attributes(raw []RawAttribute, owner Location) []Attribute {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(raw))
	for _, ra := range raw {
		a := Attribute{
			Name:     NormalizeAttributeName(ra.Name),
			Location: ra.Location.Or(owner),
		}
		for _, v := range ra.Args {
			a.Positional = append(a.Positional, normalizeValue(v))
		}
		if len(ra.Named) > 0 {
			a.Named = make(map[string]any, len(ra.Named))
			for k, v := range ra.Named {
				a.Named[k] = normalizeValue(v)
			}
		}
		out = append(out, a)
	}
	return out
}

// normalizeValue rebuilds an argument tree with one integer type, whatever
// decoder produced it.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeValue(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalizeValue(e)
		}
		return out
	}
	return v
}
