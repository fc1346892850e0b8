package prototype

import (
	"fmt"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Construction is how the clone instance comes into existence.
type Construction int

const (
	ObjectInitializer Construction = iota
	CopyConstructor
	// WithExpression is used for records
	WithExpression
)

func (c Construction) String() string {
	switch c {
	case CopyConstructor:
		return "the copy constructor path"
	case WithExpression:
		return "a with expression"
	}
	return "an object initializer"
}

// CloneVia is how the Clone strategy duplicates a value.
type CloneVia int

const (
	ViaNone CloneVia = iota
	// ViaMethod calls an instance Clone()
	ViaMethod
	// ViaCloneable calls ICloneable.Clone() and casts
	ViaCloneable
	// ViaCopyConstructor calls new T(value)
	ViaCopyConstructor
	// ViaArray clones an array
	ViaArray
	// ViaWith copies a record with an empty with expression
	ViaWith
)

// Member is one copied member and the way it is duplicated.
type Member struct {
	Member   *model.Member
	Strategy Strategy
	Via      CloneVia
	// Cast is set when an instance Clone() returns a type other than the member's
	Cast bool
	Hook string
	// NullCheck is set when the value may be null and the copy would dereference it
	NullCheck bool
}

// Plan is a validated prototype.
type Plan struct {
	Decl         *model.Declaration
	Config       Config
	MethodName   string
	Construction Construction
	Members      []Member
}

type validator struct {
	bag  diag.Bag
	decl *model.Declaration
	cfg  Config
	idx  *hierarchy.Index
	loc  diag.Location
}

// Validate checks a [Prototype] declaration
func Validate(decl *model.Declaration, cfg Config, idx *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	marker, _ := decl.Attribute(Marker)
	v := &validator{decl: decl, cfg: cfg, idx: idx, loc: pattern.MarkerLocation(decl, marker)}

	pattern.RequirePartial(&v.bag, decl, NotPartial, v.loc)
	if decl.IsGeneric() {
		v.bag.Report(GenericType, v.loc, decl.QualifiedName())
	}
	if decl.IsNested() {
		v.bag.Report(NestedType, v.loc, decl.QualifiedName())
	}
	instantiable := decl.Kind.IsClass() || decl.Kind.IsStruct()
	switch {
	case !instantiable:
		v.bag.Report(AbstractType, v.loc, decl.QualifiedName(), decl.Kind)
	case decl.IsAbstract():
		v.bag.Report(AbstractType, v.loc, decl.QualifiedName(), "abstract "+decl.Kind.String())
	}

	p := &Plan{Decl: decl, Config: cfg, MethodName: v.methodName(marker)}
	construction, ok := v.construction()
	if instantiable && !ok {
		v.bag.Report(NoConstruction, v.loc, decl.QualifiedName())
	}
	p.Construction = construction

	for _, m := range decl.Members {
		if mp, ok := v.member(m, construction); ok {
			p.Members = append(p.Members, mp)
		}
	}
	if v.bag.HasErrors() {
		return nil, v.bag.Items()
	}
	return p, v.bag.Items()
}

func (v *validator) methodName(marker model.Attribute) string {
	args := pattern.NewArgs(marker, &v.bag, InvalidArgument)
	name := v.cfg.CloneMethodName
	switch {
	case name == "" && v.decl.Kind.IsRecord():
		name = "Duplicate"
	case name == "":
		name = "Clone"
	case name == "Clone" && v.decl.Kind.IsRecord():
		args.Report("CloneMethodName", "records cannot declare a member named Clone")
	}
	if v.decl.HasMemberNamed(name) {
		args.Report("CloneMethodName", "%q is already declared on '%s'", name, v.decl.Name)
	}
	return name
}

// construction picks the first available path: with expression for records,
// then an object initializer, then a copy constructor.
func (v *validator) construction() (Construction, bool) {
	d := v.decl
	if d.Kind.IsRecord() {
		return WithExpression, true
	}
	ctors := d.MembersOfKind(model.Constructor)
	if d.Kind.IsStruct() || len(ctors) == 0 {
		return ObjectInitializer, true
	}
	for _, c := range ctors {
		if allDefaulted(c.Parameters) {
			return ObjectInitializer, true
		}
	}
	for _, c := range ctors {
		if isCopyConstructor(c, d) {
			return CopyConstructor, true
		}
	}
	return ObjectInitializer, false
}

func allDefaulted(ps []model.Parameter) bool {
	for _, p := range ps {
		if !p.HasDefault && !p.IsParams {
			return false
		}
	}
	return true
}

func isCopyConstructor(c *model.Member, d *model.Declaration) bool {
	if len(c.Parameters) != 1 {
		return false
	}
	p := c.Parameters[0]
	return p.RefKind == model.ByValue && p.Type.WithoutNullable().Simple() == d.Name && len(p.Type.Args) == len(d.TypeParameters)
}

func (v *validator) member(m *model.Member, construction Construction) (Member, bool) {
	if m.IsStatic() || (m.Kind != model.Field && m.Kind != model.Property) {
		return Member{}, false
	}
	if m.Kind == model.Property && !m.HasGetter {
		return Member{}, false
	}
	loc := m.Location.Or(v.loc)
	ignored := m.HasAttribute(IgnoreMarker)
	included := m.HasAttribute(IncludeMarker)
	strategyAttr, hasStrategy := m.Attribute(StrategyMarker)
	marked := included || hasStrategy

	if v.cfg.IncludeExplicit {
		if ignored && !marked {
			v.bag.Report(RedundantMarker, loc, IgnoreMarker, m.Name, "IncludeExplicit is set and the member is not included")
		}
		if ignored || !marked {
			return Member{}, false
		}
	} else {
		if included {
			v.bag.Report(RedundantMarker, loc, IncludeMarker, m.Name, "every member is included")
		}
		if ignored {
			return Member{}, false
		}
	}

	mp := Member{Member: m}
	if hasStrategy {
		mp.Strategy = parseStrategy(strategyAttr, &v.bag)
	} else {
		mp.Strategy = v.defaultStrategy(m.Type)
	}

	if !v.assignable(m, mp.Strategy, construction) {
		switch {
		case marked:
			v.bag.Report(NotAssignable, loc, m.Name, construction)
		case m.Kind == model.Field:
			// get-only properties are usually computed, a readonly field is state
			v.bag.Report(ReadOnlyFieldSkipped, loc, m.Name, construction, IgnoreMarker)
		}
		return Member{}, false
	}

	switch mp.Strategy {
	case ByReference:
		if !hasStrategy && v.mutableReference(m.Type) {
			v.bag.Report(SharedMutableMember, loc, m.Name, m.Type.String())
		}
	case ShallowCopy:
		if !m.Type.IsCollection() {
			v.bag.Report(ShallowCopyUnsupported, loc, m.Name, m.Type.String())
			return Member{}, false
		}
		mp.NullCheck = true
	case Clone:
		via, cast, reason := v.cloneVia(m.Type)
		if via == ViaNone {
			v.bag.Report(NotCloneable, loc, m.Name, reason)
			return Member{}, false
		}
		mp.Via, mp.Cast = via, cast
		mp.NullCheck = !v.isValueType(m.Type)
	case Custom:
		hook := "Clone" + emitName(m.Name)
		if !v.hasHook(hook, m.Type) {
			t := m.Type.String()
			v.bag.Report(MissingCustomHook, loc, m.Name, t, hook, t)
			return Member{}, false
		}
		mp.Hook = hook
	case DeepCopy:
		v.bag.Report(DeepCopyUnsupported, loc, m.Name)
		return Member{}, false
	}
	return mp, true
}

func emitName(s string) string {
	if len(s) > 0 && s[0] == '@' {
		return s[1:]
	}
	return s
}

// assignable reports whether the construction path can write the member.
// ByReference members are carried by with expressions and copy constructors.
func (v *validator) assignable(m *model.Member, s Strategy, c Construction) bool {
	switch c {
	case WithExpression:
		return s == ByReference || m.IsWritable()
	case CopyConstructor:
		if s == ByReference {
			return true
		}
		if m.Kind == model.Property {
			return m.HasSetter
		}
		return m.IsWritable()
	}
	return m.IsWritable()
}

func (v *validator) defaultStrategy(t model.TypeRef) Strategy {
	if v.cfg.Mode != DeepWhenPossible {
		return ByReference
	}
	if t.IsCollection() {
		return ShallowCopy
	}
	if t.IsImmutableLeaf() {
		return ByReference
	}
	if via, _, _ := v.cloneVia(t); via != ViaNone && !v.isValueType(t) {
		return Clone
	}
	return ByReference
}

func (v *validator) resolve(t model.TypeRef) (*model.Declaration, bool) {
	if t.IsArray() || t.Known != model.KnownNone {
		return nil, false
	}
	return v.idx.Resolve(t.WithoutNullable(), v.decl)
}

func (v *validator) isValueType(t model.TypeRef) bool {
	if t.Nullable || t.IsArray() {
		return false
	}
	if t.IsFrameworkValueType() {
		return true
	}
	d, ok := v.resolve(t)
	return ok && (d.Kind.IsStruct() || d.Kind == model.KindEnum)
}

// mutableReference reports reference types whose state can change: arrays,
// collections and classes declared in the unit. Records and types the unit
// does not declare are not flagged.
func (v *validator) mutableReference(t model.TypeRef) bool {
	if t.IsCollection() {
		return true
	}
	d, ok := v.resolve(t)
	return ok && d.Kind == model.KindClass
}

// cloneVia finds how a value of type t can be cloned. A static Clone() does
// not count.
func (v *validator) cloneVia(t model.TypeRef) (via CloneVia, cast bool, reason string) {
	if t.IsArray() {
		return ViaArray, false, ""
	}
	if t.Known == model.KnownCloneable {
		return ViaCloneable, false, ""
	}
	d, ok := v.resolve(t)
	if !ok {
		return ViaNone, false, fmt.Sprintf("'%s' is not declared in this unit and cannot be checked", t)
	}
	if d.Kind.IsRecord() {
		return ViaWith, false, ""
	}
	chain := append([]*model.Declaration{d}, v.idx.ClassChain(d)...)
	staticOnly := false
	for _, c := range chain {
		for _, m := range c.MembersOfKind(model.Method) {
			if m.Name != "Clone" || len(m.Parameters) != 0 || m.IsGeneric() || m.Type.IsVoid() {
				continue
			}
			if m.IsStatic() {
				staticOnly = true
				continue
			}
			return ViaMethod, m.Type.WithoutNullable().Simple() != d.Name, ""
		}
	}
	if v.implementsCloneable(d, chain) {
		return ViaCloneable, false, ""
	}
	for _, c := range d.MembersOfKind(model.Constructor) {
		if isCopyConstructor(c, d) {
			return ViaCopyConstructor, false, ""
		}
	}
	if staticOnly {
		return ViaNone, false, fmt.Sprintf("'%s' declares only a static Clone(), which cannot clone an instance", d.Name)
	}
	return ViaNone, false, fmt.Sprintf("'%s' exposes no ICloneable, instance Clone() or copy constructor", d.Name)
}

func (v *validator) implementsCloneable(d *model.Declaration, chain []*model.Declaration) bool {
	for _, c := range append(chain, v.idx.Interfaces(d)...) {
		for _, i := range c.Interfaces {
			if i.Known == model.KnownCloneable {
				return true
			}
		}
	}
	return false
}

// hasHook looks for static T name(T value)
func (v *validator) hasHook(name string, t model.TypeRef) bool {
	for _, m := range v.decl.MembersOfKind(model.Method) {
		if m.Name != name || !m.IsStatic() || len(m.Parameters) != 1 {
			continue
		}
		p := m.Parameters[0]
		if p.RefKind == model.ByValue && p.Type.WithoutNullable().Equal(t.WithoutNullable()) &&
			m.Type.WithoutNullable().Equal(t.WithoutNullable()) {
			return true
		}
	}
	return false
}
