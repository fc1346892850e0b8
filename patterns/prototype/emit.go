package prototype

import (
	"fmt"

	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/model"
)

// Emit renders <Q>.Prototype.g
func Emit(p *Plan) []emit.Document {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)
	name := p.Decl.TypeSyntax()

	w.Open(emit.PartialHeader(p.Decl))
	w.Openf("public %s %s()", name, p.MethodName)
	switch p.Construction {
	case ObjectInitializer:
		if len(p.Members) == 0 {
			w.Linef("return new %s();", name)
			break
		}
		w.Linef("return new %s", name)
		initializer(w, p.Members)
	case WithExpression:
		changed := nonReference(p.Members)
		if len(changed) == 0 {
			w.Line("return this with { };")
			break
		}
		w.Line("return this with")
		initializer(w, changed)
	case CopyConstructor:
		w.Linef("var clone = new %s(this);", name)
		for _, m := range nonReference(p.Members) {
			w.Linef("clone.%s = %s;", emit.Ident(m.Member.Name), CopyExpression(m))
		}
		w.Line("return clone;")
	}
	w.Close()
	w.Close()

	closeScope()
	return []emit.Document{{Key: emit.Key(p.Decl, "Prototype"), Text: w.String()}}
}

func initializer(w *emit.Writer, ms []Member) {
	w.Line("{")
	w.Indent()
	for _, m := range ms {
		w.Linef("%s = %s,", emit.Ident(m.Member.Name), CopyExpression(m))
	}
	w.CloseWith("};")
}

func nonReference(ms []Member) []Member {
	var out []Member
	for _, m := range ms {
		if m.Strategy != ByReference {
			out = append(out, m)
		}
	}
	return out
}

// CopyExpression renders the expression that duplicates the member's value
// read from the source instance.
func CopyExpression(m Member) string {
	src := emit.Ident(m.Member.Name)
	t := m.Member.Type.WithoutNullable()
	var expr string
	switch m.Strategy {
	case ByReference:
		return src
	case Custom:
		return fmt.Sprintf("%s(%s)", m.Hook, src)
	case ShallowCopy:
		expr = shallowCopy(t, src)
	case Clone:
		expr = clone(m, t, src)
	}
	if m.NullCheck {
		return fmt.Sprintf("%s is null ? null! : %s", src, expr)
	}
	return expr
}

func shallowCopy(t model.TypeRef, src string) string {
	switch {
	case t.IsArray():
		return fmt.Sprintf("(%s)%s.Clone()", emit.Type(t), src)
	case t.Known == model.KnownStack:
		// the enumeration order of a stack is pop order
		return fmt.Sprintf("new %s(global::System.Linq.Enumerable.Reverse(%s))", emit.Type(t), src)
	}
	return fmt.Sprintf("new %s(%s)", emit.Type(t), src)
}

func clone(m Member, t model.TypeRef, src string) string {
	typ := emit.Type(t)
	switch m.Via {
	case ViaArray:
		return fmt.Sprintf("(%s)%s.Clone()", typ, src)
	case ViaCloneable:
		return fmt.Sprintf("(%s)((global::System.ICloneable)%s).Clone()", typ, src)
	case ViaCopyConstructor:
		return fmt.Sprintf("new %s(%s)", typ, src)
	case ViaWith:
		return src + " with { }"
	}
	if m.Cast {
		return fmt.Sprintf("(%s)%s.Clone()", typ, src)
	}
	return src + ".Clone()"
}
