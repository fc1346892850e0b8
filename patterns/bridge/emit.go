package bridge

import (
	"strings"

	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/model"
)

// Emit renders <Q>.Bridge.g
func Emit(p *Plan) []emit.Document {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)

	w.Open(emit.PartialHeader(p.Decl))
	if len(p.Known) > 0 {
		refs := make([]string, len(p.Known))
		for i, k := range p.Known {
			refs[i] = `<see cref="global::` + k + `"/>`
		}
		w.Linef("/// <remarks>Implementors in this compilation: %s.</remarks>", strings.Join(refs, ", "))
	}
	w.Openf("protected %s(%s %s)", p.Decl.Name, p.ImplementorType, emit.Ident(p.ParameterName))
	w.Linef("%s = %s ?? throw new global::System.ArgumentNullException(nameof(%s));",
		p.PropertyName, emit.Ident(p.ParameterName), emit.Ident(p.ParameterName))
	w.Close()
	w.Blank()
	w.Linef("protected %s %s { get; }", p.ImplementorType, p.PropertyName)

	for _, m := range p.Forwarders {
		w.Blank()
		forward(w, p.PropertyName, m)
	}
	w.Close()

	closeScope()
	return []emit.Document{{Key: emit.Key(p.Decl, "Bridge"), Text: w.String()}}
}

func forward(w *emit.Writer, target string, m *model.Member) {
	name := emit.Ident(m.Name)
	typ := emit.Type(m.Type)
	switch m.Kind {
	case model.Method:
		w.Linef("protected %s %s(%s) => %s.%s(%s);",
			typ, name, emit.Parameters(m.Parameters, true), target, name, emit.Arguments(m.Parameters))
	case model.Property:
		if !m.HasSetter {
			w.Linef("protected %s %s => %s.%s;", typ, name, target, name)
			return
		}
		w.Openf("protected %s %s", typ, name)
		if m.HasGetter {
			w.Linef("get => %s.%s;", target, name)
		}
		w.Linef("set => %s.%s = value;", target, name)
		w.Close()
	case model.Event:
		w.Openf("protected event %s %s", typ, name)
		w.Linef("add => %s.%s += value;", target, name)
		w.Linef("remove => %s.%s -= value;", target, name)
		w.Close()
	}
}
