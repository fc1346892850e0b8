package visitor

import (
	"fmt"
	"strings"

	"github.com/teranos/patternkit/emit"
)

const (
	typeType     = "global::System.Type"
	tokenType    = "global::System.Threading.CancellationToken"
	valueTask    = "global::System.Threading.Tasks.ValueTask"
	dictionary   = "global::System.Collections.Generic.Dictionary"
	argumentNull = "global::System.ArgumentNullException"
)

// Emit renders <Q>.Visitor.g
func Emit(p *Plan) []emit.Document {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)

	if p.Accept {
		acceptors(w, p)
		w.Blank()
	}
	dispatch(w, p)
	for _, v := range p.Variants {
		w.Blank()
		variant(w, p, v)
	}

	closeScope()
	return []emit.Document{{Key: emit.Key(p.Decl, "Visitor"), Text: w.String()}}
}

func acceptors(w *emit.Writer, p *Plan) {
	w.Open(emit.PartialHeader(p.Decl))
	for i, v := range p.Variants {
		if i > 0 {
			w.Blank()
		}
		switch {
		case v.Async && v.Result:
			w.Linef("%s %s<TResult> AcceptAsync<TResult>(%s<TResult> visitor, %s cancellationToken = default) => visitor.VisitAsync(this, cancellationToken);",
				p.Access, valueTask, v.Name, tokenType)
		case v.Async:
			w.Linef("%s %s AcceptAsync(%s visitor, %s cancellationToken = default) => visitor.VisitAsync(this, cancellationToken);",
				p.Access, valueTask, v.Name, tokenType)
		case v.Result:
			w.Linef("%s TResult Accept<TResult>(%s<TResult> visitor) => visitor.Visit(this);", p.Access, v.Name)
		default:
			w.Linef("%s void Accept(%s visitor) => visitor.Visit(this);", p.Access, v.Name)
		}
	}
	w.Close()
}

// dispatch writes the ancestor chains and the type switch that picks one.
func dispatch(w *emit.Writer, p *Plan) {
	root := p.Root()
	w.Openf("internal static class %s", p.Dispatch)
	for _, n := range p.Nodes {
		types := make([]string, len(n.Chain))
		for i, c := range n.Chain {
			types[i] = "typeof(" + c + ")"
		}
		w.Linef("private static readonly %s[] %s = { %s };", typeType, n.Field, strings.Join(types, ", "))
	}
	w.Blank()
	w.Line("// Handlers are looked up along the chain, nearest type first.")
	w.Openf("internal static %s[] ChainOf(%s node)", typeType, root.Ref)
	w.Open("switch (node)")
	for _, n := range p.DispatchOrder() {
		w.Linef("case %s _:", n.Ref)
		w.Indent()
		w.Linef("return %s;", n.Field)
		w.Dedent()
	}
	w.Line("default:")
	w.Indent()
	w.Linef("return %s;", root.Field)
	w.Dedent()
	w.Close()
	w.Close()
	w.Close()
}

func (v Variant) typeName() string {
	if v.Result {
		return v.Name + "<TResult>"
	}
	return v.Name
}

// handler is the delegate type that handles nodes of type t
func (v Variant) handler(t string) string {
	switch {
	case v.Async && v.Result:
		return fmt.Sprintf("global::System.Func<%s, %s, %s<TResult>>", t, tokenType, valueTask)
	case v.Async:
		return fmt.Sprintf("global::System.Func<%s, %s, %s>", t, tokenType, valueTask)
	case v.Result:
		return fmt.Sprintf("global::System.Func<%s, TResult>", t)
	}
	return fmt.Sprintf("global::System.Action<%s>", t)
}

func (v Variant) returns() string {
	switch {
	case v.Async && v.Result:
		return valueTask + "<TResult>"
	case v.Async:
		return valueTask
	case v.Result:
		return "TResult"
	}
	return "void"
}

func (v Variant) invoke(h string) string {
	if v.Async {
		return h + "(node, cancellationToken)"
	}
	return h + "(node)"
}

func (v Variant) ret(w *emit.Writer, call string) {
	if v.returns() == "void" {
		w.Linef("%s;", call)
		w.Line("return;")
		return
	}
	w.Linef("return %s;", call)
}

func variant(w *emit.Writer, p *Plan, v Variant) {
	root := p.Root()
	h := v.handler(root.Ref)
	table := fmt.Sprintf("%s<%s, %s>", dictionary, typeType, h)

	w.Openf("%s sealed partial class %s", p.Access, v.typeName())
	w.Linef("private readonly %s _handlers;", table)
	w.Linef("private readonly %s? _default;", h)
	w.Blank()
	w.Openf("private %s(%s handlers, %s? @default)", v.Name, table, h)
	w.Line("_handlers = handlers;")
	w.Line("_default = @default;")
	w.Close()
	w.Blank()
	w.Line("public static Builder Create() => new Builder();")
	w.Blank()

	method, params := "Visit", root.Ref+" node"
	if v.Async {
		method = "VisitAsync"
		params += ", " + tokenType + " cancellationToken = default"
	}
	w.Openf("public %s %s(%s)", v.returns(), method, params)
	w.Open("if (node is null)")
	w.Linef("throw new %s(nameof(node));", argumentNull)
	w.Close()
	w.Openf("foreach (var type in %s.ChainOf(node))", p.Dispatch)
	w.Open("if (_handlers.TryGetValue(type, out var handler))")
	v.ret(w, v.invoke("handler"))
	w.Close()
	w.Close()
	w.Open("if (_default is not null)")
	v.ret(w, v.invoke("_default"))
	w.Close()
	w.Line(`throw new global::System.InvalidOperationException("No visitor handler is registered for " + node.GetType().FullName + ".");`)
	w.Close()
	w.Blank()

	w.Open("public sealed class Builder")
	w.Linef("private readonly %s _handlers = new %s();", table, table)
	w.Linef("private %s? _default;", h)
	for _, n := range p.Nodes {
		w.Blank()
		w.Openf("public Builder When%s(%s handler)", n.Decl.Name, v.handler(n.Ref))
		nullCheck(w)
		wrapped := "handler"
		if n.Ref != root.Ref {
			if v.Async {
				wrapped = fmt.Sprintf("(node, cancellationToken) => handler((%s)node, cancellationToken)", n.Ref)
			} else {
				wrapped = fmt.Sprintf("node => handler((%s)node)", n.Ref)
			}
		}
		w.Linef("_handlers[typeof(%s)] = %s;", n.Ref, wrapped)
		w.Line("return this;")
		w.Close()
	}
	w.Blank()
	w.Line("// Default runs when no type on the node's chain has a handler.")
	w.Openf("public Builder Default(%s handler)", h)
	nullCheck(w)
	w.Line("_default = handler;")
	w.Line("return this;")
	w.Close()
	w.Blank()
	w.Linef("public %s Build() => new %s(new %s(_handlers), _default);", v.typeName(), v.typeName(), table)
	w.Close()
	w.Close()
}

func nullCheck(w *emit.Writer) {
	w.Open("if (handler is null)")
	w.Linef("throw new %s(nameof(handler));", argumentNull)
	w.Close()
}
