package composite

import (
	"fmt"
	"strings"

	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/model"
)

const (
	list        = "global::System.Collections.Generic.List"
	readOnly    = "global::System.Collections.Generic.IReadOnlyList"
	enumerable  = "global::System.Collections.Generic.IEnumerable"
	argumentNul = "global::System.ArgumentNullException"
)

// Emit renders <Q>.Composite.g and, unless disabled, <Q>.Composite.Traversal.g
func Emit(p *Plan) []emit.Document {
	docs := []emit.Document{{Key: emit.Key(p.Decl, "Composite"), Text: emitBases(p)}}
	if p.Config.GenerateTraversalHelpers {
		docs = append(docs, emit.Document{Key: emit.Key(p.Decl, "Composite", "Traversal"), Text: emitTraversal(p)})
	}
	return docs
}

func emitBases(p *Plan) string {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)
	access := emit.Accessibility(p.Decl)

	w.Openf("%s abstract partial class %s : %s", access, p.Config.ComponentBaseName, p.Decl.Name)
	first := true
	sep := func() {
		if !first {
			w.Blank()
		}
		first = false
	}
	for _, op := range p.Operations {
		if !op.Abstract {
			continue
		}
		if !p.IsInterface && op.Kind == Leaf {
			// inherited abstract
			continue
		}
		sep()
		componentMember(w, p, op)
	}
	if p.IsInterface {
		for _, ev := range p.Events {
			sep()
			w.Linef("public abstract event %s %s;", emit.Type(ev.Type), emit.Ident(ev.Name))
		}
	}
	w.Close()
	w.Blank()

	children := p.Config.ChildrenPropertyName
	field := emit.Field(children)
	w.Openf("%s abstract partial class %s : %s", access, p.Config.CompositeBaseName, p.Config.ComponentBaseName)
	w.Linef("private readonly %s<%s> %s = new %s<%s>();", list, p.Contract, field, list, p.Contract)
	w.Blank()
	w.Linef("public %s<%s> %s => %s;", readOnly, p.Contract, children, field)
	w.Blank()
	w.Openf("public void Add(%s child)", p.Contract)
	w.Open("if (child is null)")
	w.Linef("throw new %s(nameof(child));", argumentNul)
	w.Close()
	w.Open("if (ReferenceEquals(child, this))")
	w.Line(`throw new global::System.ArgumentException("A composite cannot contain itself.", nameof(child));`)
	w.Close()
	w.Linef("%s.Add(child);", field)
	w.Close()
	w.Blank()
	w.Linef("public bool Remove(%s child) => %s.Remove(child);", p.Contract, field)
	w.Blank()
	w.Linef("public void Clear() => %s.Clear();", field)
	for _, op := range p.FanOuts() {
		w.Blank()
		fanOut(w, op, field)
	}
	w.Close()

	closeScope()
	return w.String()
}

// modifier is how a no-op member relates to the contract's member
func modifier(p *Plan) string {
	if p.IsInterface {
		return "virtual"
	}
	return "override"
}

func signature(m *model.Member) string {
	name := emit.Ident(m.Name)
	if m.IsGeneric() {
		name += "<" + strings.Join(m.TypeParameters, ", ") + ">"
	}
	return fmt.Sprintf("%s %s(%s)", emit.Type(m.Type), name, emit.Parameters(m.Parameters, false))
}

func accessors(m *model.Member) string {
	parts := make([]string, 0, 2)
	if m.HasGetter {
		parts = append(parts, "get;")
	}
	switch {
	case m.HasSetter:
		parts = append(parts, "set;")
	case m.HasInit:
		parts = append(parts, "init;")
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// componentMember writes the component base's version of an operation: no-op
// bodies for forwardable operations, abstract declarations for the rest.
func componentMember(w *emit.Writer, p *Plan, op Operation) {
	m := op.Member
	if m.Kind == model.Property {
		w.Linef("%s abstract %s %s %s", op.Access, emit.Type(m.Type), emit.Ident(m.Name), accessors(m))
		return
	}
	switch op.Kind {
	case FanOut:
		w.Openf("%s %s %s", op.Access, modifier(p), signature(m))
		w.Close()
	case FanOutAsync:
		w.Linef("%s %s %s => default;", op.Access, modifier(p), signature(m))
	default:
		w.Linef("%s abstract %s;", op.Access, signature(m))
	}
}

func fanOut(w *emit.Writer, op Operation, field string) {
	m := op.Member
	call := fmt.Sprintf("child.%s(%s)", emit.Ident(m.Name), emit.Arguments(m.Parameters))
	if op.Kind == FanOutAsync {
		w.Openf("%s override async %s", op.Access, signature(m))
		w.Openf("foreach (var child in %s)", field)
		w.Linef("await %s.ConfigureAwait(false);", call)
	} else {
		w.Openf("%s override %s", op.Access, signature(m))
		w.Openf("foreach (var child in %s)", field)
		w.Linef("%s;", call)
	}
	w.Close()
	w.Close()
}

// emitTraversal writes depth-first pre-order and breadth-first enumerations
// as extension methods. Extension classes cannot be nested, so the class is
// placed at namespace level even for a nested contract.
func emitTraversal(p *Plan) string {
	w := emit.NewWriter()
	emit.Header(w)
	if p.Decl.Namespace != "" {
		w.Openf("namespace %s", p.Decl.Namespace)
	}
	composite := p.Config.CompositeBaseName
	if p.Decl.IsNested() {
		composite = strings.TrimSuffix(p.Contract, p.Decl.Name) + composite
	}
	children := p.Config.ChildrenPropertyName
	seq := fmt.Sprintf("%s<%s>", enumerable, p.Contract)

	w.Openf("%s static partial class %sTraversal", emit.Accessibility(p.Decl), emit.StripInterfacePrefix(p.Decl.Name))
	w.Openf("public static %s DepthFirst(this %s root)", seq, p.Contract)
	w.Open("if (root is null)")
	w.Linef("throw new %s(nameof(root));", argumentNul)
	w.Close()
	w.Line("return DepthFirstIterator(root);")
	w.Close()
	w.Blank()
	w.Openf("public static %s BreadthFirst(this %s root)", seq, p.Contract)
	w.Open("if (root is null)")
	w.Linef("throw new %s(nameof(root));", argumentNul)
	w.Close()
	w.Line("return BreadthFirstIterator(root);")
	w.Close()
	w.Blank()
	w.Openf("private static %s DepthFirstIterator(%s root)", seq, p.Contract)
	w.Linef("var stack = new global::System.Collections.Generic.Stack<%s>();", p.Contract)
	w.Line("stack.Push(root);")
	w.Open("while (stack.Count > 0)")
	w.Line("var node = stack.Pop();")
	w.Line("yield return node;")
	w.Openf("if (node is %s composite)", composite)
	w.Openf("for (var i = composite.%s.Count - 1; i >= 0; i--)", children)
	w.Linef("stack.Push(composite.%s[i]);", children)
	w.Close()
	w.Close()
	w.Close()
	w.Close()
	w.Blank()
	w.Openf("private static %s BreadthFirstIterator(%s root)", seq, p.Contract)
	w.Linef("var queue = new global::System.Collections.Generic.Queue<%s>();", p.Contract)
	w.Line("queue.Enqueue(root);")
	w.Open("while (queue.Count > 0)")
	w.Line("var node = queue.Dequeue();")
	w.Line("yield return node;")
	w.Openf("if (node is %s composite)", composite)
	w.Openf("foreach (var child in composite.%s)", children)
	w.Line("queue.Enqueue(child);")
	w.Close()
	w.Close()
	w.Close()
	w.Close()
	w.Close()

	if p.Decl.Namespace != "" {
		w.Close()
	}
	return w.String()
}
