package iterator

import (
	"fmt"

	"github.com/teranos/patternkit/emit"
)

const (
	genericEnumerable = "global::System.Collections.Generic.IEnumerable"
	genericEnumerator = "global::System.Collections.Generic.IEnumerator"
)

// Emit renders <Q>.Iterator.g: a struct enumerator driving the step method
// and the GetEnumerator surface foreach binds to.
func Emit(p *Plan) []emit.Document {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)

	item := emit.Type(p.Item)
	state := emit.Type(p.State)
	owner := p.Decl.TypeSyntax()
	enumerator := p.Config.EnumeratorName

	header := emit.PartialHeader(p.Decl)
	if p.Config.GenerateEnumerable {
		header += fmt.Sprintf(" : %s<%s>", genericEnumerable, item)
	}
	w.Open(header)
	w.Linef("public %s GetEnumerator() => new %s(this);", enumerator, enumerator)
	if p.Config.GenerateEnumerable {
		w.Blank()
		w.Linef("%s<%s> %s<%s>.GetEnumerator() => GetEnumerator();", genericEnumerator, item, genericEnumerable, item)
		w.Blank()
		w.Line("global::System.Collections.IEnumerator global::System.Collections.IEnumerable.GetEnumerator() => GetEnumerator();")
	}
	w.Blank()

	w.Openf("public struct %s : %s<%s>", enumerator, genericEnumerator, item)
	w.Linef("private readonly %s _owner;", owner)
	w.Linef("private %s _state;", state)
	w.Linef("private %s _current;", item)
	w.Blank()
	w.Openf("internal %s(%s owner)", enumerator, owner)
	w.Line("_owner = owner;")
	w.Linef("_state = %s;", seed(p, "owner"))
	w.Line("_current = default!;")
	w.Close()
	w.Blank()
	w.Linef("public %s Current => _current;", item)
	w.Blank()
	w.Line("object? global::System.Collections.IEnumerator.Current => _current;")
	w.Blank()
	w.Linef("public bool MoveNext() => %s.%s(ref _state, out _current);", receiver(p, p.Step.IsStatic(), "_owner"), emit.Ident(p.Step.Name))
	w.Blank()
	w.Open("public void Reset()")
	w.Linef("_state = %s;", seed(p, "_owner"))
	w.Line("_current = default!;")
	w.Close()
	w.Blank()
	w.Open("public void Dispose()")
	w.Close()
	w.Close()

	w.Close()
	closeScope()
	return []emit.Document{{Key: emit.Key(p.Decl, "Iterator"), Text: w.String()}}
}

func receiver(p *Plan, static bool, instance string) string {
	if static {
		return p.Decl.TypeSyntax()
	}
	return instance
}

// seed renders the initial state expression read through the owner variable
func seed(p *Plan, owner string) string {
	if p.Seed == nil {
		return "default!"
	}
	expr := receiver(p, p.Seed.Member.IsStatic(), owner) + "." + emit.Ident(p.Seed.Member.Name)
	if p.Seed.Call {
		expr += "()"
	}
	return expr
}

// EmitTraversal renders <Q>.Traversal.g: stack-based depth-first pre-order
// and queue-based breadth-first static enumerations over the child provider.
func EmitTraversal(p *TraversalPlan) []emit.Document {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)

	node := emit.Type(p.Node)
	seq := fmt.Sprintf("%s<%s>", genericEnumerable, node)
	children := emit.Ident(p.Children.Name)

	w.Open(emit.PartialHeader(p.Decl))
	w.Openf("public static %s %s(%s root)", seq, p.Config.DepthFirstName, node)
	w.Linef("var stack = new global::System.Collections.Generic.Stack<%s>();", node)
	w.Line("stack.Push(root);")
	w.Open("while (stack.Count > 0)")
	w.Line("var current = stack.Pop();")
	w.Line("yield return current;")
	w.Linef("var children = %s(current);", children)
	w.Open("if (children is null)")
	w.Line("continue;")
	w.Close()
	w.Linef("var buffer = new global::System.Collections.Generic.List<%s>(children);", node)
	w.Open("for (var i = buffer.Count - 1; i >= 0; i--)")
	w.Line("stack.Push(buffer[i]);")
	w.Close()
	w.Close()
	w.Close()
	w.Blank()
	w.Openf("public static %s %s(%s root)", seq, p.Config.BreadthFirstName, node)
	w.Linef("var queue = new global::System.Collections.Generic.Queue<%s>();", node)
	w.Line("queue.Enqueue(root);")
	w.Open("while (queue.Count > 0)")
	w.Line("var current = queue.Dequeue();")
	w.Line("yield return current;")
	w.Linef("var children = %s(current);", children)
	w.Open("if (children is null)")
	w.Line("continue;")
	w.Close()
	w.Open("foreach (var child in children)")
	w.Line("queue.Enqueue(child);")
	w.Close()
	w.Close()
	w.Close()
	w.Close()

	closeScope()
	return []emit.Document{{Key: emit.Key(p.Decl, "Traversal"), Text: w.String()}}
}
