package proxy

import (
	"fmt"
	"strings"

	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/model"
)

const exception = "global::System.Exception"

// Emit renders <Q>.Proxy.g and, when calls are intercepted, <Q>.Proxy.Interceptor.g
func Emit(p *Plan) []emit.Document {
	docs := []emit.Document{{Key: emit.Key(p.Decl, "Proxy"), Text: emitProxy(p)}}
	if p.Intercepting() {
		docs = append(docs, emit.Document{Key: emit.Key(p.Decl, "Proxy", "Interceptor"), Text: emitInterceptor(p)})
	}
	return docs
}

func emitProxy(p *Plan) string {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)

	w.Openf("%s sealed partial class %s : %s", emit.Accessibility(p.Decl), p.ProxyName, p.Decl.Name)
	w.Linef("private readonly %s _inner;", p.Contract)
	ctorParams := fmt.Sprintf("%s inner", p.Contract)
	switch p.Config.InterceptorMode {
	case Single:
		w.Linef("private readonly %s? _interceptor;", p.Interceptor)
		ctorParams += fmt.Sprintf(", %s? interceptor = null", p.Interceptor)
	case Pipeline:
		w.Linef("private readonly %s[] _interceptors;", p.Interceptor)
		ctorParams += fmt.Sprintf(", params %s[] interceptors", p.Interceptor)
	}
	w.Blank()
	w.Openf("public %s(%s)", p.ProxyName, ctorParams)
	w.Line("_inner = inner ?? throw new global::System.ArgumentNullException(nameof(inner));")
	switch p.Config.InterceptorMode {
	case Single:
		w.Line("_interceptor = interceptor;")
	case Pipeline:
		w.Line("_interceptors = interceptors is null ? global::System.Array.Empty<" + p.Interceptor + ">() : (" + p.Interceptor + "[])interceptors.Clone();")
	}
	w.Close()

	for _, m := range p.Members {
		w.Blank()
		switch {
		case m.Member.Kind == model.Property:
			property(w, p, m)
		case m.Intercept:
			intercepted(w, p, m)
		default:
			w.Linef("%s => _inner.%s(%s);", header(p, m, false), emit.Ident(m.Member.Name), emit.Arguments(m.Member.Parameters))
		}
	}
	w.Close()

	closeScope()
	return w.String()
}

func header(p *Plan, m Member, async bool) string {
	var sb strings.Builder
	sb.WriteString(m.Access)
	if !p.IsInterface {
		sb.WriteString(" override")
	}
	if async {
		sb.WriteString(" async")
	}
	fmt.Fprintf(&sb, " %s %s(%s)", emit.Type(m.Member.Type), emit.Ident(m.Member.Name), emit.Parameters(m.Member.Parameters, false))
	return sb.String()
}

func property(w *emit.Writer, p *Plan, m Member) {
	name := emit.Ident(m.Member.Name)
	var sb strings.Builder
	sb.WriteString(m.Access)
	if !p.IsInterface {
		sb.WriteString(" override")
	}
	fmt.Fprintf(&sb, " %s %s", emit.Type(m.Member.Type), name)
	w.Open(sb.String())
	if m.Member.HasGetter {
		w.Linef("get => _inner.%s;", name)
	}
	switch {
	case m.Member.HasSetter:
		w.Linef("set => _inner.%s = value;", name)
	case m.Member.HasInit:
		w.Linef("init => throw new global::System.NotSupportedException(%s);",
			emit.Literal("Init-only property '"+m.Member.Name+"' cannot be forwarded."))
	}
	w.Close()
}

// intercepted writes a method that runs the interceptors around the call.
// Before hooks run in registration order; After and OnException run in
// reverse, so the first interceptor sees the outcome last.
func intercepted(w *emit.Writer, p *Plan, m Member) {
	pm := m.Member
	call := fmt.Sprintf("_inner.%s(%s)", emit.Ident(pm.Name), emit.Arguments(pm.Parameters))
	result := pm.Type
	if m.Await {
		result, _ = pm.Type.Awaited()
		call = fmt.Sprintf("await %s.ConfigureAwait(false)", call)
	}
	hasResult := !result.IsVoid()

	w.Open(header(p, m, m.Await))
	pipeline := p.Config.InterceptorMode == Pipeline
	if pipeline {
		w.Line("var interceptors = _interceptors;")
		w.Open("if (interceptors.Length == 0)")
	} else {
		w.Line("var interceptor = _interceptor;")
		w.Open("if (interceptor is null)")
	}
	switch {
	case hasResult:
		w.Linef("return %s;", call)
	default:
		w.Linef("%s;", call)
		w.Line("return;")
	}
	w.Close()

	w.Linef("var invocation = new %s(%s, %s);", p.Invocation, emit.Literal(pm.Name), argumentArray(pm.Parameters))
	hooks(w, pipeline, true, "Before(invocation)")
	if hasResult {
		w.Linef("%s result;", emit.Type(result))
	}
	w.Open("try")
	if hasResult {
		w.Linef("result = %s;", call)
	} else {
		w.Linef("%s;", call)
	}
	w.Close()
	w.Openf("catch (%s ex)", exception)
	hooks(w, pipeline, false, "OnException(invocation, ex)")
	w.Line("throw;")
	w.Close()
	if hasResult {
		w.Line("invocation.Result = result;")
	}
	hooks(w, pipeline, false, "After(invocation)")
	if hasResult {
		w.Line("return result;")
	}
	w.Close()
}

func hooks(w *emit.Writer, pipeline, ascending bool, call string) {
	if !pipeline {
		w.Linef("interceptor.%s;", call)
		return
	}
	if ascending {
		w.Open("for (var i = 0; i < interceptors.Length; i++)")
	} else {
		w.Open("for (var i = interceptors.Length - 1; i >= 0; i--)")
	}
	w.Linef("interceptors[i].%s;", call)
	w.Close()
}

func argumentArray(ps []model.Parameter) string {
	if len(ps) == 0 {
		return "global::System.Array.Empty<object?>()"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = emit.Ident(p.Name)
	}
	return "new object?[] { " + strings.Join(names, ", ") + " }"
}

func emitInterceptor(p *Plan) string {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)
	access := emit.Accessibility(p.Decl)

	w.Openf("%s interface %s", access, p.Interceptor)
	w.Linef("void Before(%s invocation);", p.Invocation)
	w.Blank()
	w.Linef("void After(%s invocation);", p.Invocation)
	w.Blank()
	w.Linef("void OnException(%s invocation, %s exception);", p.Invocation, exception)
	w.Close()
	w.Blank()

	w.Openf("%s sealed class %s", access, p.Invocation)
	w.Openf("public %s(string methodName, object?[] arguments)", p.Invocation)
	w.Line("MethodName = methodName;")
	w.Line("Arguments = arguments;")
	w.Close()
	w.Blank()
	w.Line("public string MethodName { get; }")
	w.Blank()
	w.Line("public object?[] Arguments { get; }")
	w.Blank()
	w.Line("public object? Result { get; set; }")
	w.Close()

	closeScope()
	return w.String()
}
