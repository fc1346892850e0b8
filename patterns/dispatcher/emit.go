package dispatcher

import (
	"fmt"

	"github.com/teranos/patternkit/emit"
)

const (
	tokenType    = "global::System.Threading.CancellationToken"
	valueTask    = "global::System.Threading.Tasks.ValueTask"
	argumentNull = "global::System.ArgumentNullException"
	invalidOp    = "global::System.InvalidOperationException"
	list         = "global::System.Collections.Generic.List"
	asyncStream  = "global::System.Collections.Generic.IAsyncEnumerable"
)

// Emit renders <Q>.Dispatcher.g and <Q>.Contracts.g
func Emit(p *Plan) []emit.Document {
	return []emit.Document{
		{Key: emit.Key(p.Decl, "Dispatcher"), Text: emitDispatcher(p)},
		{Key: emit.Key(p.Decl, "Contracts"), Text: emitContracts(p)},
	}
}

func emitContracts(p *Plan) string {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)
	w.Open(emit.PartialHeader(p.Decl))

	w.Open("public interface ICommandHandler<in TCommand, TResponse>")
	w.Linef("%s<TResponse> HandleAsync(TCommand command, %s cancellationToken);", valueTask, tokenType)
	w.Close()
	w.Blank()
	w.Open("public interface INotificationHandler<in TNotification>")
	w.Linef("%s HandleAsync(TNotification notification, %s cancellationToken);", valueTask, tokenType)
	w.Close()
	if p.Config.IncludeStreaming {
		w.Blank()
		w.Open("public interface IStreamHandler<in TRequest, out TItem>")
		w.Linef("%s<TItem> HandleAsync(TRequest request, %s cancellationToken);", asyncStream, tokenType)
		w.Close()
	}

	w.Close()
	closeScope()
	return w.String()
}

func (m Message) contract() string {
	switch m.Kind {
	case Notification:
		return fmt.Sprintf("INotificationHandler<%s>", m.Ref)
	case Stream:
		return fmt.Sprintf("IStreamHandler<%s, %s>", m.Ref, m.Result)
	}
	return fmt.Sprintf("ICommandHandler<%s, %s>", m.Ref, m.Result)
}

func emitDispatcher(p *Plan) string {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)
	w.Open(emit.PartialHeader(p.Decl))

	w.Line("private readonly object _gate = new object();")
	for _, m := range p.Commands {
		w.Linef("private %s? %s;", m.contract(), m.Field)
	}
	for _, m := range p.Notifications {
		w.Linef("private readonly %s<%s> %s = new %s<%s>();", list, m.contract(), m.Field, list, m.contract())
	}
	for _, m := range p.Streams {
		w.Linef("private %s? %s;", m.contract(), m.Field)
	}

	for _, m := range p.Commands {
		w.Blank()
		registerSingle(w, p, m)
	}
	for _, m := range p.Notifications {
		w.Blank()
		w.Openf("%s %s Register(%s handler)", m.Access, p.Decl.TypeSyntax(), m.contract())
		nullCheck(w, "handler")
		w.Open("lock (_gate)")
		w.Linef("%s.Add(handler);", m.Field)
		w.Close()
		w.Line("return this;")
		w.Close()
	}
	for _, m := range p.Streams {
		w.Blank()
		registerSingle(w, p, m)
	}

	for _, m := range p.Commands {
		w.Blank()
		w.Openf("%s %s<%s> Send(%s command, %s cancellationToken = default)", m.Access, valueTask, m.Result, m.Ref, tokenType)
		single(w, m, "command")
		w.Close()
	}
	for _, m := range p.Notifications {
		w.Blank()
		publish(w, m)
	}
	for _, m := range p.Streams {
		w.Blank()
		w.Openf("%s %s<%s> Stream(%s request, %s cancellationToken = default)", m.Access, asyncStream, m.Result, m.Ref, tokenType)
		single(w, m, "request")
		w.Close()
	}

	w.Close()
	closeScope()
	return w.String()
}

func nullCheck(w *emit.Writer, name string) {
	w.Openf("if (%s is null)", name)
	w.Linef("throw new %s(nameof(%s));", argumentNull, name)
	w.Close()
}

// registerSingle writes Register for a kind that takes exactly one handler
func registerSingle(w *emit.Writer, p *Plan, m Message) {
	w.Openf("%s %s Register(%s handler)", m.Access, p.Decl.TypeSyntax(), m.contract())
	nullCheck(w, "handler")
	w.Open("lock (_gate)")
	w.Openf("if (%s is not null)", m.Field)
	w.Linef("throw new %s(%s);", invalidOp, emit.Literal("A handler for "+m.Kind.String()+" "+m.Decl.Name+" is already registered."))
	w.Close()
	w.Linef("%s = handler;", m.Field)
	w.Close()
	w.Line("return this;")
	w.Close()
}

func single(w *emit.Writer, m Message, param string) {
	if m.Reference() {
		nullCheck(w, param)
	}
	w.Linef("var handler = global::System.Threading.Volatile.Read(ref %s);", m.Field)
	w.Open("if (handler is null)")
	w.Linef("throw new %s(%s);", invalidOp, emit.Literal("No handler is registered for "+m.Kind.String()+" "+m.Decl.Name+"."))
	w.Close()
	w.Linef("return handler.HandleAsync(%s, cancellationToken);", param)
}

// publish runs the handlers one at a time in registration order over a
// snapshot taken under the lock.
func publish(w *emit.Writer, m Message) {
	w.Openf("%s async %s Publish(%s notification, %s cancellationToken = default)", m.Access, valueTask, m.Ref, tokenType)
	if m.Reference() {
		nullCheck(w, "notification")
	}
	w.Linef("%s[] handlers;", m.contract())
	w.Open("lock (_gate)")
	w.Linef("handlers = %s.ToArray();", m.Field)
	w.Close()
	w.Open("foreach (var handler in handlers)")
	w.Line("cancellationToken.ThrowIfCancellationRequested();")
	w.Line("await handler.HandleAsync(notification, cancellationToken).ConfigureAwait(false);")
	w.Close()
	w.Close()
}
