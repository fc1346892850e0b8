package observer

import (
	"fmt"

	"github.com/teranos/patternkit/emit"
)

const (
	tokenType  = "global::System.Threading.CancellationToken"
	valueTask  = "global::System.Threading.Tasks.ValueTask"
	exception  = "global::System.Exception"
	interlock  = "global::System.Threading.Interlocked"
	listOfExns = "global::System.Collections.Generic.List<global::System.Exception>"
)

// Emit renders <Q>.Observer.g
func Emit(p *Plan) []emit.Document {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)
	w.Open(emit.PartialHeader(p.Decl))

	e := &emitter{w: w, p: p}
	e.fields()
	w.Blank()
	e.count()
	w.Blank()
	e.subscribe(false)
	if p.EmitAsync {
		w.Blank()
		e.subscribe(true)
	}
	w.Blank()
	e.publish()
	if p.EmitAsync {
		w.Blank()
		e.publishAsync()
	}
	w.Blank()
	e.snapshot()
	w.Blank()
	e.unsubscribe()
	w.Blank()
	e.subscription()

	w.Close()
	closeScope()
	return []emit.Document{{Key: emit.Key(p.Decl, "Observer"), Text: w.String()}}
}

type emitter struct {
	w *emit.Writer
	p *Plan
}

func (e *emitter) handlerType() string {
	return fmt.Sprintf("global::System.Action<%s>", e.p.Payload)
}

func (e *emitter) asyncHandlerType() string {
	return fmt.Sprintf("global::System.Func<%s, %s, %s>", e.p.Payload, tokenType, valueTask)
}

func (e *emitter) fields() {
	w := e.w
	switch e.p.Config.Threading {
	case SingleThreadedFast:
		w.Line("private readonly global::System.Collections.Generic.List<Subscription> _subscribers = new global::System.Collections.Generic.List<Subscription>();")
	case Locking:
		w.Line("private readonly object _subscribersGate = new object();")
		w.Line("private readonly global::System.Collections.Generic.List<Subscription> _subscribers = new global::System.Collections.Generic.List<Subscription>();")
	case Concurrent:
		w.Line("private readonly global::System.Collections.Concurrent.ConcurrentDictionary<long, Subscription> _subscribers = new global::System.Collections.Concurrent.ConcurrentDictionary<long, Subscription>();")
	}
	w.Line("private long _nextSubscriptionId;")
}

func (e *emitter) count() {
	w := e.w
	switch e.p.Config.Threading {
	case Locking:
		w.Open("public int SubscriberCount")
		w.Open("get")
		w.Open("lock (_subscribersGate)")
		w.Line("return _subscribers.Count;")
		w.Close()
		w.Close()
		w.Close()
	default:
		w.Line("public int SubscriberCount => _subscribers.Count;")
	}
}

func (e *emitter) subscribe(async bool) {
	w := e.w
	handlerType, ctorArgs := e.handlerType(), "id, handler, null"
	if async {
		handlerType, ctorArgs = e.asyncHandlerType(), "id, null, handler"
	}
	w.Openf("public global::System.IDisposable Subscribe(%s handler)", handlerType)
	w.Open("if (handler is null)")
	w.Line("throw new global::System.ArgumentNullException(nameof(handler));")
	w.Close()
	switch e.p.Config.Threading {
	case SingleThreadedFast:
		w.Line("var id = ++_nextSubscriptionId;")
		w.Linef("var subscription = new Subscription(this, %s);", ctorArgs)
		w.Line("_subscribers.Add(subscription);")
	case Locking:
		w.Line("Subscription subscription;")
		w.Open("lock (_subscribersGate)")
		w.Line("var id = ++_nextSubscriptionId;")
		w.Linef("subscription = new Subscription(this, %s);", ctorArgs)
		w.Line("_subscribers.Add(subscription);")
		w.Close()
	case Concurrent:
		w.Linef("var id = %s.Increment(ref _nextSubscriptionId);", interlock)
		w.Linef("var subscription = new Subscription(this, %s);", ctorArgs)
		w.Line("_subscribers[id] = subscription;")
	}
	w.Line("return subscription;")
	w.Close()
}

// publish writes the synchronous Publish. It reaches synchronous subscribers
// only; asynchronous ones are reached by PublishAsync.
func (e *emitter) publish() {
	w := e.w
	w.Openf("public void Publish(%s payload)", e.p.Payload)
	w.Line("var snapshot = SnapshotSubscribers();")
	e.dispatch(func() {
		w.Open("if (subscription.Handler is null)")
		w.Line("continue;")
		w.Close()
		w.Line("subscription.Handler(payload);")
	})
	w.Close()
}

func (e *emitter) publishAsync() {
	w := e.w
	w.Openf("public async %s PublishAsync(%s payload, %s cancellationToken = default)", valueTask, e.p.Payload, tokenType)
	w.Line("var snapshot = SnapshotSubscribers();")
	e.dispatch(func() {
		w.Line("cancellationToken.ThrowIfCancellationRequested();")
		w.Open("if (subscription.AsyncHandler is not null)")
		w.Line("await subscription.AsyncHandler(payload, cancellationToken).ConfigureAwait(false);")
		w.Close()
		w.Open("else")
		w.Line("subscription.Handler!(payload);")
		w.Close()
	})
	w.Close()
}

// dispatch writes the loop over the snapshot with the exception policy around invoke
func (e *emitter) dispatch(invoke func()) {
	w := e.w
	switch e.p.Config.Exceptions {
	case Stop:
		w.Open("foreach (var subscription in snapshot)")
		invoke()
		w.Close()
	case Aggregate:
		w.Linef("%s? errors = null;", listOfExns)
		w.Open("foreach (var subscription in snapshot)")
		w.Open("try")
		invoke()
		w.Close()
		w.Openf("catch (%s ex)", exception)
		w.Linef("(errors ??= new %s()).Add(ex);", listOfExns)
		w.Close()
		w.Close()
		w.Open("if (errors is not null)")
		w.Line("throw new global::System.AggregateException(errors);")
		w.Close()
	case FirstOnly:
		w.Linef("%s? first = null;", exception)
		w.Open("foreach (var subscription in snapshot)")
		w.Open("try")
		invoke()
		w.Close()
		w.Openf("catch (%s ex)", exception)
		w.Line("first ??= ex;")
		w.Close()
		w.Close()
		w.Open("if (first is not null)")
		w.Line("global::System.Runtime.ExceptionServices.ExceptionDispatchInfo.Capture(first).Throw();")
		w.Close()
	}
}

func (e *emitter) snapshot() {
	w := e.w
	w.Open("private Subscription[] SnapshotSubscribers()")
	switch e.p.Config.Threading {
	case SingleThreadedFast:
		w.Line("return _subscribers.ToArray();")
	case Locking:
		w.Open("lock (_subscribersGate)")
		w.Line("return _subscribers.ToArray();")
		w.Close()
	case Concurrent:
		w.Line("var entries = _subscribers.ToArray();")
		w.Line("global::System.Array.Sort(entries, static (a, b) => a.Key.CompareTo(b.Key));")
		w.Line("var snapshot = new Subscription[entries.Length];")
		w.Open("for (var i = 0; i < entries.Length; i++)")
		w.Line("snapshot[i] = entries[i].Value;")
		w.Close()
		w.Line("return snapshot;")
	}
	w.Close()
}

func (e *emitter) unsubscribe() {
	w := e.w
	w.Open("private void Unsubscribe(Subscription subscription)")
	switch e.p.Config.Threading {
	case SingleThreadedFast:
		w.Line("_subscribers.Remove(subscription);")
	case Locking:
		w.Open("lock (_subscribersGate)")
		w.Line("_subscribers.Remove(subscription);")
		w.Close()
	case Concurrent:
		w.Line("_subscribers.TryRemove(subscription.Id, out _);")
	}
	w.Close()
}

func (e *emitter) subscription() {
	w := e.w
	owner := e.p.Decl.TypeSyntax()
	w.Open("private sealed class Subscription : global::System.IDisposable")
	w.Linef("private %s? _owner;", owner)
	w.Blank()
	w.Openf("public Subscription(%s owner, long id, %s? handler, %s? asyncHandler)", owner, e.handlerType(), e.asyncHandlerType())
	w.Line("_owner = owner;")
	w.Line("Id = id;")
	w.Line("Handler = handler;")
	w.Line("AsyncHandler = asyncHandler;")
	w.Close()
	w.Blank()
	w.Line("public long Id { get; }")
	w.Blank()
	w.Linef("public %s? Handler { get; }", e.handlerType())
	w.Blank()
	w.Linef("public %s? AsyncHandler { get; }", e.asyncHandlerType())
	w.Blank()
	w.Open("public void Dispose()")
	w.Linef("var owner = %s.Exchange(ref _owner, null);", interlock)
	w.Line("owner?.Unsubscribe(this);")
	w.Close()
	w.Close()
}
