package statemachine

import (
	"fmt"

	"github.com/teranos/patternkit/emit"
)

const (
	tokenType = "global::System.Threading.CancellationToken"
	tokenName = "cancellationToken"
)

// Emit renders <Q>.StateMachine.g
func Emit(p *Plan) []emit.Document {
	w := emit.NewWriter()
	emit.Header(w)
	closeScope := emit.OpenScope(w, p.Decl)
	w.Open(emit.PartialHeader(p.Decl))

	e := &emitter{w: w, p: p}
	if p.DeclareState {
		e.stateProperty()
	}
	e.canFire(false)
	if p.EmitAsync && p.anyAsyncGuard() {
		e.canFire(true)
	}
	if p.EmitSync {
		e.fire(false)
	}
	if p.EmitAsync {
		e.fire(true)
	}

	w.Close()
	closeScope()
	return []emit.Document{{Key: emit.Key(p.Decl, "StateMachine"), Text: w.String()}}
}

func (p *Plan) anyAsyncGuard() bool {
	for _, t := range p.Transitions {
		if t.Guard != nil && t.Guard.Async {
			return true
		}
	}
	return false
}

type emitter struct {
	w       *emit.Writer
	p       *Plan
	members int
}

func (e *emitter) member() {
	if e.members > 0 {
		e.w.Blank()
	}
	e.members++
}

func (e *emitter) stateProperty() {
	e.member()
	cfg := e.p.Config
	init := ""
	if cfg.InitialState != "" && e.p.Decl.Kind.IsClass() {
		init = fmt.Sprintf(" = %s.%s;", e.p.StateType, cfg.InitialState)
	}
	e.w.Linef("public %s %s { get; private set; }%s", e.p.StateType, cfg.StateProperty, init)
}

// call renders a hook invocation. In a synchronous body a token parameter
// receives CancellationToken.None; in an async body the caller's token.
func call(h Hook, async bool) string {
	arg := ""
	if h.Token {
		arg = tokenType + ".None"
		if async {
			arg = tokenName
		}
	}
	expr := fmt.Sprintf("%s(%s)", h.Method, arg)
	if async && h.Async {
		return "await " + expr
	}
	return expr
}

func (e *emitter) canFire(async bool) {
	e.member()
	w, p := e.w, e.p
	name := p.Config.CanFireMethod
	if async {
		w.Openf("public async global::System.Threading.Tasks.ValueTask<bool> %sAsync(%s trigger, %s %s = default)",
			name, p.TriggerType, tokenType, tokenName)
		w.Linef("%s.ThrowIfCancellationRequested();", tokenName)
	} else {
		w.Openf("public bool %s(%s trigger)", name, p.TriggerType)
	}
	e.table(func(t Transition) {
		switch {
		case t.Guard == nil:
			w.Line("return true;")
		case t.Guard.Async && !async:
			// evaluated by the async overload only
			w.Line("return true;")
		default:
			w.Linef("return %s;", call(*t.Guard, async))
		}
	})
	w.Line("return false;")
	w.Close()
}

func (e *emitter) fire(async bool) {
	e.member()
	w, p := e.w, e.p
	cfg := p.Config
	returnsBool := cfg.InvalidTrigger == InvalidReturnFalse

	switch {
	case async && returnsBool:
		w.Openf("public async global::System.Threading.Tasks.ValueTask<bool> %s(%s trigger, %s %s = default)",
			cfg.FireAsync, p.TriggerType, tokenType, tokenName)
	case async:
		w.Openf("public async global::System.Threading.Tasks.ValueTask %s(%s trigger, %s %s = default)",
			cfg.FireAsync, p.TriggerType, tokenType, tokenName)
	case returnsBool:
		w.Openf("public bool %s(%s trigger)", cfg.FireMethod, p.TriggerType)
	default:
		w.Openf("public void %s(%s trigger)", cfg.FireMethod, p.TriggerType)
	}
	if async {
		w.Linef("%s.ThrowIfCancellationRequested();", tokenName)
	}

	success, unchanged := "return;", "return;"
	if returnsBool {
		success, unchanged = "return true;", "return false;"
	}

	e.table(func(t Transition) {
		if t.Guard != nil {
			w.Openf("if (!%s)", call(*t.Guard, async))
			if cfg.GuardFailure == GuardThrow {
				w.Linef("throw new global::System.InvalidOperationException($\"Guard '%s' rejected trigger '{trigger}' in state '{%s}'.\");",
					t.Guard.Method, cfg.StateProperty)
			} else {
				w.Line(unchanged)
			}
			w.Close()
		}
		if t.Exit != nil {
			w.Linef("%s;", call(*t.Exit, async))
		}
		w.Linef("%s;", call(t.Action, async))
		w.Linef("%s = %s.%s;", cfg.StateProperty, p.StateType, t.To)
		if t.Entry != nil {
			w.Linef("%s;", call(*t.Entry, async))
		}
		w.Line(success)
	})

	switch cfg.InvalidTrigger {
	case InvalidThrow:
		w.Linef("throw new global::System.InvalidOperationException($\"Trigger '{trigger}' is not valid in state '{%s}'.\");",
			cfg.StateProperty)
	case InvalidReturnFalse:
		w.Line("return false;")
	}
	w.Close()
}

// table writes the nested switch over state and trigger, calling body for
// each transition inside its case label.
func (e *emitter) table(body func(Transition)) {
	w, p := e.w, e.p
	groups := p.BySource()
	if len(groups) == 0 {
		return
	}
	w.Openf("switch (%s)", p.Config.StateProperty)
	for _, group := range groups {
		w.Linef("case %s.%s:", p.StateType, group[0].From)
		w.Indent()
		w.Open("switch (trigger)")
		for _, t := range group {
			w.Linef("case %s.%s:", p.TriggerType, t.Trigger)
			w.Indent()
			body(t)
			w.Dedent()
		}
		w.Close()
		w.Line("break;")
		w.Dedent()
	}
	w.Close()
}
