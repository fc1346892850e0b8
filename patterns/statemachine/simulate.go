package statemachine

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/teranos/patternkit/errors"
)

// Outcome of one simulated fire.
type Outcome int

const (
	Transitioned Outcome = iota
	InvalidTrigger
	GuardRejected
)

func (o Outcome) String() string {
	switch o {
	case InvalidTrigger:
		return "invalid-trigger"
	case GuardRejected:
		return "guard-rejected"
	}
	return "transitioned"
}

// Step records one simulated fire.
type Step struct {
	Trigger string   `json:"trigger"`
	From    string   `json:"from"`
	To      string   `json:"to"`
	Outcome Outcome  `json:"-"`
	Result  string   `json:"outcome"`
	Trace   []string `json:"trace,omitempty"`
	// Returned is what a generated Fire returning bool reports
	Returned bool `json:"returned"`
}

var (
	// ErrInvalidTrigger is returned under InvalidTriggerPolicy Throw
	ErrInvalidTrigger = errors.New("trigger is not valid in the current state")
	// ErrGuardRejected is returned under GuardFailurePolicy Throw
	ErrGuardRejected = errors.New("guard rejected the trigger")
)

// GuardFunc decides whether the guard of (from, trigger) passes
type GuardFunc func(from, trigger string) bool

// Simulation executes a plan on an in-memory state machine and records the
// hooks the generated Fire method would call, in order. It follows the same
// policies as the generated code so the plan table can be exercised without
// compiling it.
type Simulation struct {
	plan  *Plan
	fsm   *fsm.FSM
	guard GuardFunc
	trace []string
	// set by the before_event callback when the guard rejects
	rejected bool
}

// SimulationOption configures a Simulation
type SimulationOption func(*Simulation)

// WithGuard replaces the default always-passing guard evaluation
func WithGuard(g GuardFunc) SimulationOption {
	return func(s *Simulation) { s.guard = g }
}

// NewSimulation starts a simulation in initial, or in the configured
// initial state, or in the first enum member.
func NewSimulation(plan *Plan, initial string, opts ...SimulationOption) (*Simulation, error) {
	if initial == "" {
		initial = plan.Config.InitialState
	}
	if initial == "" && len(plan.States) > 0 {
		initial = plan.States[0]
	}
	if !contains(plan.States, initial) {
		return nil, errors.Newf("%q is not a state of %s", initial, plan.Decl.QualifiedName())
	}

	s := &Simulation{plan: plan, guard: func(string, string) bool { return true }}
	for _, opt := range opts {
		opt(s)
	}

	events := make(fsm.Events, 0, len(plan.Transitions))
	for _, t := range plan.Transitions {
		events = append(events, fsm.EventDesc{Name: t.Trigger, Src: []string{t.From}, Dst: t.To})
	}
	s.fsm = fsm.NewFSM(initial, events, fsm.Callbacks{
		"before_event": func(_ context.Context, e *fsm.Event) {
			t, _ := plan.Lookup(e.Src, e.Event)
			if !s.checkGuard(t) {
				e.Cancel()
			}
		},
		"leave_state": func(_ context.Context, e *fsm.Event) {
			t, _ := plan.Lookup(e.Src, e.Event)
			s.leave(t)
		},
		"enter_state": func(_ context.Context, e *fsm.Event) {
			t, _ := plan.Lookup(e.Src, e.Event)
			s.enter(t)
		},
	})
	return s, nil
}

// State is the current state
func (s *Simulation) State() string {
	return s.fsm.Current()
}

// Trace returns every hook called so far, formatted kind:Method
func (s *Simulation) Trace() []string {
	return append([]string(nil), s.trace...)
}

// Fire simulates firing trigger. An error is returned only where the
// generated code would throw.
func (s *Simulation) Fire(ctx context.Context, trigger string) (Step, error) {
	from := s.fsm.Current()
	step := Step{Trigger: trigger, From: from, To: from}
	if !contains(s.plan.Triggers, trigger) {
		return step, errors.Newf("%q is not a trigger of %s", trigger, s.plan.Decl.QualifiedName())
	}
	mark := len(s.trace)
	s.rejected = false

	t, found := s.plan.Lookup(from, trigger)
	var err error
	if found {
		err = s.fsm.Event(ctx, trigger)
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) && !s.rejected {
			// self transition: the generated code still runs exit, action and entry
			s.leave(t)
			s.enter(t)
			err = nil
		}
	}
	step.To = s.fsm.Current()
	step.Trace = append([]string(nil), s.trace[mark:]...)

	switch {
	case !found:
		step.Outcome = InvalidTrigger
	case s.rejected:
		step.Outcome = GuardRejected
	case err != nil:
		return step, errors.Wrapf(err, "fire %s from %s", trigger, from)
	default:
		step.Outcome = Transitioned
		step.Returned = true
	}
	step.Result = step.Outcome.String()

	switch step.Outcome {
	case InvalidTrigger:
		if s.plan.Config.InvalidTrigger == InvalidThrow {
			return step, errors.Wrapf(ErrInvalidTrigger, "trigger %s in state %s", trigger, from)
		}
	case GuardRejected:
		if s.plan.Config.GuardFailure == GuardThrow {
			return step, errors.Wrapf(ErrGuardRejected, "trigger %s in state %s", trigger, from)
		}
	}
	return step, nil
}

func (s *Simulation) checkGuard(t Transition) bool {
	if t.Guard == nil {
		return true
	}
	s.trace = append(s.trace, "guard:"+t.Guard.Method)
	if !s.guard(t.From, t.Trigger) {
		s.rejected = true
		return false
	}
	return true
}

func (s *Simulation) leave(t Transition) {
	if t.Exit != nil {
		s.trace = append(s.trace, "exit:"+t.Exit.Method)
	}
	s.trace = append(s.trace, "action:"+t.Action.Method)
}

func (s *Simulation) enter(t Transition) {
	if t.Entry != nil {
		s.trace = append(s.trace, "entry:"+t.Entry.Method)
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
