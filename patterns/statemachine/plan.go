package statemachine

import (
	"sort"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Hook is a user method the generated code calls.
type Hook struct {
	Method string
	Async  bool
	Token  bool
}

// Transition is one row of the plan table.
type Transition struct {
	From    string
	Trigger string
	To      string
	Action  Hook
	Guard   *Hook
	Exit    *Hook
	Entry   *Hook
}

// Plan is a validated state machine.
type Plan struct {
	Decl        *model.Declaration
	Config      Config
	StateType   string
	TriggerType string
	States      []string
	Triggers    []string
	// Transitions are ordered by source state then trigger, in enum order
	Transitions []Transition
	// DeclareState is false when the user already declares the state property
	DeclareState bool
	EmitSync     bool
	EmitAsync    bool
}

// Lookup returns the transition for (from, trigger)
func (p *Plan) Lookup(from, trigger string) (Transition, bool) {
	for _, t := range p.Transitions {
		if t.From == from && t.Trigger == trigger {
			return t, true
		}
	}
	return Transition{}, false
}

// BySource groups the transitions by source state, keeping table order
func (p *Plan) BySource() [][]Transition {
	var groups [][]Transition
	for _, t := range p.Transitions {
		if n := len(groups); n > 0 && groups[n-1][0].From == t.From {
			groups[n-1] = append(groups[n-1], t)
			continue
		}
		groups = append(groups, []Transition{t})
	}
	return groups
}

type pair struct{ from, trigger string }

type declared struct {
	pair
	to     string
	member *model.Member
	loc    diag.Location
}

type validator struct {
	bag    diag.Bag
	decl   *model.Declaration
	cfg    Config
	states *model.Declaration
	trigs  *model.Declaration
}

// Validate checks the declaration against the state machine rules and builds the plan
func Validate(decl *model.Declaration, cfg Config, idx *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	v := &validator{decl: decl, cfg: cfg}
	marker, _ := decl.Attribute(Marker)
	loc := pattern.MarkerLocation(decl, marker)

	pattern.RequirePartial(&v.bag, decl, NotPartial, loc)
	v.states = v.enumType(idx, cfg.StateType, StateNotEnum, loc)
	v.trigs = v.enumType(idx, cfg.TriggerType, TriggerNotEnum, loc)

	if cfg.InitialState != "" {
		v.checkMember(cfg.InitialState, v.states, "InitialState", loc)
	}

	transitions := v.transitions()
	guards := v.guards(transitions)
	entries := v.hooks(EntryMarker, "entry")
	exits := v.hooks(ExitMarker, "exit")

	if len(decl.MembersMarked(TransitionMarker)) == 0 {
		v.bag.Report(NoTransitions, loc, decl.QualifiedName())
	}

	// a missing enum argument is reported by ParseConfig, not into v.bag
	if v.bag.HasErrors() || v.states == nil || v.trigs == nil {
		return nil, v.bag.Items()
	}

	plan := &Plan{
		Decl:         decl,
		Config:       cfg,
		StateType:    cfg.StateType.Qualified(),
		TriggerType:  cfg.TriggerType.Qualified(),
		States:       v.states.EnumMembers,
		Triggers:     v.trigs.EnumMembers,
		DeclareState: !decl.HasMemberNamed(cfg.StateProperty),
	}
	for _, t := range transitions {
		row := Transition{From: t.from, Trigger: t.trigger, To: t.to, Action: hookOf(t.member)}
		if g, ok := guards[t.pair]; ok {
			h := hookOf(g)
			row.Guard = &h
		}
		if m, ok := exits[t.from]; ok {
			h := hookOf(m)
			row.Exit = &h
		}
		if m, ok := entries[t.to]; ok {
			h := hookOf(m)
			row.Entry = &h
		}
		plan.Transitions = append(plan.Transitions, row)
	}
	sort.SliceStable(plan.Transitions, func(i, j int) bool {
		a, b := plan.Transitions[i], plan.Transitions[j]
		if fa, fb := v.states.EnumOrdinal(a.From), v.states.EnumOrdinal(b.From); fa != fb {
			return fa < fb
		}
		return v.trigs.EnumOrdinal(a.Trigger) < v.trigs.EnumOrdinal(b.Trigger)
	})

	async := plan.anyAsync()
	plan.EmitSync = !async
	plan.EmitAsync = async || cfg.ForceAsync
	if async && !cfg.GenerateAsync {
		v.bag.Report(InvalidArgument, loc, "GenerateAsync", Marker, "asynchronous hooks require the async surface")
		return nil, v.bag.Items()
	}
	return plan, v.bag.Items()
}

func (p *Plan) anyAsync() bool {
	for _, t := range p.Transitions {
		for _, h := range []*Hook{&t.Action, t.Guard, t.Exit, t.Entry} {
			if h != nil && h.Async {
				return true
			}
		}
	}
	return false
}

func hookOf(m *model.Member) Hook {
	return Hook{
		Method: m.Name,
		Async:  m.Type.IsAwaitable(),
		Token:  pattern.TakesToken(m),
	}
}

func (v *validator) enumType(idx *hierarchy.Index, t model.TypeRef, desc diag.Descriptor, loc diag.Location) *model.Declaration {
	if t.IsZero() {
		// missing argument, already reported by ParseConfig
		return nil
	}
	d, ok := idx.Resolve(t, v.decl)
	if !ok || d.Kind != model.KindEnum {
		v.bag.Report(desc, loc, t.String(), v.decl.QualifiedName())
		return nil
	}
	return d
}

// checkMember reports PKST008 when name is not a member of enum. A nil enum
// was already reported and is not checked further.
func (v *validator) checkMember(name string, enum *model.Declaration, user string, loc diag.Location) bool {
	if enum == nil {
		return false
	}
	if !enum.HasEnumMember(name) {
		v.bag.Report(UnknownEnumMember, loc, name, enum.Name, user)
		return false
	}
	return true
}

func (v *validator) transitions() []declared {
	var out []declared
	seen := make(map[pair]declared)
	for _, m := range v.decl.Members {
		attrs := m.AttributesNamed(TransitionMarker)
		if len(attrs) == 0 {
			continue
		}
		if m.Kind != model.Method || !pattern.HasTaskShape(m.Type) || !pattern.AcceptsOptionalToken(m) {
			v.bag.Report(InvalidTransitionSignature, m.Location, m.Name)
		}
		for _, a := range attrs {
			args := pattern.NewArgs(a, &v.bag, InvalidArgument)
			from, okFrom := v.required(args, "From", 0)
			trigger, okTrig := v.required(args, "Trigger", 1)
			to, okTo := v.required(args, "To", 2)
			args.Finish()
			if !okFrom || !okTrig || !okTo {
				continue
			}
			okFrom = v.checkMember(from, v.states, m.Name, a.Location)
			okTrig = v.checkMember(trigger, v.trigs, m.Name, a.Location)
			okTo = v.checkMember(to, v.states, m.Name, a.Location)
			if !okFrom || !okTrig || !okTo {
				continue
			}
			d := declared{pair: pair{from, trigger}, to: to, member: m, loc: a.Location}
			if prev, dup := seen[d.pair]; dup {
				v.bag.Report(DuplicateTransition, a.Location, from, trigger, prev.member.Name, m.Name)
				continue
			}
			seen[d.pair] = d
			out = append(out, d)
		}
	}
	return out
}

func (v *validator) required(args *pattern.Args, name string, pos int) (string, bool) {
	s, ok := args.EnumMember(name, pos)
	if !ok {
		if _, present := args.Attribute().Arg(name, pos); !present {
			args.Report(name, "value is required")
		}
	}
	return s, ok
}

func (v *validator) guards(transitions []declared) map[pair]*model.Member {
	known := make(map[pair]bool, len(transitions))
	for _, t := range transitions {
		known[t.pair] = true
	}
	out := make(map[pair]*model.Member)
	for _, m := range v.decl.Members {
		attrs := m.AttributesNamed(GuardMarker)
		if len(attrs) == 0 {
			continue
		}
		if m.Kind != model.Method || !isGuardReturn(m.Type) || !pattern.AcceptsOptionalToken(m) {
			v.bag.Report(InvalidGuardSignature, m.Location, m.Name)
		}
		for _, a := range attrs {
			args := pattern.NewArgs(a, &v.bag, InvalidArgument)
			from, okFrom := v.required(args, "From", 0)
			trigger, okTrig := v.required(args, "Trigger", 1)
			args.Finish()
			if !okFrom || !okTrig {
				continue
			}
			okFrom = v.checkMember(from, v.states, m.Name, a.Location)
			okTrig = v.checkMember(trigger, v.trigs, m.Name, a.Location)
			if !okFrom || !okTrig {
				continue
			}
			p := pair{from, trigger}
			if prev, dup := out[p]; dup {
				v.bag.Report(DuplicateGuard, a.Location, from, trigger, prev.Name, m.Name)
				continue
			}
			if !known[p] {
				v.bag.Report(OrphanGuard, a.Location, m.Name, from, trigger)
				continue
			}
			out[p] = m
		}
	}
	return out
}

func isGuardReturn(t model.TypeRef) bool {
	return t.IsBool() || t.IsValueTaskOf(model.TypeRef.IsBool)
}

func (v *validator) hooks(marker, label string) map[string]*model.Member {
	out := make(map[string]*model.Member)
	for _, m := range v.decl.Members {
		attrs := m.AttributesNamed(marker)
		if len(attrs) == 0 {
			continue
		}
		if m.Kind != model.Method || !pattern.HasTaskShape(m.Type) || !pattern.AcceptsOptionalToken(m) {
			v.bag.Report(InvalidHookSignature, m.Location, label, m.Name)
		}
		for _, a := range attrs {
			args := pattern.NewArgs(a, &v.bag, InvalidArgument)
			state, ok := v.required(args, "State", 0)
			args.Finish()
			if !ok || !v.checkMember(state, v.states, m.Name, a.Location) {
				continue
			}
			if prev, dup := out[state]; dup {
				v.bag.Report(DuplicateHook, a.Location, state, label, prev.Name, m.Name)
				continue
			}
			out[state] = m
		}
	}
	return out
}
