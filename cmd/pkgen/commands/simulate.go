package commands

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/logger"
	"github.com/teranos/patternkit/manifest"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/patterns/statemachine"
)

var (
	simulateType    string
	simulateInitial string
	simulateFire    []string
	simulateReject  []string
	simulateJSON    bool
)

// SimulateCmd runs a [StateMachine] plan without compiling the generated code
var SimulateCmd = &cobra.Command{
	Use:   "simulate <manifest>...",
	Short: "Step through a state machine plan",
	Long: `Validate the [StateMachine] marker on one declaration and fire a
sequence of triggers against its transition table, printing each step
and the hooks the generated Fire method would call.

Guards pass unless rejected with --reject From:Trigger.

Examples:
  pkgen simulate door.yaml --type Door --fire Close,Lock,Unlock
  pkgen simulate door.yaml --type Demo.Door --initial Closed --fire Open --reject Closed:Open`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func init() {
	SimulateCmd.Flags().StringVarP(&simulateType, "type", "t", "", "Declaration carrying [StateMachine] (name or qualified name)")
	SimulateCmd.Flags().StringVar(&simulateInitial, "initial", "", "Initial state (default: configured initial state, else the first member)")
	SimulateCmd.Flags().StringSliceVar(&simulateFire, "fire", nil, "Triggers to fire, in order")
	SimulateCmd.Flags().StringSliceVar(&simulateReject, "reject", nil, "Guards that fail, as From:Trigger")
	SimulateCmd.Flags().BoolVarP(&simulateJSON, "json", "j", false, "Output steps as JSON")
	_ = SimulateCmd.MarkFlagRequired("type")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	rejects, err := parseRejects(simulateReject)
	if err != nil {
		return err
	}
	raw, err := manifest.Load(cmd.Context(), logger.ComponentLogger("manifest"), args...)
	if err != nil {
		return err
	}
	unit, ds := model.Build(raw)
	if diag.HasErrors(ds) {
		return printAndFail(cmd, ds)
	}
	decl, err := findDeclaration(unit, simulateType)
	if err != nil {
		return err
	}
	marker, ok := decl.Attribute(statemachine.Marker)
	if !ok {
		return errors.NewNotFoundError("%s has no [StateMachine] marker", decl.QualifiedName())
	}

	var bag diag.Bag
	cfg := statemachine.ParseConfig(marker, &bag)
	plan, vds := statemachine.Validate(decl, cfg, hierarchy.New(unit))
	bag.Add(vds...)
	if bag.HasErrors() || plan == nil {
		return printAndFail(cmd, bag.Items())
	}

	sim, err := statemachine.NewSimulation(plan, simulateInitial, statemachine.WithGuard(func(from, trigger string) bool {
		return !rejects[from+":"+trigger]
	}))
	if err != nil {
		return err
	}

	steps := make([]statemachine.Step, 0, len(simulateFire))
	var fireErr error
	for _, trigger := range simulateFire {
		step, err := sim.Fire(cmd.Context(), strings.TrimSpace(trigger))
		steps = append(steps, step)
		if err != nil {
			fireErr = err
			break
		}
	}

	if simulateJSON {
		b, err := json.MarshalIndent(steps, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode steps")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	} else if err := stepTable(cmd, steps); err != nil {
		return err
	}
	if fireErr != nil {
		return fireErr
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "final state: %s\n", sim.State())
	return nil
}

// parseRejects reads From:Trigger pairs
func parseRejects(pairs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		from, trigger, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok || from == "" || trigger == "" {
			return nil, errors.WithHint(
				errors.Newf("invalid --reject %q", p),
				"use From:Trigger, e.g. --reject Closed:Open")
		}
		out[from+":"+trigger] = true
	}
	return out, nil
}

// findDeclaration matches name against qualified names first, then simple names
func findDeclaration(unit *model.Unit, name string) (*model.Declaration, error) {
	var simple []*model.Declaration
	for _, d := range unit.Declarations {
		if d.QualifiedName() == name {
			return d, nil
		}
		if d.Name == name {
			simple = append(simple, d)
		}
	}
	switch len(simple) {
	case 0:
		return nil, errors.NewNotFoundError("declaration %s", name)
	case 1:
		return simple[0], nil
	}
	return nil, errors.WithHint(
		errors.Newf("%s is ambiguous (%d declarations)", name, len(simple)),
		"pass the qualified name, e.g. --type "+simple[0].QualifiedName())
}

func stepTable(cmd *cobra.Command, steps []statemachine.Step) error {
	data := pterm.TableData{{"Trigger", "From", "To", "Outcome", "Hooks"}}
	for _, s := range steps {
		data = append(data, []string{s.Trigger, s.From, s.To, s.Result, strings.Join(s.Trace, " ")})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}

func printAndFail(cmd *cobra.Command, ds []diag.Diagnostic) error {
	diag.Sort(ds)
	if err := printDiagnostics(cmd.ErrOrStderr(), ds); err != nil {
		return err
	}
	errs, warnings := diag.Count(ds)
	return errors.Wrapf(errors.ErrDiagnostics, "%d errors, %d warnings", errs, warnings)
}
