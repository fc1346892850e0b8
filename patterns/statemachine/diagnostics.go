package statemachine

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKST001",
		Severity: diag.Error,
		Title:    "State machine type must be partial",
		Format:   "type '%s' is marked [StateMachine] but is not declared partial",
	}
	StateNotEnum = diag.Descriptor{
		ID:       "PKST002",
		Severity: diag.Error,
		Title:    "State type must be an enum",
		Format:   "state type '%s' of '%s' is not an enum declared in this unit",
	}
	TriggerNotEnum = diag.Descriptor{
		ID:       "PKST003",
		Severity: diag.Error,
		Title:    "Trigger type must be an enum",
		Format:   "trigger type '%s' of '%s' is not an enum declared in this unit",
	}
	DuplicateTransition = diag.Descriptor{
		ID:       "PKST004",
		Severity: diag.Error,
		Title:    "Duplicate transition",
		Format:   "transition from '%s' on '%s' is declared by both '%s' and '%s'",
	}
	InvalidTransitionSignature = diag.Descriptor{
		ID:       "PKST005",
		Severity: diag.Error,
		Title:    "Invalid transition signature",
		Format:   "transition '%s' must return void or ValueTask and take no parameters or a single CancellationToken",
	}
	InvalidGuardSignature = diag.Descriptor{
		ID:       "PKST006",
		Severity: diag.Error,
		Title:    "Invalid guard signature",
		Format:   "guard '%s' must return bool or ValueTask<bool> and take no parameters or a single CancellationToken",
	}
	InvalidHookSignature = diag.Descriptor{
		ID:       "PKST007",
		Severity: diag.Error,
		Title:    "Invalid entry or exit hook signature",
		Format:   "%s hook '%s' must return void or ValueTask and take no parameters or a single CancellationToken",
	}
	UnknownEnumMember = diag.Descriptor{
		ID:       "PKST008",
		Severity: diag.Error,
		Title:    "Unknown state or trigger",
		Format:   "'%s' is not a member of '%s' (used by '%s')",
	}
	DuplicateGuard = diag.Descriptor{
		ID:       "PKST009",
		Severity: diag.Error,
		Title:    "Duplicate guard",
		Format:   "transition from '%s' on '%s' is guarded by both '%s' and '%s'",
	}
	OrphanGuard = diag.Descriptor{
		ID:       "PKST010",
		Severity: diag.Warning,
		Title:    "Guard without transition",
		Format:   "guard '%s' applies to '%s' on '%s' but no transition is declared for it",
	}
	DuplicateHook = diag.Descriptor{
		ID:       "PKST011",
		Severity: diag.Error,
		Title:    "Duplicate entry or exit hook",
		Format:   "state '%s' has more than one %s hook: '%s' and '%s'",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKST012",
		Severity: diag.Error,
		Title:    "Invalid state machine argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
	NoTransitions = diag.Descriptor{
		ID:       "PKST013",
		Severity: diag.Warning,
		Title:    "No transitions",
		Format:   "state machine '%s' declares no transitions; every trigger is invalid",
	}
)

// Descriptors lists every rule this generator reports
var Descriptors = []diag.Descriptor{
	NotPartial,
	StateNotEnum,
	TriggerNotEnum,
	DuplicateTransition,
	InvalidTransitionSignature,
	InvalidGuardSignature,
	InvalidHookSignature,
	UnknownEnumMember,
	DuplicateGuard,
	OrphanGuard,
	DuplicateHook,
	InvalidArgument,
	NoTransitions,
}
