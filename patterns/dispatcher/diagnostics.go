package dispatcher

import "github.com/teranos/patternkit/diag"

var (
	NotPartial = diag.Descriptor{
		ID:       "PKDSP001",
		Severity: diag.Error,
		Title:    "Dispatcher must be partial",
		Format:   "type '%s' is marked [GenerateDispatcher] but is not declared partial",
	}
	InvalidDispatcherKind = diag.Descriptor{
		ID:       "PKDSP002",
		Severity: diag.Error,
		Title:    "Dispatcher must be a class",
		Format:   "dispatcher '%s' is a %s; declare it as a non-static class",
	}
	MultipleMessageMarkers = diag.Descriptor{
		ID:       "PKDSP003",
		Severity: diag.Error,
		Title:    "Message carries more than one message marker",
		Format:   "message '%s' is marked %s; apply exactly one of [Command], [Notification] or [StreamRequest]",
	}
	MissingResultType = diag.Descriptor{
		ID:       "PKDSP004",
		Severity: diag.Error,
		Title:    "Message is missing its response or item type",
		Format:   "[%s] on '%s' must name its %s type",
	}
	GenericMessage = diag.Descriptor{
		ID:       "PKDSP005",
		Severity: diag.Error,
		Title:    "Generic message types are not supported",
		Format:   "message '%s' declares type parameters",
	}
	NoMessages = diag.Descriptor{
		ID:       "PKDSP006",
		Severity: diag.Warning,
		Title:    "No messages are routed to the dispatcher",
		Format:   "no [Command], [Notification] or [StreamRequest] type is routed to dispatcher '%s'",
	}
	UnknownDispatcher = diag.Descriptor{
		ID:       "PKDSP007",
		Severity: diag.Warning,
		Title:    "Message names an unknown dispatcher",
		Format:   "message '%s' names dispatcher '%s', which is not declared in this compilation unit",
	}
	InvalidArgument = diag.Descriptor{
		ID:       "PKDSP008",
		Severity: diag.Error,
		Title:    "Invalid dispatcher argument",
		Format:   "argument '%s' of [%s] is invalid: %s",
	}
)

// Descriptors lists every rule this generator reports
var Descriptors = []diag.Descriptor{
	NotPartial, InvalidDispatcherKind, MultipleMessageMarkers, MissingResultType,
	GenericMessage, NoMessages, UnknownDispatcher, InvalidArgument,
}
