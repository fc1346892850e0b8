package dispatcher

import (
	"strings"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
	"github.com/teranos/patternkit/hierarchy"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Kind of message.
type Kind int

const (
	Command Kind = iota
	Notification
	Stream
)

func (k Kind) String() string {
	switch k {
	case Notification:
		return "notification"
	case Stream:
		return "stream request"
	}
	return "command"
}

// Message is one routed message type.
type Message struct {
	Decl *model.Declaration
	Kind Kind
	// Ref is the global:: qualified message type
	Ref string
	// Result is the response type of a command or the item type of a
	// stream request, as written in generated code
	Result string
	// Field names the handler slot, unique within the dispatcher
	Field string
	// Access of the generated members that mention the message
	Access string
}

// Reference reports whether the message is a reference type and gets a null check
func (m Message) Reference() bool {
	return !m.Decl.Kind.IsStruct()
}

// Plan is a validated dispatcher.
type Plan struct {
	Decl          *model.Declaration
	Config        Config
	Name          string
	Commands      []Message
	Notifications []Message
	Streams       []Message
}

// Validate checks a [GenerateDispatcher] class and collects the messages routed to it
func Validate(decl *model.Declaration, cfg Config, idx *hierarchy.Index) (*Plan, []diag.Diagnostic) {
	var bag diag.Bag
	marker, _ := decl.Attribute(Marker)
	loc := pattern.MarkerLocation(decl, marker)

	pattern.RequirePartial(&bag, decl, NotPartial, loc)
	switch {
	case !decl.Kind.IsClass():
		bag.Report(InvalidDispatcherKind, loc, decl.QualifiedName(), decl.Kind.String())
	case decl.Modifiers.Static:
		bag.Report(InvalidDispatcherKind, loc, decl.QualifiedName(), "static class")
	}

	p := &Plan{Decl: decl, Config: cfg, Name: cfg.Name}
	if p.Name == "" {
		p.Name = decl.Name
	}

	all := idx.Scan()
	var dispatchers []*model.Declaration
	for _, d := range all {
		if d.HasAttribute(Marker) {
			dispatchers = append(dispatchers, d)
		}
	}
	reportsUnknown := len(dispatchers) > 0 && dispatchers[0] == decl

	fields := make(map[string]bool)
	for _, d := range all {
		markers := messageMarkersOf(d)
		if len(markers) == 0 {
			continue
		}
		target, named := dispatcherArg(markers[0])
		if named && !addressedByAny(target, dispatchers) {
			if reportsUnknown {
				bag.Report(UnknownDispatcher, markers[0].Location.Or(d.Location), d.QualifiedName(), target)
			}
			continue
		}
		if !routed(d, target, named, decl, p.Name) {
			continue
		}
		m, ok := message(&bag, d, markers, idx)
		if !ok || (m.Kind == Stream && !cfg.IncludeStreaming) {
			continue
		}
		base := "_" + emit.Camel(d.Name) + "Handler"
		if m.Kind == Notification {
			base += "s"
		}
		m.Field = emit.Unique(base, func(s string) bool { return fields[s] })
		fields[m.Field] = true
		switch m.Kind {
		case Command:
			p.Commands = append(p.Commands, m)
		case Notification:
			p.Notifications = append(p.Notifications, m)
		case Stream:
			p.Streams = append(p.Streams, m)
		}
	}

	if len(p.Commands)+len(p.Notifications)+len(p.Streams) == 0 && !bag.HasErrors() {
		bag.Report(NoMessages, loc, decl.QualifiedName())
	}
	if bag.HasErrors() {
		return nil, bag.Items()
	}
	return p, bag.Items()
}

func messageMarkersOf(d *model.Declaration) []model.Attribute {
	var out []model.Attribute
	for _, a := range d.Attributes {
		for _, name := range messageMarkers {
			if a.Name == name {
				out = append(out, a)
			}
		}
	}
	return out
}

func dispatcherArg(marker model.Attribute) (string, bool) {
	v, ok := marker.Arg("Dispatcher", -1)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	s = strings.TrimSpace(s)
	return s, ok && s != ""
}

// addresses reports whether target names the dispatcher d: its configured
// name, its simple name or its qualified name
func addresses(target string, d *model.Declaration, name string) bool {
	return target == name || target == d.Name || target == d.QualifiedName()
}

func addressedByAny(target string, dispatchers []*model.Declaration) bool {
	for _, d := range dispatchers {
		marker, _ := d.Attribute(Marker)
		name := d.Name
		if v, ok := marker.Arg("Name", 0); ok {
			if s, isString := v.(string); isString && s != "" {
				name = s
			}
		}
		if addresses(target, d, name) {
			return true
		}
	}
	return false
}

// routed decides whether message m belongs to the dispatcher. A message
// without a Dispatcher argument goes to every dispatcher of its namespace.
func routed(m *model.Declaration, target string, named bool, dispatcher *model.Declaration, name string) bool {
	if named {
		return addresses(target, dispatcher, name)
	}
	return m.Namespace == dispatcher.Namespace
}

// message validates a routed message. Its diagnostics belong to the
// dispatcher that owns it.
func message(bag *diag.Bag, d *model.Declaration, markers []model.Attribute, idx *hierarchy.Index) (Message, bool) {
	marker := markers[0]
	loc := marker.Location.Or(d.Location)
	ok := true
	if len(markers) > 1 {
		names := make([]string, len(markers))
		for i, a := range markers {
			names[i] = "[" + a.Name + "]"
		}
		bag.Report(MultipleMessageMarkers, loc, d.QualifiedName(), strings.Join(names, " and "))
		ok = false
	}
	if d.IsGeneric() {
		bag.Report(GenericMessage, loc, d.QualifiedName())
		ok = false
	}

	m := Message{Decl: d, Ref: "global::" + d.QualifiedName(), Access: "internal"}
	if d.Accessibility == model.Public {
		m.Access = "public"
	}
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	args.String("Dispatcher", -1, "")
	switch marker.Name {
	case CommandMarker:
		m.Kind = Command
		m.Result, ok = result(bag, args, "ResponseType", "response", d, idx, ok)
	case NotificationMarker:
		m.Kind = Notification
	case StreamMarker:
		m.Kind = Stream
		m.Result, ok = result(bag, args, "ItemType", "item", d, idx, ok)
	}
	args.Finish()
	return m, ok
}

func result(bag *diag.Bag, args *pattern.Args, name, what string, d *model.Declaration, idx *hierarchy.Index, ok bool) (string, bool) {
	marker := args.Attribute()
	t, present := args.Type(name, 0)
	if !present {
		if _, given := marker.Arg(name, 0); !given {
			bag.Report(MissingResultType, marker.Location.Or(d.Location), marker.Name, d.QualifiedName(), what)
		}
		return "", false
	}
	if t.IsVoid() {
		bag.Report(MissingResultType, marker.Location.Or(d.Location), marker.Name, d.QualifiedName(), what)
		return "", false
	}
	if target, found := idx.Resolve(t, d); found && len(t.Args) == 0 {
		return "global::" + target.QualifiedName() + nullable(t), ok
	}
	return emit.Type(t), ok
}

func nullable(t model.TypeRef) string {
	if t.Nullable {
		return "?"
	}
	return ""
}
