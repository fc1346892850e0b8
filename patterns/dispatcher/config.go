package dispatcher

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker names
const (
	Marker             = "GenerateDispatcher"
	CommandMarker      = "Command"
	NotificationMarker = "Notification"
	StreamMarker       = "StreamRequest"
)

// messageMarkers in the order their kinds are emitted
var messageMarkers = []string{CommandMarker, NotificationMarker, StreamMarker}

// Config is the resolved [GenerateDispatcher] marker.
type Config struct {
	// Name is what messages use to address this dispatcher, empty for the
	// type name
	Name             string
	IncludeStreaming bool
}

// ParseConfig reads [GenerateDispatcher(Name = ..., IncludeStreaming = ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	cfg := Config{
		Name:             args.Identifier("Name", 0, ""),
		IncludeStreaming: args.Bool("IncludeStreaming", -1, true),
	}
	args.Finish()
	return cfg
}
