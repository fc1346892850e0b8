package proxy

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker names
const (
	Marker       = "GenerateProxy"
	IgnoreMarker = "ProxyIgnore"
)

// InterceptorMode decides whether and how calls are intercepted.
type InterceptorMode int

const (
	// None forwards every call directly
	None InterceptorMode = iota
	// Single runs one optional interceptor
	Single
	// Pipeline runs an ordered list: Before ascending, After and OnException descending
	Pipeline
)

func (m InterceptorMode) String() string {
	switch m {
	case None:
		return "None"
	case Pipeline:
		return "Pipeline"
	}
	return "Single"
}

// Config is the resolved [GenerateProxy] marker.
type Config struct {
	// ProxyTypeName is empty for the default: the contract name without a
	// leading I, followed by Proxy
	ProxyTypeName   string
	InterceptorMode InterceptorMode
	// GenerateAsync awaits awaitable methods so After runs on completion
	GenerateAsync bool
}

// ParseConfig reads [GenerateProxy(ProxyTypeName = ..., InterceptorMode = ..., GenerateAsync = ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	cfg := Config{
		ProxyTypeName: args.Identifier("ProxyTypeName", 0, ""),
		InterceptorMode: pattern.Option(args, "InterceptorMode", -1, Single,
			[]InterceptorMode{None, Single, Pipeline}, InterceptorMode.String),
		GenerateAsync: args.Bool("GenerateAsync", -1, true),
	}
	args.Finish()
	return cfg
}
