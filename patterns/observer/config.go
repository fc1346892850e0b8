package observer

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker name
const Marker = "Observer"

// ExceptionPolicy for a publish reaching more than one subscriber.
type ExceptionPolicy int

const (
	// Aggregate invokes every subscriber and throws one AggregateException
	Aggregate ExceptionPolicy = iota
	// Stop propagates the first exception and skips the rest
	Stop
	// FirstOnly invokes every subscriber and rethrows the first exception
	FirstOnly
)

func (p ExceptionPolicy) String() string {
	switch p {
	case Stop:
		return "Stop"
	case FirstOnly:
		return "FirstOnly"
	}
	return "Aggregate"
}

// ThreadingPolicy of the generated subscriber registry.
type ThreadingPolicy int

const (
	SingleThreadedFast ThreadingPolicy = iota
	Locking
	Concurrent
)

func (p ThreadingPolicy) String() string {
	switch p {
	case Locking:
		return "Locking"
	case Concurrent:
		return "Concurrent"
	}
	return "SingleThreadedFast"
}

// Config is the resolved [Observer] marker.
type Config struct {
	Payload       model.TypeRef
	ForceAsync    bool
	GenerateAsync bool
	Exceptions    ExceptionPolicy
	Threading     ThreadingPolicy
}

// ParseConfig reads [Observer(typeof(TPayload), ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	cfg := Config{GenerateAsync: true, Exceptions: Aggregate, Threading: Locking}
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	if t, ok := args.Type("PayloadType", 0); ok {
		cfg.Payload = t
	}
	cfg.ForceAsync = args.Bool("ForceAsync", -1, cfg.ForceAsync)
	cfg.GenerateAsync = args.Bool("GenerateAsync", -1, cfg.GenerateAsync)
	cfg.Exceptions = pattern.Option(args, "ExceptionPolicy", -1, cfg.Exceptions,
		[]ExceptionPolicy{Aggregate, Stop, FirstOnly}, ExceptionPolicy.String)
	cfg.Threading = pattern.Option(args, "ThreadingPolicy", -1, cfg.Threading,
		[]ThreadingPolicy{SingleThreadedFast, Locking, Concurrent}, ThreadingPolicy.String)
	args.Finish()
	return cfg
}
