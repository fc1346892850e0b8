package iterator

import (
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
	"github.com/teranos/patternkit/pattern"
)

// Marker names
const (
	Marker          = "Iterator"
	StepMarker      = "IteratorStep"
	SeedMarker      = "IteratorSeed"
	TraversalMarker = "TraversalIterator"
	ChildrenMarker  = "TraversalChildren"
)

// Config is the resolved [Iterator] marker.
type Config struct {
	EnumeratorName     string
	GenerateEnumerable bool
}

// ParseConfig reads [Iterator(EnumeratorName = ..., GenerateEnumerable = ...)]
func ParseConfig(marker model.Attribute, bag *diag.Bag) Config {
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	cfg := Config{
		EnumeratorName:     args.Identifier("EnumeratorName", -1, "Enumerator"),
		GenerateEnumerable: args.Bool("GenerateEnumerable", -1, true),
	}
	args.Finish()
	return cfg
}

// TraversalConfig is the resolved [TraversalIterator] marker.
type TraversalConfig struct {
	DepthFirstName   string
	BreadthFirstName string
}

// ParseTraversalConfig reads [TraversalIterator(DepthFirstName = ..., BreadthFirstName = ...)]
func ParseTraversalConfig(marker model.Attribute, bag *diag.Bag) TraversalConfig {
	args := pattern.NewArgs(marker, bag, InvalidArgument)
	cfg := TraversalConfig{
		DepthFirstName:   args.Identifier("DepthFirstName", -1, "DepthFirst"),
		BreadthFirstName: args.Identifier("BreadthFirstName", -1, "BreadthFirst"),
	}
	if cfg.DepthFirstName == cfg.BreadthFirstName {
		args.Report("BreadthFirstName", "%q is also the depth-first method name", cfg.BreadthFirstName)
	}
	args.Finish()
	return cfg
}
