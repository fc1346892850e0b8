package generator

import (
	"context"
	"time"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/emit"
)

// Entry is a stored candidate result.
type Entry struct {
	Fingerprint string `json:"fingerprint"`
	// Dependencies are the document stems the generator consulted
	Dependencies []string          `json:"dependencies"`
	Wide         bool              `json:"wide"`
	Documents    []emit.Document   `json:"documents"`
	Diagnostics  []diag.Diagnostic `json:"diagnostics"`
}

// Cache keeps candidate results across passes and processes. Implementations
// must be safe to call from one pass at a time; the driver never calls them
// concurrently.
type Cache interface {
	Load(ctx context.Context, key string) (Entry, bool, error)
	Store(ctx context.Context, key string, e Entry) error
}

// Observer is told about every finished candidate and pass.
type Observer interface {
	CandidateDone(c *CandidateResult, elapsed time.Duration)
	PassDone(r *Result, elapsed time.Duration)
}
