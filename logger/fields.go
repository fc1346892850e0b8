package logger

import "go.uber.org/zap"

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Generation
	FieldPattern     = "pattern"
	FieldCandidate   = "candidate"
	FieldDocument    = "document"
	FieldDiagnostic  = "diagnostic"
	FieldFingerprint = "fingerprint"

	// Counts
	FieldCandidates  = "candidates"
	FieldDocuments   = "documents"
	FieldErrors      = "errors"
	FieldWarnings    = "warnings"
	FieldCacheHits   = "cache_hits"
	FieldDeclaration = "declarations"

	// I/O
	FieldPath       = "path"
	FieldFormat     = "format"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	d := generator.New(reg, generator.WithLogger(logger.ComponentLogger("driver")))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return OrNop(parent).With(keysAndValues...)
}
