// Package errors provides error handling for pkgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	if err := manifest.Load(path); err != nil {
//	    return errors.Wrapf(err, "load %s", path)
//	}
//
//	return errors.WithHint(err, "run 'pkgen generate' to refresh the output")
//
// Diagnostics about user declarations are not Go errors; they travel as
// diag.Diagnostic values. Errors here are for I/O, decoding and configuration.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors. Wrap these with errors.Wrap() to add context while
// preserving the identity checked by errors.Is().
var (
	// ErrInvalidManifest indicates a declaration manifest could not be decoded
	ErrInvalidManifest = New("invalid manifest")

	// ErrUnsupportedSchema indicates a manifest schema or version constraint this build cannot serve
	ErrUnsupportedSchema = New("unsupported manifest schema")

	// ErrOutOfDate indicates generated output on disk differs from a fresh generation
	ErrOutOfDate = New("generated output is out of date")

	// ErrDiagnostics indicates a pass produced blocking diagnostics
	ErrDiagnostics = New("generation reported errors")

	// ErrNotFound indicates a requested declaration or descriptor does not exist
	ErrNotFound = New("not found")
)

// IsOutOfDate checks if an error is or wraps ErrOutOfDate
func IsOutOfDate(err error) bool {
	return err != nil && Is(err, ErrOutOfDate)
}

// IsDiagnostics checks if an error is or wraps ErrDiagnostics
func IsDiagnostics(err error) bool {
	return err != nil && Is(err, ErrDiagnostics)
}

// NewInvalidManifestError creates an invalid-manifest error with a formatted message
func NewInvalidManifestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidManifest, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}
