package specerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrDocumentLoad indicates a document source was malformed or unreachable.
	ErrDocumentLoad = errors.New("document load error")

	// ErrUnresolvedReference indicates a document references an undefined type.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrMaxDepth indicates a reference chain exceeded the configured bound.
	ErrMaxDepth = errors.New("max reference depth exceeded")
)

// LoadError represents a failure to acquire or decode an API description.
// This covers unreadable files, unreachable introspection endpoints, and
// JSON/YAML deserialization failures.
type LoadError struct {
	// Source is the file path or URL the document was loaded from
	Source string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "document load error"
	if e.Source != "" {
		msg += " for " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrDocumentLoad
}

// ReferenceError represents a type reference that does not resolve within
// its owning document's registry. This indicates a malformed document, not
// a reportable change.
type ReferenceError struct {
	// Document identifies the owning document ("baseline" or "candidate",
	// or the source path when known)
	Document string
	// Name is the type name that failed to resolve
	Name string
	// Path is the structural breadcrumb where the reference was encountered
	Path string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "unresolved reference"
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// DepthError represents a reference chain deeper than the configured bound.
// Treated as a malformed-input signal, like ReferenceError.
type DepthError struct {
	// Document identifies the owning document
	Document string
	// Name is the type name whose resolution exceeded the bound
	Name string
	// Limit is the configured maximum depth
	Limit int
}

// Error returns a human-readable error message.
func (e *DepthError) Error() string {
	msg := "max reference depth exceeded"
	if e.Name != "" {
		msg += fmt.Sprintf(" resolving %q", e.Name)
	}
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d)", e.Limit)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DepthError) Is(target error) bool {
	return target == ErrMaxDepth
}
