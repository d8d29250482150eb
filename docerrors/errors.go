// Package docerrors provides structured error types for docbridge.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - FormatDetectionError: no converter, or an ambiguous set of converters,
//     matched an input
//   - DependencyError: a converter's plugin dependency is missing or its
//     installed version violates the declared constraint
//   - ConfigurationError: a parser/renderer reference could not be resolved,
//     or options are invalid
//   - ValidationError: malformed registration metadata or transform parameters
//   - ParseError: a malformed serialized AST payload or structural failure
//   - DependencyResolutionError: a transform dependency is missing or the
//     dependency graph contains a cycle
//
// # Usage with errors.Is
//
//	result, err := pipeline.Convert(pipeline.WithFilePath("report.xyz"))
//	if err != nil {
//	    if errors.Is(err, docerrors.ErrFormatDetection) {
//	        // no registered converter handles this input
//	    }
//	}
package docerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrFormatDetection indicates no converter (or no unambiguous converter)
	// matched an input.
	ErrFormatDetection = errors.New("format detection error")

	// ErrDependency indicates a missing or version-mismatched plugin dependency.
	ErrDependency = errors.New("dependency error")

	// ErrConfig indicates an unresolved parser/renderer reference or invalid options.
	ErrConfig = errors.New("configuration error")

	// ErrValidation indicates malformed metadata or transform parameters.
	ErrValidation = errors.New("validation error")

	// ErrParse indicates a malformed serialized AST or a structural failure.
	ErrParse = errors.New("parse error")

	// ErrDependencyResolution indicates a transform dependency cycle or a
	// missing transform dependency.
	ErrDependencyResolution = errors.New("dependency resolution error")
)

// FormatDetectionError reports that format detection failed for an input.
// Ambiguous is true when multiple converters survived every signal and
// tie-breaking could not be applied; otherwise no converter matched at all.
type FormatDetectionError struct {
	// Input identifies the input that failed detection (a path, a source
	// name, or a short description such as "<bytes>").
	Input string
	// Candidates lists the format names still in contention when detection
	// gave up (empty when nothing matched).
	Candidates []string
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *FormatDetectionError) Error() string {
	msg := "format detection error"
	if e.Input != "" {
		msg += " for " + e.Input
	}
	if len(e.Candidates) > 0 {
		msg += fmt.Sprintf(" (candidates: %s)", strings.Join(e.Candidates, ", "))
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as FormatDetectionError has no underlying cause.
func (e *FormatDetectionError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *FormatDetectionError) Is(target error) bool {
	return target == ErrFormatDetection
}

// DependencyError reports a missing or version-mismatched converter
// dependency. Hint carries an actionable remediation suggestion, typically
// an install command for the missing feature.
type DependencyError struct {
	// Format is the format whose dependency check failed
	Format string
	// Feature is the dependency's feature identifier (its distribution name)
	Feature string
	// Probe is the loadable name that was probed for availability
	Probe string
	// Constraint is the declared version constraint, if any
	Constraint string
	// Installed is the version found, empty when the dependency is absent
	Installed string
	// Hint is an actionable remediation suggestion
	Hint string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DependencyError) Error() string {
	msg := "dependency error"
	if e.Format != "" {
		msg += " for format " + e.Format
	}
	if e.Feature != "" {
		msg += ": " + e.Feature
	}
	if e.Installed == "" {
		msg += " is not available"
	} else if e.Constraint != "" {
		msg += fmt.Sprintf(" %s does not satisfy %s", e.Installed, e.Constraint)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DependencyError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DependencyError) Is(target error) bool {
	return target == ErrDependency
}

// ConfigurationError reports an unresolved parser/renderer reference or an
// invalid option. This is distinct from FormatDetectionError: the format was
// identified, but its converter is wired up incorrectly.
type ConfigurationError struct {
	// Format is the format whose configuration is broken, if known
	Format string
	// Reference is the parser/renderer reference that failed to resolve
	Reference string
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Format != "" {
		msg += " for format " + e.Format
	}
	if e.Reference != "" {
		msg += ": unresolved reference " + e.Reference
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
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfig
}

// ValidationError reports malformed registration metadata or transform
// parameters. Validation failures are raised before any AST mutation begins.
type ValidationError struct {
	// Subject identifies what was being validated (a format name, a
	// transform name, or an option name)
	Subject string
	// Field is the specific field or parameter name with the issue
	Field string
	// Value is the problematic value (may be nil)
	Value any
	// Message describes the validation failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Subject != "" {
		msg += " for " + e.Subject
	}
	if e.Field != "" {
		msg += ": " + e.Field
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
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ParseError reports a malformed serialized AST payload or a structural
// failure while loading a document.
type ParseError struct {
	// Source is the file path or source identifier
	Source string
	// Field is the offending field or discriminator, if known
	Field string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Field != "" {
		msg += " at " + e.Field
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
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// DependencyResolutionError reports a failure to order a requested set of
// transforms: either a named dependency is not registered, or the induced
// dependency subgraph contains a cycle.
type DependencyResolutionError struct {
	// Transform is the transform whose dependency could not be resolved
	Transform string
	// Missing is the dependency name that is not registered (empty for cycles)
	Missing string
	// Cycle lists the members of the detected cycle in order (nil when a
	// dependency is merely missing)
	Cycle []string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *DependencyResolutionError) Error() string {
	msg := "dependency resolution error"
	if len(e.Cycle) > 0 {
		msg += ": cycle " + strings.Join(e.Cycle, " -> ")
	} else if e.Missing != "" {
		msg += fmt.Sprintf(": transform %s requires unknown transform %s", e.Transform, e.Missing)
	} else if e.Transform != "" {
		msg += ": " + e.Transform
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as DependencyResolutionError has no underlying cause.
func (e *DependencyResolutionError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *DependencyResolutionError) Is(target error) bool {
	return target == ErrDependencyResolution
}
