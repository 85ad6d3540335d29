// Package errors holds the error vocabulary shared by the seqmod packages.
//
// Bracket grammar defects are not errors: core/bracket returns them as
// values. The types here stop an operation, and each one unwraps to a
// sentinel so callers can branch with Is.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal marks a broken invariant between two seqmod values, never
	// bad user input.
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported")
	// ErrStructural marks identifier defects that block defaulting and
	// write-back.
	ErrStructural = errors.New("structural defects")
)

// orSentinel lets a typed error report its cause when it has one and its
// sentinel otherwise.
func orSentinel(cause, sentinel error) error {
	if cause != nil {
		return cause
	}
	return sentinel
}

// StructuralError refuses an operation while duplicate, missing or
// reserved-character identifiers remain.
type StructuralError struct {
	Operation string
	Defects   []string
}

func (e *StructuralError) Error() string {
	if len(e.Defects) == 0 {
		return fmt.Sprintf("%s refused: structural defects present", e.Operation)
	}
	return fmt.Sprintf("%s refused: %d structural defect(s): %s",
		e.Operation, len(e.Defects), strings.Join(e.Defects, "; "))
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// NewStructural refuses operation because of defects.
func NewStructural(operation string, defects []string) *StructuralError {
	return &StructuralError{Operation: operation, Defects: defects}
}

// PreconditionError is raised when a title set no longer matches the tree
// it came from.
type PreconditionError struct {
	Operation string
	Expected  string
	Actual    string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition failed: expected %s, got %s", e.Operation, e.Expected, e.Actual)
}

func (e *PreconditionError) Unwrap() error { return ErrInternal }

func NewPrecondition(operation, expected, actual string) *PreconditionError {
	return &PreconditionError{Operation: operation, Expected: expected, Actual: actual}
}

// ParseError locates a bad row or element in an organism table, lineage
// table, taxonomy XML or FASTA file. Line is 1-based; 0 means unknown.
type ParseError struct {
	Format  string
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Path
	if e.Line > 0 {
		if where == "" {
			where = "line"
		}
		where = fmt.Sprintf("%s:%d", where, e.Line)
	}
	if where == "" {
		return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, where, e.Message)
}

func (e *ParseError) Unwrap() error { return orSentinel(e.Err, ErrInvalidInput) }

func NewParse(format, path string, line int, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Line: line, Message: message}
}

// ValidationError rejects a flag, config value or default before anything
// is edited.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return orSentinel(e.Err, ErrInvalidInput) }

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError names a missing organism, snapshot or file.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return orSentinel(e.Err, ErrNotFound) }

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UnsupportedError rejects an input the loaders recognize but cannot read,
// such as gzip-compressed tables.
type UnsupportedError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return "unsupported " + e.Feature
	}
	return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return orSentinel(e.Err, ErrUnsupported) }

func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

// IOError wraps a failed file operation with the path involved.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
