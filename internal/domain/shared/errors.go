// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Advisory errors
	ErrNoMatchingPlaybook = errors.New("no matching playbook")

	// External collaborator errors
	ErrExternalService = errors.New("external service error")
	ErrDatasetSource   = errors.New("dataset source error")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "academic", "diagnosis", "playbook"
	Op      string // Operation that failed, e.g., "Extract", "Advise"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Academic record errors
var (
	ErrStudentNotFound   = NewDomainError("academic", "Extract", ErrNotFound, "no rows found for student")
	ErrMissingColumn     = NewDomainError("academic", "Parse", ErrValidation, "required column is missing")
	ErrMalformedScore    = NewDomainError("academic", "Parse", ErrValidation, "grade score is not numeric")
	ErrMalformedPresence = NewDomainError("academic", "Parse", ErrValidation, "presence flag is not 0 or 1")
	ErrScoreOutOfRange   = NewDomainError("academic", "Validate", ErrValueOutOfRange, "score outside the 0-10 range")
	ErrEmptySubject      = NewDomainError("academic", "Validate", ErrEmptyValue, "subject identifier is empty")
	ErrEmptySemester     = NewDomainError("academic", "Validate", ErrEmptyValue, "semester tag is empty")
)

// Playbook errors
var (
	ErrPlaybookNotMatched = NewDomainError("playbook", "Advise", ErrNoMatchingPlaybook, "no catalog entry matches the diagnosis")
	ErrInvalidTrigger     = NewDomainError("playbook", "Load", ErrValidation, "catalog trigger references an unknown diagnosis key")
	ErrEmptyCatalog       = NewDomainError("playbook", "Load", ErrInvalidEntity, "catalog has no entries")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsNoMatchingPlaybook checks if the error means the catalog had no match.
// This one is recoverable: the coordinator must fall back to a default action.
func IsNoMatchingPlaybook(err error) bool {
	return errors.Is(err, ErrNoMatchingPlaybook)
}

// IsDatasetSource checks if the error came from the dataset collaborator.
func IsDatasetSource(err error) bool {
	return errors.Is(err, ErrDatasetSource) || errors.Is(err, ErrExternalService)
}
