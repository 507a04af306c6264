package querysql

import (
	"errors"
	"fmt"

	"github.com/roach88/sqlchain/internal/ir"
)

// BuildError represents an error raised by Submit.
//
// Build errors include:
//   - Invalid argument: a validator rejected the submitted arguments
//   - Invariant violation: a WHERE merge found no open logical scope
//   - Unknown clause, missing template, empty key chain: strict mode only
//
// A build that returned an error should be discarded; submissions cannot be
// withdrawn.
type BuildError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Kind is the clause kind whose submission failed.
	Kind ir.ClauseKind

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes build errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a validator rejected the arguments.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeInvariantViolation indicates a WHERE merge onto a non-scope
	// key chain head.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"

	// ErrCodeUnknownClause indicates no handler exists for the kind.
	ErrCodeUnknownClause ErrorCode = "UNKNOWN_CLAUSE"

	// ErrCodeMissingTemplate indicates the registry lacks a template the
	// clause needs.
	ErrCodeMissingTemplate ErrorCode = "MISSING_TEMPLATE"

	// ErrCodeEmptyKeyChain indicates a comparison with nothing to compare.
	ErrCodeEmptyKeyChain ErrorCode = "EMPTY_KEYCHAIN"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Kind != ir.KindUndefined {
		return fmt.Sprintf("%s: %s (kind=%s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// ClauseError locates a failed submission within a SubmitAll stream.
type ClauseError struct {
	Index int
	Err   error
}

func (e *ClauseError) Error() string {
	return fmt.Sprintf("clause %d: %v", e.Index, e.Err)
}

func (e *ClauseError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is a BuildError with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT build error.
func IsInvalidArgument(err error) bool {
	return HasCode(err, ErrCodeInvalidArgument)
}

// IsInvariantViolation reports whether err is an INVARIANT_VIOLATION build
// error.
func IsInvariantViolation(err error) bool {
	return HasCode(err, ErrCodeInvariantViolation)
}

func newInvalidArgument(kind ir.ClauseKind, err error) *BuildError {
	return &BuildError{
		Code:    ErrCodeInvalidArgument,
		Kind:    kind,
		Message: err.Error(),
		Err:     err,
	}
}

func newInvariantViolation(kind ir.ClauseKind, format string, args ...any) *BuildError {
	return &BuildError{
		Code:    ErrCodeInvariantViolation,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func newMissingTemplate(kind, missing ir.ClauseKind) *BuildError {
	return &BuildError{
		Code:    ErrCodeMissingTemplate,
		Kind:    kind,
		Message: fmt.Sprintf("no template for %s", missing),
	}
}
