package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes data-access failure semantics across every collection.
type ErrorCode string

const (
	CodeArgument          ErrorCode = "argument_error"
	CodeNotFound          ErrorCode = "aggregate_not_found"
	CodeReferenceNotFound ErrorCode = "reference_not_found"
	CodeDataValidation    ErrorCode = "data_validation"
	CodeDatabase          ErrorCode = "database_operation"
	CodeUnexpected        ErrorCode = "unexpected"
	CodeInvalidOperation  ErrorCode = "invalid_operation"
	CodeConflict          ErrorCode = "conflict"
)

// Error is the canonical repository error.
//
// Field is set for reference failures, MissingIDs for bulk existence misses.
type Error struct {
	Code       ErrorCode
	Op         string
	Message    string
	Field      string
	MissingIDs []string
	Cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with a code. Typed errors pass through untouched.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// As returns the typed error carried by err, if any.
func As(err error) (*Error, bool) {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return nil, false
	}
	return aggErr, true
}

func ArgumentError(op, format string, args ...any) error {
	return NewError(CodeArgument, op, fmt.Sprintf(format, args...), nil)
}

func InvalidOperation(op, format string, args ...any) error {
	return NewError(CodeInvalidOperation, op, fmt.Sprintf(format, args...), nil)
}

func DataValidation(op string, cause error) error {
	msg := "validation failed"
	if cause != nil {
		msg = cause.Error()
	}
	return NewError(CodeDataValidation, op, msg, cause)
}

func Unexpected(op, format string, args ...any) error {
	return NewError(CodeUnexpected, op, fmt.Sprintf(format, args...), nil)
}

func Conflict(op, format string, args ...any) error {
	return NewError(CodeConflict, op, fmt.Sprintf(format, args...), nil)
}

// NotFound reports missing aggregates, naming every missing id.
func NotFound(op, collection string, missingIDs ...string) error {
	msg := fmt.Sprintf("%s not found", collection)
	if len(missingIDs) > 0 {
		msg = fmt.Sprintf("%s not found: %s", collection, strings.Join(missingIDs, ", "))
	}
	return &Error{
		Code:       CodeNotFound,
		Op:         strings.TrimSpace(op),
		Message:    msg,
		MissingIDs: append([]string(nil), missingIDs...),
	}
}

// ReferenceNotFound reports relation values that do not resolve, naming the field.
func ReferenceNotFound(op, field string, ids ...string) error {
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}
	return &Error{
		Code:       CodeReferenceNotFound,
		Op:         strings.TrimSpace(op),
		Message:    fmt.Sprintf("%s references missing aggregate %s", field, strings.Join(quoted, ", ")),
		Field:      field,
		MissingIDs: append([]string(nil), ids...),
	}
}
