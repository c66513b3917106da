// Package errors provides coded errors for the tracker.
//
// Codes are grouped by the layer that raises them:
//   - General (1-99)
//   - Validation (100-199): configuration and parameter problems
//   - Data (200-299): price history and output storage
//   - Indicator (300-399)
//   - Strategy (400-499)
//   - Execution (500-599): order application against a ledger
//   - Simulation (600-699): engine setup and lifecycle
//   - Market data (700-799): price feed transport
//   - Callback (800-899)
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidConfiguration, "asset list is empty")
//	err := errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, cause, "fetch %s", symbol)
//	if errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error is an error carrying an ErrorCode and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates an Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates an Error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap attaches a code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf attaches a code and formatted message to cause.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the code of the first *Error in err's chain,
// or ErrCodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode reports whether err carries code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// ValidationError lists every field that failed configuration validation.
type ValidationError struct {
	Fields []string
}

// NewValidationError creates a ValidationError for the given field messages.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{
		Fields: fields,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "invalid configuration: " + e.Fields[0]
	}

	return fmt.Sprintf("invalid configuration: %d problems: %v", len(e.Fields), e.Fields)
}

// IsValidationError reports whether err's chain contains a ValidationError.
func IsValidationError(err error) bool {
	var validationErr *ValidationError

	return errors.As(err, &validationErr)
}
