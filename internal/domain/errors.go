package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code. A target
// carrying a message (the invalid input variants) must match that too.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	if t.Code == ErrCodeInvalidInput && t.Message != ErrInvalidInput.Message {
		return t.Message == e.Message
	}
	return true
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes of the lookup pipeline
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnsupportedContent = "UNSUPPORTED_CONTENT"
	ErrCodeNoMatch            = "NO_MATCH"
	ErrCodeRequestFailed      = "REQUEST_FAILED"
	ErrCodeBusy               = "BUSY"
)

// Input errors, raised before any request is spent
var (
	ErrInvalidInput           = NewDomainError(ErrCodeInvalidInput, "invalid input")
	ErrEmptyInput             = NewDomainError(ErrCodeInvalidInput, "empty input")
	ErrNotANumber             = NewDomainError(ErrCodeInvalidInput, "not a number")
	ErrUnrecognizedIdentifier = NewDomainError(ErrCodeInvalidInput, "not a recognized identifier")
)

// Backend outcome errors
var (
	ErrUnsupportedContent = NewDomainError(ErrCodeUnsupportedContent, "format not supported")
	ErrNoMatch            = NewDomainError(ErrCodeNoMatch, "not a recognized picture")
	ErrRequestFailed      = NewDomainError(ErrCodeRequestFailed, "request failed")
)

// ErrInFlight is returned by the dispatcher when a trigger arrives while
// another request is outstanding. Callers treat it as a silent no-op.
var ErrInFlight = NewDomainError(ErrCodeBusy, "a lookup is already in flight")

// RequestFailed wraps a transport or parse failure.
func RequestFailed(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeRequestFailed, ErrRequestFailed.Message, err)
}

// UserMessage returns the text shown to the user for a pipeline error.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotANumber):
		return "Given ID is not a number."
	case errors.Is(err, ErrEmptyInput):
		return "Please enter an ordinal ID or a transaction ID."
	case errors.Is(err, ErrInvalidInput):
		return "Not a recognized ordinal ID or transaction ID."
	case errors.Is(err, ErrUnsupportedContent):
		return "This format is not supported yet."
	case errors.Is(err, ErrNoMatch):
		return "Given item is not a recognized picture."
	case errors.Is(err, ErrInFlight):
		return "A lookup is already running, please wait."
	default:
		return "Something went wrong, please try again later."
	}
}
