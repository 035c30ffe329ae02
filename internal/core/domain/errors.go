// Package domain defines the core domain models for DistKV.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
//
// Codes have the form KV-<AREA>-<NNNN>, where the number borrows the closest
// HTTP status so that scripted clients can classify failures.
type DomainError struct {
	Code    string // Error code (e.g., "KV-PROTO-4000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Protocol Errors (PROTO)
// ============================================================================

var (
	// ErrUsage indicates a known verb with the wrong number of arguments.
	ErrUsage = NewDomainError("KV-PROTO-4000", "wrong number of arguments")

	// ErrUnknownCommand indicates the verb is not part of the protocol.
	ErrUnknownCommand = NewDomainError("KV-PROTO-4001", "unknown command")

	// ErrLineTooLong indicates a request line exceeded the configured limit.
	// The connection is closed after reporting it.
	ErrLineTooLong = NewDomainError("KV-PROTO-4130", "line too long")

	// ErrRateLimited indicates the client exceeded its command rate.
	ErrRateLimited = NewDomainError("KV-PROTO-4290", "too many commands")
)

// ============================================================================
// Data Errors (DATA)
// ============================================================================

var (
	// ErrKeyNotFound indicates the key is not stored.
	ErrKeyNotFound = NewDomainError("KV-DATA-4040", "key not found")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal server error.
	ErrInternal = NewDomainError("KV-SYS-5000", "internal server error")
)
