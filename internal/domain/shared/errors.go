package shared

import "errors"

// Error codes used across the domain
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeUnsupportedCycle    = "UNSUPPORTED_CYCLE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewInvalidArgument creates a domain error for malformed numeric or textual input
func NewInvalidArgument(message string) *DomainError {
	return NewDomainError(CodeInvalidArgument, message)
}

// NewInvalidTransition creates a domain error for an illegal lifecycle status change
func NewInvalidTransition(message string) *DomainError {
	return NewDomainError(CodeInvalidTransition, message)
}

// NewUnsupportedCycle creates a domain error for a billing cycle outside the supported set
func NewUnsupportedCycle(message string) *DomainError {
	return NewDomainError(CodeUnsupportedCycle, message)
}

// IsDomainErrorWithCode reports whether err is a DomainError carrying the given code
func IsDomainErrorWithCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)
