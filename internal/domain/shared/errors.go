package shared

import (
	"fmt"
	"strings"
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

// Common domain errors
var (
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrUnsupported   = NewDomainError("UNSUPPORTED", "Operation not supported")
	ErrExportFailed  = NewDomainError("EXPORT_FAILED", "Report export could not be delivered")
	ErrIntegrityFail = NewDomainError("INTEGRITY_FAILED", "Report totals are inconsistent")
)

// FieldError describes one invalid field of a report payload.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError rejects a whole report payload. It lists every offending
// field so callers can report them together.
type ValidationError struct {
	Subject string       `json:"subject"`
	Fields  []FieldError `json:"fields"`
}

// NewValidationError creates a validation error for the named payload.
func NewValidationError(subject string, fields ...FieldError) *ValidationError {
	return &ValidationError{Subject: subject, Fields: fields}
}

// Add appends a field error.
func (e *ValidationError) Add(field, rule, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Rule: rule, Message: message})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
