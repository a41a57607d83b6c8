package apperrors

import (
	"errors"
	"sort"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidID        = errors.New("invalid identifier")
)

// Employee errors
var (
	ErrEmployeeNotFound  = NewResourceNotFoundError("Employee not found")
	ErrInvalidEmployeeID = NewCustomError(ErrInvalidID, "Invalid employee ID")
)

// FieldErrors maps a wire field name to a human-readable message.
type FieldErrors map[string]string

// Add records msg for field unless an earlier rule already failed for it.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Fields returns the failing field names in sorted order.
func (f FieldErrors) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ValidationError carries every field-level violation of one request.
type ValidationError struct {
	Message string
	Fields  FieldErrors
}

// NewValidationError wraps field errors; message defaults to "Validation failed".
func NewValidationError(message string, fields FieldErrors) *ValidationError {
	if message == "" {
		message = "Validation failed"
	}
	if fields == nil {
		fields = FieldErrors{}
	}
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields.Fields(), ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ConflictError reports a duplicate unique key.
type ConflictError struct {
	Field   string
	Message string
}

// NewFieldConflictError creates a conflict tied to a single field.
func NewFieldConflictError(field, message string) *ConflictError {
	return &ConflictError{Field: field, Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// StoreError is an underlying persistence failure. It is never retried and its
// detail is only logged.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps a persistence failure for operation op.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}


// Is returns whether err matches target or any of errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// PublicMessage returns the message of the outermost application error in
// err's chain, or fallback when the chain holds none. Store errors never reach
// callers verbatim.
func PublicMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Message
	}
	var cu *CustomError
	if errors.As(err, &cu) && cu.Message != "" {
		return cu.Message
	}
	return fallback
}
