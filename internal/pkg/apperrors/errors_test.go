package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	fields := FieldErrors{}
	fields.Add("f_Mobile", "Mobile is required")
	fields.Add("f_Gender", "Gender is required")
	fields.Add("f_Mobile", "Mobile must be a 10-digit number")

	err := NewValidationError("", fields)

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.Equal(t, []string{"f_Gender", "f_Mobile"}, err.Fields.Fields())
	assert.Equal(t, "Mobile is required", err.Fields["f_Mobile"])
	assert.Equal(t, "Validation failed: f_Gender, f_Mobile", err.Error())
}

func TestConflictErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("create: %w", NewFieldConflictError("f_Email", "Email already exists"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Email already exists", PublicMessage(err, "x"))
}

func TestStoreErrorKeepsDetailPrivate(t *testing.T) {
	err := NewStoreError("insert employee", errors.New("connection refused"))

	assert.Equal(t, "insert employee: connection refused", err.Error())
	assert.Equal(t, "Internal server error", PublicMessage(err, "Internal server error"))
}

func TestEmployeeErrorsAreDistinct(t *testing.T) {
	assert.True(t, errors.Is(ErrEmployeeNotFound, ErrResourceNotFound))
	assert.True(t, errors.Is(ErrInvalidEmployeeID, ErrInvalidID))
	assert.False(t, errors.Is(ErrInvalidEmployeeID, ErrResourceNotFound))
	assert.True(t, Is(ErrTokenExpired, ErrTokenInvalid, ErrTokenExpired))
}
