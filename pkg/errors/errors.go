package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("student not found")
	ErrDuplicateKey       = errors.New("a student with this id already exists")
	ErrDuplicateUsername  = errors.New("a user with this username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidGrade       = errors.New("invalid grade value")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError reports a problem with a single input field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	if e.Value == nil || e.Value == "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

// Unwrap returns the underlying kind, ErrValidation when none was set.
func (e ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

func NewValidationError(field string, value interface{}, message string) error {
	return ValidationError{Field: field, Value: value, Message: message}
}

// NewGradeError is a ValidationError that also matches ErrInvalidGrade.
func NewGradeError(field string, value interface{}) error {
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: "must be a number",
		Err:     ErrInvalidGrade,
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
