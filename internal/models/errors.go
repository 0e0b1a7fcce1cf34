package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrNotAuthenticated   = errors.New("models: not authenticated")
	ErrAssignmentNotFound = errors.New("models: assignment not found")
	ErrSnackNotFound      = errors.New("models: snack not found")
)

// ValidationError reports bad input that never reached the platform.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
