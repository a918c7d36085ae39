package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidID marks an identifier that does not have the document id shape.
	// It is an internal error class, distinct from ErrNotFound.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidEventIDFormat is returned by participant queries for a malformed event id.
	ErrInvalidEventIDFormat = errors.New("Invalid eventId format")
)

// ValidationError carries a client-facing message. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidInput returns a ValidationError with the given message.
func InvalidInput(message string) error {
	return &ValidationError{Message: message}
}

// InvalidID wraps ErrInvalidID with the offending value.
func InvalidID(id string) error {
	return fmt.Errorf("%w: cast to ObjectId failed for value %q", ErrInvalidID, id)
}
