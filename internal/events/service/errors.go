package events

import "errors"

var (
	// ErrNotFound is returned when the requested event does not exist.
	ErrNotFound = errors.New("event not found")
	// ErrOverlap is returned when a new event intersects an existing one on the same date.
	ErrOverlap = errors.New("the event overlaps with another event")
)

// ValidationError carries a message that is safe to return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
