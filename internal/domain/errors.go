package domain

import "errors"

// ErrTodoNotFound signals that the requested id does not exist. Handlers map
// it to 404 with errors.Is.
var ErrTodoNotFound = errors.New("todo not found")

// ValidationError reports bad or missing input. Handlers map it to 400 with
// errors.As.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}
