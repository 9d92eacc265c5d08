package domain

import "fmt"

// ValidationError reports an entity invariant violated at construction or
// during a mutation. The entity is left unchanged when one is returned.
type ValidationError struct {
	msg string
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// StateError reports an operation attempted against an entity whose current
// status forbids it, e.g. modifying the items of a shipped order.
type StateError struct {
	msg string
}

func newStateError(format string, args ...interface{}) *StateError {
	return &StateError{msg: fmt.Sprintf(format, args...)}
}

func (e *StateError) Error() string {
	return e.msg
}

// NotFoundError reports a referenced entity id absent from a repository.
// Repositories themselves signal absence with a nil result; use cases turn
// that into a NotFoundError.
type NotFoundError struct {
	Kind string
	ID   string
}

func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
