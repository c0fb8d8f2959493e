package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError signals that a referenced entity does not exist.
// Controllers map it to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id %d", e.Resource, e.ID)
}

func NewNotFound(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InvalidStateError signals an operation that is not legal from the entity's
// current status. Controllers map it to HTTP 409.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func NewInvalidState(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}
