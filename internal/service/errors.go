package service

import (
	"errors"
	"fmt"
)

// Domain failures fall into three buckets: a referenced record does not
// exist, a lifecycle/capacity guard was violated, or the input itself is
// invalid. Handlers map them to 404/409/400; everything else is a 500.

type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string { return e.msg }

func Conflictf(format string, args ...any) error {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
