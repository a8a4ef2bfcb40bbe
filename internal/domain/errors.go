package domain

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

// Error is a user-facing domain failure. It unwraps to one of the
// ErrValidation, ErrNotFound or ErrInvalidState kinds.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// GRPCStatus lets status.FromError classify domain errors.
func (e *Error) GRPCStatus() *status.Status {
	code := codes.Unknown
	switch e.kind {
	case ErrValidation:
		code = codes.InvalidArgument
	case ErrNotFound:
		code = codes.NotFound
	case ErrInvalidState:
		code = codes.FailedPrecondition
	}
	return status.New(code, e.msg)
}

func NewValidationError(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func NewInvalidStateError(format string, args ...any) error {
	return &Error{kind: ErrInvalidState, msg: fmt.Sprintf(format, args...)}
}
