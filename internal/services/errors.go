package services

import (
	"errors"

	"github.com/confreview/backend/internal/repository"
)

// Error kinds returned by every service. Match them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error pairs a kind with the message shown to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error   { return &Error{Kind: ErrValidation, Message: msg} }
func notFoundError(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func forbiddenError(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func conflictError(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }
func unauthorizedError(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

// notFoundOr turns repository.ErrNotFound into a not-found error carrying msg
// and passes every other error through.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError(msg)
	}
	return err
}
