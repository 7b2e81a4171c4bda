// Package service holds the business rules of the restaurant and
// reservation services: search and ranking, availability, the
// reservation lifecycle, reviews and users.  Handlers translate the
// error kinds defined here into HTTP responses.
package service

import (
	"errors"
	"fmt"
)

// Error kinds.  Every error returned by this package for a caller-visible
// failure wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrBusiness marks an operation that a lifecycle rule forbids.
	ErrBusiness = errors.New("business rule violation")
	// ErrCollaborator marks a failed or ambiguous call to the restaurant service.
	ErrCollaborator = errors.New("restaurant service unavailable")
)

// Error carries a human readable message alongside its kind and an
// optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func businessf(format string, args ...any) error {
	return &Error{Kind: ErrBusiness, Msg: fmt.Sprintf(format, args...)}
}

func collaborator(err error, msg string) error {
	return &Error{Kind: ErrCollaborator, Msg: msg, Err: err}
}

// Message returns the caller-facing message of err: the Msg of a
// *Error when present, err.Error() otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
