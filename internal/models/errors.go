package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist or the id is
// not a valid ObjectID. Handlers translate it to 404.
var ErrNotFound = errors.New("record not found")

// ErrForbidden is returned when the authenticated user may not act on
// the record (deleting someone else's comment). Translates to 403.
var ErrForbidden = errors.New("forbidden")

// ErrAccountDisabled is returned on login against a deactivated
// account. Translates to 403.
var ErrAccountDisabled = errors.New("account has been deactivated")

// ValidationError covers missing or malformed required fields and bad
// date ordering. Handlers translate it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError is returned when a uniqueness constraint would be
// violated (duplicate event title, taken email/username). Handlers
// translate it to 400.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

func NewConflictError(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// DependencyError wraps a collaborator failure (image storage, email,
// push). Most call sites log and ignore it; email delivery during
// registration is the exception and surfaces as 500.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func NewDependencyError(dependency string, err error) error {
	return &DependencyError{Dependency: dependency, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
