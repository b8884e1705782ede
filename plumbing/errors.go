package plumbing

import (
	"errors"
	"fmt"
)

// Error kinds, per the error handling design: NOTFOUND, EXISTS, AMBIGUOUS,
// INVALID, UNREADABLE, CONFLICT, IO, USER. Components wrap one of these
// sentinels with %w so callers can classify an error with errors.Is while
// still getting a descriptive message.
var (
	ErrNotFound   = errors.New("not found")
	ErrExists     = errors.New("already exists")
	ErrAmbiguous  = errors.New("ambiguous reference")
	ErrInvalid    = errors.New("invalid input")
	ErrUnreadable = errors.New("unreadable")
	ErrConflict   = errors.New("conflict")
	ErrIO         = errors.New("i/o error")
	ErrUser       = errors.New("aborted by caller")
)

// NewNotFoundf wraps ErrNotFound with a formatted message.
func NewNotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// NewInvalidf wraps ErrInvalid with a formatted message.
func NewInvalidf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalid)...)
}

// NewConflictf wraps ErrConflict with a formatted message.
func NewConflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// NewUnreadablef wraps ErrUnreadable with a formatted message.
func NewUnreadablef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnreadable)...)
}

// NewIOf wraps ErrIO with a formatted message.
func NewIOf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrIO)...)
}
