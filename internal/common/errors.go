// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Scanner errors.
	ErrPermissionDenied = errors.New("permission to access the folder was denied")

	// Classification errors.
	ErrNoFiles              = errors.New("no files to analyze")
	ErrClassificationFailed = errors.New("classification failed")
	ErrMalformedResponse    = errors.New("malformed classification response")

	// Executor errors.
	ErrResolutionMiss   = errors.New("no scanned file matches analysis entry")
	ErrMoveNotSupported = errors.New("atomic move not supported")
	ErrMoveFailed       = errors.New("move failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
