package service

import "errors"

var (
	// ErrNotFound means no expense exists with the requested id.
	ErrNotFound = errors.New("expense not found")

	// ErrForbidden means the expense exists but belongs to another user.
	ErrForbidden = errors.New("not authorized to access this expense")

	// ErrDuplicateUsername means the username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials covers both unknown username and wrong
	// password, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports unusable input with a human-readable reason.
// State is never modified when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }
