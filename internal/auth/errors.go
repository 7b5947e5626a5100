package auth

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// ErrorCodeTemporarilyUnavailable is the OAuth error code the identity
// provider returns for service-side transient conditions.
const ErrorCodeTemporarilyUnavailable = "temporarily_unavailable"

// RetryState records the progress of one Acquire call.
type RetryState struct {
	Attempts      int
	MaxAttempts   int
	LastErrorCode string
}

// AuthError is returned by Acquire once no token could be obtained, either
// because a failure was not transient or because every attempt failed.
type AuthError struct {
	Resource string
	State    RetryState
	Err      error
}

func (e *AuthError) Error() string {
	code := e.State.LastErrorCode
	if code == "" {
		code = "none"
	}
	return fmt.Sprintf("failed to acquire token for %s after %d/%d attempts (error code %s): %v",
		e.Resource, e.State.Attempts, e.State.MaxAttempts, code, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the OAuth error code carried by err, or "" when err is not
// a token endpoint error.
func ErrorCode(err error) string {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		return rErr.ErrorCode
	}
	return ""
}

// IsTransient reports whether err is a failure worth retrying.
// Only temporarily_unavailable qualifies.
func IsTransient(err error) bool {
	return ErrorCode(err) == ErrorCodeTemporarilyUnavailable
}
