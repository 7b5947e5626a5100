package todolist

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the To Do API.
type APIError struct {
	// Op is "create" or "list".
	Op         string
	StatusCode int
	// Reason is the HTTP reason phrase.
	Reason string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.StatusCode, e.Reason)
}

func newAPIError(op string, resp *http.Response) *APIError {
	return &APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Reason:     reasonPhrase(resp),
	}
}

// IsAPIError reports whether err is or wraps an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsUnauthorized reports whether err is an *APIError with status 401, meaning
// the service rejected the bearer token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
