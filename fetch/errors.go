package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is a convenience sentinel for upstream 404 responses.
// errors.Is(err, ErrNotFound) matches any *StatusError with code 404.
var ErrNotFound = errors.New("page not found")

// StatusError indicates the upstream server answered with a non-success
// HTTP status. The status code is preserved so callers can forward it.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s: %s", e.Code, e.URL, http.StatusText(e.Code))
}

// Is makes errors.Is(err, ErrNotFound) true for 404 status errors.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// NetworkError indicates a transport-level failure: DNS resolution,
// connection refused, TLS handshake, or timeout. No response was received.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
