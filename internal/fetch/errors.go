package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport indicates a DNS, connect, TLS, or timeout failure.
	ErrTransport = errors.New("transport failure")

	// ErrStatus indicates a non-2xx HTTP response.
	ErrStatus = errors.New("unexpected http status")
)

// StatusError reports a non-2xx response. The fetched page is still returned
// alongside it; the caller decides whether the status is fatal.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrStatus }
