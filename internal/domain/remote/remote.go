// Package remote defines the error type for failures the backend itself
// reported. It sits below every other domain package so callers can
// distinguish a server verdict from a transport failure without importing
// the HTTP client.
package remote

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Error is a failure reported by the backend. Message is the server's own
// message and is surfaced to the user verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsServerError reports whether err is, or wraps, a backend-reported error
// as opposed to a transport failure. Server verdicts are final and must not
// be retried.
func IsServerError(err error) bool {
	var re *Error
	return errors.As(err, &re)
}
