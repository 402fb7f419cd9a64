package codeforces

import (
	"errors"
	"fmt"
)

// ErrFailedStatus is the cause when the API answers with status FAILED and no comment
var ErrFailedStatus = errors.New("codeforces API returned status FAILED")

// UpstreamFetchError is returned when a Codeforces API call fails for any reason:
// transport error, non-2xx response, FAILED status or an undecodable payload.
type UpstreamFetchError struct {
	Method     string // API method, e.g. "user.status"
	StatusCode int    // HTTP status, 0 when no response was received
	Comment    string // "comment" field of a FAILED response
	Cause      error
}

func (e *UpstreamFetchError) Error() string {
	switch {
	case e.Comment != "":
		return fmt.Sprintf("codeforces %s failed: %s", e.Method, e.Comment)
	case e.StatusCode != 0 && e.Cause == nil:
		return fmt.Sprintf("codeforces %s failed with status %d", e.Method, e.StatusCode)
	default:
		return fmt.Sprintf("codeforces %s failed: %v", e.Method, e.Cause)
	}
}

func (e *UpstreamFetchError) Unwrap() error { return e.Cause }

// IsUpstreamFetchError reports whether err is or wraps an UpstreamFetchError
func IsUpstreamFetchError(err error) bool {
	var upstreamErr *UpstreamFetchError
	return errors.As(err, &upstreamErr)
}
