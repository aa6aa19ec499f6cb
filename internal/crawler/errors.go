package crawler

import (
	"errors"
	"fmt"
)

// ErrInvalidURL is returned by Scope.Resolve for hrefs that cannot be
// parsed. The link is logged and skipped; the page is still processed.
var ErrInvalidURL = errors.New("invalid URL")

// FetchError marks a transient page failure eligible for retry: network
// errors, timeouts, non-2xx statuses, and unparseable response bodies.
//
// Design decision: The retry controller distinguishes failures by error
// type rather than catching everything uniformly. Filesystem errors
// deliberately do not get this wrapper, so they fall through to the
// non-retried path.
type FetchError struct {
	// URL is the URL whose fetch attempt failed.
	URL string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failure for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}
