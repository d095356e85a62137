package orbit

import (
	"fmt"
)

var ErrInvalidSession = fmt.Errorf("the portal session is no longer authenticated")

// returned when the very first fetch carries no view-state token at
// all, no postback can succeed without one
var ErrMalformedDocument = fmt.Errorf("could not locate any form state in the document")

// a connection failure, timeout or retryable status code that
// persisted through every retry attempt
type TransientError struct {
	Attempts int
	Cause    error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %s", e.Attempts, e.Cause)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// a non-2xx status that is not worth retrying
type FatalHTTPError struct {
	StatusCode int
	URL        string
}

func (e *FatalHTTPError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// RunError carries the pages collected before a pagination run died,
// the caller decides whether the partial result is usable.
type RunError struct {
	Pages [][]byte
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("pagination failed after %d pages: %s", len(e.Pages), e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
