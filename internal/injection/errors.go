package injection

import (
	"errors"
	"fmt"
)

// ErrMalformedURL is matched by every MalformedURLError.
var ErrMalformedURL = errors.New("malformed URL")

var errMissingSchemeOrHost = errors.New("missing scheme or host")

// MalformedURLError is returned when the input cannot be decomposed into
// scheme, host, path and query.
type MalformedURLError struct {
	URL string
	Err error
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed URL '%s': %v", e.URL, e.Err)
}

func (e *MalformedURLError) Unwrap() []error {
	return []error{ErrMalformedURL, e.Err}
}

func newMalformedURLError(rawURL string, err error) *MalformedURLError {
	return &MalformedURLError{URL: rawURL, Err: err}
}
