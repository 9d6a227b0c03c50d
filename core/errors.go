package core

import (
	"errors"
	"fmt"
)

// Acquisition errors. Fetch failures wrap exactly one of these together
// with the underlying cause, so callers can branch with errors.Is.
var (
	// ErrNetwork is returned when the connection fails or the body cannot be read.
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when the fetch exceeds the configured timeout.
	ErrTimeout = errors.New("timeout")

	// ErrMalformedURL is returned when the input is not an absolute http(s) URL.
	ErrMalformedURL = errors.New("malformed URL")

	// ErrHTTPStatus is returned for non-2xx responses unless HTTP errors are ignored.
	ErrHTTPStatus = errors.New("HTTP error status")

	// ErrUnsupportedContentType is returned when the response is not HTML or XML.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// Query errors.
var (
	// ErrInvalidArgument is returned for a non-numeric index or an empty required argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidPattern is returned when a regular expression does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidSelector is returned when a CSS selector or XPath expression does not parse.
	ErrInvalidSelector = errors.New("invalid selector")
)

// HTTPStatusError carries the status of a rejected response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Is makes HTTPStatusError match ErrHTTPStatus.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}
