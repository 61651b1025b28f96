package spacex

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an upstream call failed
type ErrorKind int

const (
	// KindHTTP means upstream answered with a non-2xx status
	KindHTTP ErrorKind = iota + 1
	// KindConnection covers DNS, dial, TLS and timeout failures
	KindConnection
	// KindDecode means upstream answered 2xx with a body that is not a JSON array
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindConnection:
		return "connection"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// UpstreamError is returned by Client.Fetch for every failure.
type UpstreamError struct {
	Kind       ErrorKind
	Endpoint   string
	StatusCode int // set for KindHTTP and KindDecode
	Attempts   int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("SpaceX API error: %s returned status %d after %d attempt(s)",
			e.Endpoint, e.StatusCode, e.Attempts)
	case KindDecode:
		return fmt.Sprintf("SpaceX API error: invalid %s payload: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("SpaceX API connection error: %s after %d attempt(s): %v",
			e.Endpoint, e.Attempts, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.StatusCode
	}
	return 0
}

// IsHTTPStatus reports whether err is an upstream HTTP error with the given status.
func IsHTTPStatus(err error, status int) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.Kind == KindHTTP && upErr.StatusCode == status
}

// IsConnectionError reports whether err is an upstream transport failure.
func IsConnectionError(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.Kind == KindConnection
}
