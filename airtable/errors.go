package airtable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure returned by the client.
type ErrorKind int

const (
	// KindUnknown is any error not produced by this package.
	KindUnknown ErrorKind = iota
	// KindURL means the request target could not be composed.
	KindURL
	// KindTransport means the server could not be reached or the body could not be read.
	KindTransport
	// KindSerialization means a payload could not be encoded or a response could not be decoded.
	KindSerialization
	// KindAPI means Airtable answered with a non-2xx status.
	KindAPI
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindTransport:
		return "transport"
	case KindSerialization:
		return "serialization"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Error types returned by the client. Exactly one of them is at the root of
// every error a client operation returns.
type (
	// URLError indicates the base, table or record identifiers could not form a request URL
	URLError struct {
		Target string
		Reason string
		Err    error
	}

	// TransportError indicates a network level failure
	TransportError struct {
		Method string
		URL    string
		Err    error
	}

	// SerializationError indicates a JSON encode or decode failure
	SerializationError struct {
		Op  string // "encode" or "decode"
		Err error
	}

	// APIError carries a non-2xx Airtable response. Body is the raw response
	// text and is not interpreted.
	APIError struct {
		Method     string
		URL        string
		StatusCode int
		Body       string
	}
)

func (e *URLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("airtable: invalid request url %q: %s: %v", e.Target, e.Reason, e.Err)
	}
	return fmt.Sprintf("airtable: invalid request url %q: %s", e.Target, e.Reason)
}

func (e *URLError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("airtable: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline or client timeout
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("airtable: failed to %s payload: %v", e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("airtable API error: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsUnprocessable checks if Airtable rejected the payload, e.g. a type mismatch without typecast
func (e *APIError) IsUnprocessable() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// IsRateLimited checks if the request was throttled
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// KindOf classifies err, looking through any wrapping
func KindOf(err error) ErrorKind {
	var (
		urlErr   *URLError
		transErr *TransportError
		serErr   *SerializationError
		apiErr   *APIError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &serErr):
		return KindSerialization
	case errors.As(err, &transErr):
		return KindTransport
	case errors.As(err, &urlErr):
		return KindURL
	default:
		return KindUnknown
	}
}
