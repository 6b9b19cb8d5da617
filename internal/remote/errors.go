package remote

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload marks a response that parsed but failed validation
// (missing or empty required field, wrong shape).
var ErrInvalidPayload = errors.New("invalid payload")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d on %s %s", e.StatusCode, e.Method, e.Path)
}

// TransportError wraps failures to reach the backend, including timeouts.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 2xx response body is not the expected JSON.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Kind classifies a remote failure for logging. The widgets themselves
// treat every kind the same way.
func Kind(err error) string {
	var statusErr *StatusError
	var transportErr *TransportError
	var decodeErr *DecodeError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &statusErr):
		return "status"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.Is(err, ErrInvalidPayload):
		return "payload"
	default:
		return "other"
	}
}
