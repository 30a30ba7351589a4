package travel

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when the geocoding provider has no match for a query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("City not found: %s", e.Query)
}

// TransportError is returned when an upstream call cannot complete: network failure,
// non-success status, open circuit or a payload missing expected fields.
type TransportError struct {
	// Op names the upstream operation, e.g. "geocode" or "places".
	Op string
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
