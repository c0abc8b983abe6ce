package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrCircuitOpen is returned when the catalog breaker rejects a request
	ErrCircuitOpen = errors.New("catalog circuit open")
	// ErrUnexpectedStatus marks non-2xx catalog responses
	ErrUnexpectedStatus = errors.New("unexpected catalog status")
)

// StatusError carries the status code and a body excerpt of a failed catalog call
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// IsNotFound reports whether err is a 404 from the catalog API
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}

// callerGoneError marks a call abandoned by its own context.
// The breaker does not count it against the catalog.
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }

func (e *callerGoneError) Unwrap() error { return e.err }
