package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrUnexpectedStatus is wrapped by every APIError caused by a status other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrMalformedPage is returned when a 200 OK body cannot be decoded as a page.
	ErrMalformedPage = errors.New("malformed page response")
)

// APIError represents a failed user API request with additional context.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user API %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("user API %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport failure: a network error
// or a response status other than 200 OK.
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
