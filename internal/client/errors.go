package client

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingCredential is returned before any request is sent when a required token is absent.
	ErrMissingCredential = errors.New("missing credential")
	// ErrNotFound marks a successful call that matched nothing.
	ErrNotFound = errors.New("not found")
)

// NetworkError is a transport failure: DNS, TLS, refused connection and the like.
type NetworkError struct {
	StatusText string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.StatusText)
}

// RequestError is a response with a status outside [200,400).
type RequestError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %d %s: %s", e.Status, e.StatusText, e.Body)
}

// ParseError is a success response whose body is not valid JSON.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response: %s", e.Message)
}
