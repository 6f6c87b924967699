package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetworkFailure means the request never produced a response.
	ErrNetworkFailure = errors.New("network failure")
	// ErrServerRejected means the server answered with a non-success status.
	ErrServerRejected = errors.New("server rejected request")
	// ErrNotFound means the requested resource does not exist. A 404
	// StatusError matches both ErrNotFound and ErrServerRejected.
	ErrNotFound = errors.New("resource not found")
)

// StatusError carries the details of a non-success response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrServerRejected:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}
