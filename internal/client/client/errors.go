package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx answer from the API. It unwraps to the sentinel that
// matches its status so callers can use errors.Is.
type APIError struct {
	Status int
	Detail string
	kind   error
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.Status, e.Detail)
}

func (e *APIError) Unwrap() error { return e.kind }
