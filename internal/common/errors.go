// Package common defines constants, sentinel errors and small helpers shared
// by the job portal server layers. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")
	ErrorPlanRequired = errors.New("active plan required")

	// Auth errors (invalid, malformed or revoked token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)
