// Package common defines shared constants and sentinel errors used across
// the decision engine, its collaborators and the transport layer. Callers
// should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Vocabulary errors. These are programmer errors and are never retried.
	ErrUnknownLevel = errors.New("unknown tlp level")
	ErrUnknownFlag  = errors.New("unknown flag")

	// ErrAuthorizationDenied is the negative result of a decision. Concrete
	// denials carry actor, target and action and unwrap to this value.
	ErrAuthorizationDenied = errors.New("authorization denied")
)
