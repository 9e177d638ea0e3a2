package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrDenied       = errors.New("denied")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
)
