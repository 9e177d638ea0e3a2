// Package session provides the per-session key/value store the decision
// engine keeps its permission cache in. Every session owns an independent
// store; nothing is shared between sessions.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Store is the key/value view of one session.
type Store interface {
	// Get returns the value of key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put sets key to value.
	Put(ctx context.Context, key, value string) error
	// Pop removes key and returns the value it held.
	Pop(ctx context.Context, key string) (string, bool, error)
	// Clear removes every key of the session.
	Clear(ctx context.Context) error
}

// Provider opens the store of a session id.
type Provider interface {
	Open(id string) Store
	// Destroy removes the session and everything stored in it.
	Destroy(ctx context.Context, id string) error
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// GetOr returns the value of key, or def when it is absent.
func GetOr(ctx context.Context, s Store, key, def string) (string, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// PopOr removes key and returns its value, or def when it was absent.
func PopOr(ctx context.Context, s Store, key, def string) (string, error) {
	v, ok, err := s.Pop(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}
