// Package session keeps small per-client key/value state on the server side:
// a durable scope that outlives a visit (the logged-in user id) and a short
// tab scope used to carry the reset email and token between reset steps.
package session

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not_found")

const (
	// KeyUserID holds the logged-in admin id in durable storage.
	KeyUserID = "movemateAdminUserId"
	// KeyResetEmail and KeyResetToken live in tab storage during a reset.
	KeyResetEmail = "resetEmail"
	KeyResetToken = "resetToken"
)

type Scope string

const (
	ScopeDurable Scope = "durable"
	ScopeTab     Scope = "tab"
)

// Storage is one client's view of one scope. Get returns ErrNotFound for a
// missing or expired key. Clear on a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// Store hands out per-client storages.
type Store interface {
	Durable(clientID string) Storage
	Tab(clientID string) Storage
}
