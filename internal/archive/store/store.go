package store

import (
	"context"
	"errors"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable. Everything here is single-statement, so there is no transaction
// surface - if multi-step writes ever appear, add a Tx like the usual
// driver pattern.
type Store interface {
	Sessions() Sessions
	Flags() Flags

	ApplyMigrations() error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Sessions persists the single authenticated session for this browser
// context. One row, last write wins - exactly the semantics of the session
// store it backs.
type Sessions interface {
	// Get returns the persisted session, or ErrNotFound when logged out.
	Get(ctx context.Context) (domain.Session, error)

	// Put replaces the persisted session unconditionally.
	Put(ctx context.Context, s domain.Session) error

	// Delete removes the persisted session. Deleting an absent session is
	// not an error.
	Delete(ctx context.Context) error
}

// Flags is the same-origin shared key/value side channel: the auth
// completion flag and the token mirror live here.
type Flags interface {
	// Get returns the flag value, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the flag, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the flag. Deleting an absent flag is not an error.
	Delete(ctx context.Context, key string) error
}
