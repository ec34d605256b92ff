package store

import (
	"context"
	"errors"
	"time"

	"github.com/astroline/identity/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Token validity is a pure function of claims plus the
// subject row, so users are the only records this service persists.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn errors
	// and committing otherwise. Preferred over Tx for multi-step writes
	// (e.g. uniqueness probe + insert during registration).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login; email is the login identifier.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername exists for the uniqueness probe at registration.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// EmailExists reports whether any user has the given email.
	EmailExists(ctx context.Context, email string) (bool, error)

	// UsernameExists reports whether any user has the given username.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// SetPassword writes the new hash and the last_password_change
	// timestamp in one statement. changedAt must already be truncated to
	// whole seconds; the column stores unix seconds so sub-second values
	// cannot leak in.
	SetPassword(ctx context.Context, userID, newHash string, changedAt time.Time) error

	// DeactivateUser flips active=0. Outstanding tokens stop authenticating
	// at the gate immediately.
	DeactivateUser(ctx context.Context, userID string) error

	// DeleteUser removes the account record.
	DeleteUser(ctx context.Context, userID string) error
}
