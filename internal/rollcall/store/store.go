package store

import (
	"context"
	"errors"

	"github.com/rollcall-app/rollcall/internal/rollcall/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Attendance() Attendance

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (registration's
	// check-then-insert, activation's verify-then-set, attendance marking,
	// delete-with-ledger-purge). The caller MUST Commit() or Rollback().
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByUsername returns the account record for a username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// MarkActivated sets activated_at if it is not already set. Activation
	// is monotonic; a second call is a no-op at this layer.
	MarkActivated(ctx context.Context, username string) error

	// UpdatePasswordHash replaces the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, username string, newHash string) error

	// UpdateRole replaces the role and bumps updated_at.
	UpdateRole(ctx context.Context, username string, role domain.Role) error

	// DeleteUser removes the record. Attendance rows cascade per schema,
	// though callers purge them explicitly in the same transaction.
	DeleteUser(ctx context.Context, username string) error

	// ListUsernames returns all usernames in insertion order.
	ListUsernames(ctx context.Context) ([]string, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Attendance interface {
	// InsertDay records day for the user, returning false without error if
	// the day was already present (set semantics).
	InsertDay(ctx context.Context, userID string, day domain.Day) (created bool, err error)

	// ListDays returns the user's recorded days in ascending order. A user
	// with no marks yields an empty slice, not an error.
	ListDays(ctx context.Context, userID string) ([]domain.Day, error)

	// DeleteAllForUser purges every entry for the user.
	DeleteAllForUser(ctx context.Context, userID string) error
}
