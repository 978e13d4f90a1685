package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/tasktab/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktab/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable; none of the repositories carry any authorization logic.
type Store interface {
	Users() Users
	Tasks() Tasks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error, the
	// transaction is rolled back; otherwise it is committed. This is the
	// recommended way to do multi-step operations like check-then-insert.
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
	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)

	// GetUserByUsername is used during registration and login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, u domain.User) error
}

type Tasks interface {
	// CreateTask inserts a new task (id is provided by app via ULID).
	CreateTask(ctx context.Context, t domain.Task) error

	// GetTaskByID returns a task by id regardless of owner.
	GetTaskByID(ctx context.Context, id idx.ID) (domain.Task, error)

	// ListTasksByOwner returns all tasks owned by ownerID, in insertion order.
	ListTasksByOwner(ctx context.Context, ownerID idx.ID) ([]domain.Task, error)

	// UpdateTask writes the task's mutable fields (name, completed,
	// reminder_interval) and bumps updated_at.
	UpdateTask(ctx context.Context, t domain.Task) error

	// DeleteTask removes a task by id.
	DeleteTask(ctx context.Context, id idx.ID) error
}
