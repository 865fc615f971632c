// Package store defines the persistence contract shared by the flat file and
// the SQLite backends.
package store

import (
	"context"
	"errors"

	"github.com/jon4hz/taskman/internal/models"
)

var (
	// ErrMissingFile is returned when a required store file (or table) is absent.
	ErrMissingFile = errors.New("required store file is missing")
	// ErrCorruptRecord is returned when a stored record cannot be parsed.
	// The whole load is aborted, no partial data is returned.
	ErrCorruptRecord = errors.New("corrupt record")
)

// CredentialStore persists users.
type CredentialStore interface {
	// LoadCredentials reads all users in stored order.
	LoadCredentials(ctx context.Context) (*models.Credentials, error)
	// AppendCredential adds one user. Uniqueness is the caller's responsibility.
	AppendCredential(ctx context.Context, user models.User) error
}

// TaskStore persists the ordered task list.
type TaskStore interface {
	// LoadTasks reads the full task list in stored order.
	LoadTasks(ctx context.Context) ([]*models.Task, error)
	// SaveTasks replaces the stored task list with tasks, keeping their order.
	SaveTasks(ctx context.Context, tasks []*models.Task) error
}

// Store combines both stores.
type Store interface {
	CredentialStore
	TaskStore
	Close() error
}
