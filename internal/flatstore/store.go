// Package flatstore reads and writes the credential and task lists as
// line-oriented, comma-space separated text files.
package flatstore

import (
	"context"

	"github.com/jon4hz/taskman/internal/models"
	"github.com/jon4hz/taskman/internal/store"
)

var _ store.Store = (*Store)(nil)

// Options configures a flat file Store.
type Options struct {
	// UsersPath is the credential file.
	UsersPath string
	// TasksPath is the task file.
	TasksPath string
	// AdminUsername is bootstrapped to the admin role on load.
	AdminUsername string
	// AtomicWrites replaces the task file through a temp file and rename.
	AtomicWrites bool
}

// Store implements store.Store on top of two text files.
// Access must be serialized by the caller.
type Store struct {
	opts Options
}

// New creates a flat file Store.
func New(opts Options) *Store {
	if opts.AdminUsername == "" {
		opts.AdminUsername = models.DefaultAdminUsername
	}
	return &Store{opts: opts}
}

func (s *Store) LoadCredentials(ctx context.Context) (*models.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadCredentials(s.opts.UsersPath, s.opts.AdminUsername)
}

func (s *Store) AppendCredential(ctx context.Context, user models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return AppendCredential(s.opts.UsersPath, user)
}

func (s *Store) LoadTasks(ctx context.Context) ([]*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadTasks(s.opts.TasksPath)
}

func (s *Store) SaveTasks(ctx context.Context, tasks []*models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SaveTasks(s.opts.TasksPath, tasks, s.opts.AtomicWrites)
}

// Close is a no-op, files are opened per operation.
func (s *Store) Close() error {
	return nil
}
