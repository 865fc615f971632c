package mock

import (
	"context"
	"sync"

	"github.com/jon4hz/taskman/internal/models"
	"github.com/jon4hz/taskman/internal/store"
)

var _ store.Store = (*MockStore)(nil)

// MockStore is an in-memory implementation of store.Store for testing.
type MockStore struct {
	mu sync.RWMutex

	users []models.User
	tasks []*models.Task

	// SaveCount counts successful SaveTasks calls.
	SaveCount int

	// Error simulation
	LoadCredentialsError  error
	AppendCredentialError error
	LoadTasksError        error
	SaveTasksError        error
}

// NewMockStore creates a new MockStore holding the given users.
func NewMockStore(users ...models.User) *MockStore {
	return &MockStore{
		users: users,
	}
}

// SetTasks replaces the stored tasks without counting a save.
func (m *MockStore) SetTasks(tasks ...*models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = cloneTasks(tasks)
}

// Tasks returns a copy of the stored tasks.
func (m *MockStore) Tasks() []*models.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTasks(m.tasks)
}

// Users returns a copy of the stored users.
func (m *MockStore) Users() []models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, len(m.users))
	copy(out, m.users)
	return out
}

func (m *MockStore) LoadCredentials(ctx context.Context) (*models.Credentials, error) {
	if m.LoadCredentialsError != nil {
		return nil, m.LoadCredentialsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.users) == 0 {
		return nil, store.ErrMissingFile
	}
	return models.NewCredentials(m.users...), nil
}

func (m *MockStore) AppendCredential(ctx context.Context, user models.User) error {
	if m.AppendCredentialError != nil {
		return m.AppendCredentialError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = append(m.users, user)
	return nil
}

func (m *MockStore) LoadTasks(ctx context.Context) ([]*models.Task, error) {
	if m.LoadTasksError != nil {
		return nil, m.LoadTasksError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return cloneTasks(m.tasks), nil
}

func (m *MockStore) SaveTasks(ctx context.Context, tasks []*models.Task) error {
	if m.SaveTasksError != nil {
		return m.SaveTasksError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks = cloneTasks(tasks)
	m.SaveCount++
	return nil
}

func (m *MockStore) Close() error {
	return nil
}

func cloneTasks(tasks []*models.Task) []*models.Task {
	out := make([]*models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
