package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "two digit day",
			input:    "10 Oct 2022",
			expected: time.Date(2022, 10, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "single digit day",
			input:    "1 Feb 2023",
			expected: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "zero padded day",
			input:    "01 Feb 2023",
			expected: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "lowercase month",
			input:    "10 oct 2025",
			expected: time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace",
			input:    "  10 Oct 2025 ",
			expected: time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "iso date",
			input:   "2025-10-10",
			wantErr: true,
		},
		{
			name:    "full month name",
			input:   "10 October 2025",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05 Mar 2024", FormatDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
}

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"yes", "Yes", "YES", " yEs "} {
		s, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, StatusComplete, s)
	}
	for _, in := range []string{"no", "No", "NO"} {
		s, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, StatusIncomplete, s)
	}
	for _, in := range []string{"", "y", "n", "done", "true"} {
		_, err := ParseStatus(in)
		assert.ErrorIs(t, err, ErrInvalidStatus, in)
	}
}

func TestTask_IsOverdue(t *testing.T) {
	today := time.Date(2025, 10, 10, 15, 30, 0, 0, time.Local)
	task := &Task{DueDate: time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC)}
	assert.True(t, task.IsOverdue(today))

	task.DueDate = time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	assert.False(t, task.IsOverdue(today), "due today is not overdue")

	task.DueDate = time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)
	assert.False(t, task.IsOverdue(today))

	task.DueDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	task.Complete = StatusComplete
	assert.True(t, task.IsOverdue(today), "completed tasks still count as overdue")
}

func TestNewTask(t *testing.T) {
	today := time.Date(2025, 1, 2, 9, 0, 0, 0, time.Local)
	due := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	task := NewTask("alice", "Write report", "Quarterly numbers", due, today)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, StatusIncomplete, task.Complete)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), task.DateAssigned)
	assert.False(t, task.IsComplete())
	assert.NoError(t, task.Validate())

	other := NewTask("alice", "Write report", "", due, today)
	assert.NotEqual(t, task.ID, other.ID)
}

func TestTask_Validate(t *testing.T) {
	base := Task{AssignedTo: "bob", Title: "t", Description: "d", Complete: StatusIncomplete}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{name: "valid", mutate: func(*Task) {}},
		{name: "comma without space is fine", mutate: func(t *Task) { t.Description = "a,b,c" }},
		{name: "separator in description", mutate: func(t *Task) { t.Description = "one, two" }, wantErr: ErrUnsafeText},
		{name: "newline in title", mutate: func(t *Task) { t.Title = "a\nb" }, wantErr: ErrUnsafeText},
		{name: "bad status", mutate: func(t *Task) { t.Complete = "maybe" }, wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := base
			tt.mutate(&task)
			err := task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	missing := base
	missing.Title = ""
	assert.Error(t, missing.Validate())
}

func TestTask_Clone(t *testing.T) {
	orig := &Task{ID: "1", Title: "a", Complete: StatusIncomplete}
	c := orig.Clone()
	c.Complete = StatusComplete
	assert.Equal(t, StatusIncomplete, orig.Complete)
	assert.Equal(t, orig.ID, c.ID)
}

func TestCredentials(t *testing.T) {
	creds := NewCredentials(
		User{Username: "admin", Password: "adm1n", Role: RoleAdmin},
		User{Username: "alice", Password: "p1", Role: RoleUser},
		User{Username: "bob", Password: "p2", Role: RoleUser},
	)

	assert.Equal(t, 3, creds.Len())
	assert.Equal(t, []string{"admin", "alice", "bob"}, creds.Usernames())
	assert.True(t, creds.Exists("alice"))
	assert.False(t, creds.Exists("Alice"))

	u, ok := creds.Authenticate("alice", "p1")
	require.True(t, ok)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.IsAdmin())

	_, ok = creds.Authenticate("alice", "P1")
	assert.False(t, ok, "passwords are case sensitive")
	_, ok = creds.Authenticate("carol", "p1")
	assert.False(t, ok)

	err := creds.Add(User{Username: "bob", Password: "x"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Equal(t, 3, creds.Len())

	require.NoError(t, creds.Add(User{Username: "carol", Password: "p3", Role: RoleUser}))
	assert.Equal(t, "carol", creds.Usernames()[3])
}

func TestNewCredentials_DuplicateKeepsPosition(t *testing.T) {
	creds := NewCredentials(
		User{Username: "alice", Password: "old"},
		User{Username: "bob", Password: "p2"},
		User{Username: "alice", Password: "new"},
	)
	assert.Equal(t, []string{"alice", "bob"}, creds.Usernames())
	u, ok := creds.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, "new", u.Password)
}

func TestRoleFor(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleFor("admin", ""))
	assert.Equal(t, RoleUser, RoleFor("Admin", ""))
	assert.Equal(t, RoleAdmin, RoleFor("root", "root"))
	assert.Equal(t, RoleUser, RoleFor("admin", "root"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("   "))
	assert.Error(t, ValidateUsername(" alice"))
	assert.ErrorIs(t, ValidateUsername("a, b"), ErrUnsafeText)
}
