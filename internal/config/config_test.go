package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "admin", c.AdminUsername)
	assert.Equal(t, StoreDriverFlatFile, c.Store.Driver)
	assert.Equal(t, "user.txt", c.Store.UsersFile)
	assert.Equal(t, "tasks.txt", c.Store.TasksFile)
	assert.Equal(t, "data/taskman.db", c.Store.SQLitePath)
	assert.True(t, c.Store.AtomicWrites)
	assert.Equal(t, "task_overview.txt", c.Reports.TaskOverview)
	assert.Equal(t, "user_overview.txt", c.Reports.UserOverview)
	assert.False(t, c.Reports.LegacyRounding)
	assert.Equal(t, "*/15 * * * *", c.Reports.Schedule)
	assert.Equal(t, 3, c.Login.MaxAttempts)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: DEBUG
admin_username: root
store:
  driver: sqlite
  sqlite_path: " /var/lib/taskman/taskman.db "
  atomic_writes: false
reports:
  task_overview: out/tasks.txt
  user_overview: out/users.txt
  legacy_rounding: true
  schedule: "0 * * * *"
login:
  max_attempts: 5
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "root", c.AdminUsername)
	assert.Equal(t, StoreDriverSQLite, c.Store.Driver)
	assert.Equal(t, "/var/lib/taskman/taskman.db", c.Store.SQLitePath)
	assert.False(t, c.Store.AtomicWrites)
	assert.Equal(t, "user.txt", c.Store.UsersFile, "unset keys keep their defaults")
	assert.Equal(t, "out/tasks.txt", c.Reports.TaskOverview)
	assert.True(t, c.Reports.LegacyRounding)
	assert.Equal(t, "0 * * * *", c.Reports.Schedule)
	assert.Equal(t, 5, c.Login.MaxAttempts)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "store:\n  driver: flatfile\n")
	t.Setenv("TASKMAN_STORE_DRIVER", "sqlite")
	t.Setenv("TASKMAN_LOGIN_MAX_ATTEMPTS", "7")
	t.Setenv("TASKMAN_ADMIN_USERNAME", "boss")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverSQLite, c.Store.Driver)
	assert.Equal(t, 7, c.Login.MaxAttempts)
	assert.Equal(t, "boss", c.AdminUsername)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown driver",
			content: "store:\n  driver: postgres\n",
			wantErr: "unknown store driver",
		},
		{
			name:    "same flat files",
			content: "store:\n  users_file: data.txt\n  tasks_file: data.txt\n",
			wantErr: "must differ",
		},
		{
			name:    "same report files",
			content: "reports:\n  task_overview: r.txt\n  user_overview: r.txt\n",
			wantErr: "different files",
		},
		{
			name:    "short cron",
			content: "reports:\n  schedule: \"* * *\"\n",
			wantErr: "5 fields",
		},
		{
			name:    "bad cron",
			content: "reports:\n  schedule: \"61 * * * *\"\n",
			wantErr: "invalid report schedule",
		},
		{
			name:    "no attempts",
			content: "login:\n  max_attempts: 0\n",
			wantErr: "max attempts",
		},
		{
			name:    "bad log level",
			content: "log_level: verbose\n",
			wantErr: "log level",
		},
		{
			name:    "unsafe admin name",
			content: "admin_username: \"a, b\"\n",
			wantErr: "invalid admin username",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "store: [unclosed\n"))
	assert.ErrorContains(t, err, "failed to read config file")
}
