package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jon4hz/taskman/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func task(assignee string, due time.Time, complete models.Status) *models.Task {
	t := models.NewTask(assignee, "title", "description", due, today.AddDate(0, -1, 0))
	t.Complete = complete
	return t
}

func fixture() (*models.Credentials, []*models.Task) {
	creds := models.NewCredentials(
		models.User{Username: "admin", Password: "adm1n", Role: models.RoleAdmin},
		models.User{Username: "alice", Password: "p1"},
		models.User{Username: "bob", Password: "p2"},
	)
	past := today.AddDate(0, 0, -1)
	future := today.AddDate(0, 0, 7)
	tasks := []*models.Task{
		task("alice", past, models.StatusComplete),
		task("alice", future, models.StatusIncomplete),
		task("alice", future, models.StatusIncomplete),
		task("bob", past, models.StatusIncomplete),
	}
	return creds, tasks
}

func TestPercentCalc(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want float64
	}{
		{name: "zero denominator", a: 5, b: 0, want: 0},
		{name: "zero of zero", a: 0, b: 0, want: 0},
		{name: "third", a: 1, b: 3, want: 33.33},
		{name: "two thirds", a: 2, b: 3, want: 66.67},
		{name: "whole", a: 4, b: 4, want: 100},
		{name: "half", a: 1, b: 2, want: 50},
		{name: "eighth", a: 1, b: 8, want: 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentCalc(tt.a, tt.b))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{100, "100.0"},
		{33.33, "33.33"},
		{12.5, "12.5"},
		{66.67, "66.67"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPercent(tt.in))
		})
	}
}

func TestCompute(t *testing.T) {
	creds, tasks := fixture()
	r := Compute(creds, tasks, today, Options{})

	assert.Equal(t, TaskOverview{
		Total:             4,
		Complete:          1,
		Incomplete:        3,
		Overdue:           2,
		PercentIncomplete: 75,
		PercentOverdue:    50,
	}, r.Tasks)

	require.Len(t, r.Users, 3)
	assert.Equal(t, []string{"admin", "alice", "bob"}, []string{r.Users[0].Username, r.Users[1].Username, r.Users[2].Username})

	alice := r.Users[1]
	assert.Equal(t, 3, alice.Assigned)
	assert.Equal(t, 1, alice.Completed)
	assert.Equal(t, 1, alice.Overdue)
	assert.Equal(t, 75.0, alice.PercentOfTotal)
	assert.Equal(t, 33.33, alice.PercentCompleted)
	assert.Equal(t, 66.67, alice.PercentRemaining)
	assert.Equal(t, 33.33, alice.PercentOverdue)

	bob := r.Users[2]
	assert.Equal(t, 100.0, bob.PercentRemaining)
	assert.Equal(t, 100.0, bob.PercentOverdue)
}

func TestCompute_UserWithoutTasks(t *testing.T) {
	creds, tasks := fixture()
	admin := Compute(creds, tasks, today, Options{}).Users[0]

	assert.Equal(t, UserOverview{Username: "admin"}, admin)
}

func TestCompute_LegacyRounding(t *testing.T) {
	creds, tasks := fixture()
	r := Compute(creds, tasks, today, Options{LegacyRounding: true})

	assert.Equal(t, 100.0, r.Users[0].PercentRemaining, "no tasks leaves 100 percent remaining")
	assert.Equal(t, 100-PercentCalc(1, 3), r.Users[1].PercentRemaining)
}

func TestCompute_NoTasks(t *testing.T) {
	creds := models.NewCredentials(models.User{Username: "alice", Password: "p1"})
	r := Compute(creds, nil, today, Options{})

	assert.Equal(t, TaskOverview{}, r.Tasks)
	require.Len(t, r.Users, 1)
	assert.Zero(t, r.Users[0].PercentOfTotal)
}

func TestRenderTaskOverview(t *testing.T) {
	creds, tasks := fixture()
	doc := RenderTaskOverview(Compute(creds, tasks, today, Options{}).Tasks)

	want := "———————————————— Task Overview ————————————————\n" +
		"Total Number Of Tasks:         4\n" +
		"Completed Tasks:               1\n" +
		"Incomplete Tasks:              3\n" +
		"Total Overdue:                 2\n" +
		"Percent Incomplete:            75.0%\n" +
		"Percent Overdue:               50.0%\n" +
		"——————————————————————————————————————————————\n"
	assert.Equal(t, want, doc)
}

func TestRenderUserOverview(t *testing.T) {
	creds, tasks := fixture()
	doc := RenderUserOverview(Compute(creds, tasks, today, Options{}).Users)

	assert.Contains(t, doc, "———————————————— User Overview ————————————————\n")
	assert.Contains(t, doc, "• Admin •\n"+
		"Tasks Assigned:                           0\n"+
		"Percentage of Tasks Assigned:             0.0%\n"+
		"Percentage of Tasks Assigned Completed:   0.0%\n"+
		"Percentage Left To Complete:              0.0%\n"+
		"Percentage of Tasks Overdue:              0.0%\n\n")
	assert.Contains(t, doc, "• Alice •\n"+
		"Tasks Assigned:                           3\n"+
		"Percentage of Tasks Assigned:             75.0%\n"+
		"Percentage of Tasks Assigned Completed:   33.33%\n"+
		"Percentage Left To Complete:              66.67%\n"+
		"Percentage of Tasks Overdue:              33.33%\n\n")
}

func TestGenerator(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		TaskOverview: filepath.Join(dir, "task_overview.txt"),
		UserOverview: filepath.Join(dir, "user_overview.txt"),
	}
	g := NewGenerator(paths, WithClock(clockwork.NewFakeClockAt(today)))

	creds, tasks := fixture()
	r, err := g.Generate(context.Background(), creds, tasks)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Tasks.Total)

	taskDoc, userDoc, err := g.Documents()
	require.NoError(t, err)
	assert.Equal(t, RenderTaskOverview(r.Tasks), taskDoc)
	assert.Equal(t, RenderUserOverview(r.Users), userDoc)

	// A second run rewrites the documents in full.
	_, err = g.Generate(context.Background(), creds, tasks[:1])
	require.NoError(t, err)
	taskDoc, _, err = g.Documents()
	require.NoError(t, err)
	assert.Contains(t, taskDoc, "Total Number Of Tasks:         1\n")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGenerator_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(Paths{
		TaskOverview: filepath.Join(dir, "missing", "task_overview.txt"),
		UserOverview: filepath.Join(dir, "user_overview.txt"),
	}, WithAtomicWrites(false))

	creds, tasks := fixture()
	_, err := g.Generate(context.Background(), creds, tasks)
	assert.Error(t, err)
}

func TestGenerator_DocumentsMissing(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(Paths{
		TaskOverview: filepath.Join(dir, "task_overview.txt"),
		UserOverview: filepath.Join(dir, "user_overview.txt"),
	})
	_, _, err := g.Documents()
	assert.Error(t, err)
}
