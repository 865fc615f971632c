// Package tracker holds the application state of an interactive session and
// implements the task and user operations offered by the main menu.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/console"
	"github.com/jon4hz/taskman/internal/menu"
	"github.com/jon4hz/taskman/internal/models"
	"github.com/jon4hz/taskman/internal/report"
	"github.com/jon4hz/taskman/internal/session"
	"github.com/jon4hz/taskman/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
)

var (
	// ErrPasswordMismatch is returned when the repeated password differs.
	ErrPasswordMismatch = errors.New("the passwords do not match")
	// ErrTaskComplete is returned when editing a task that is already complete.
	ErrTaskComplete = errors.New("the task is already complete")
	// ErrTasksUnavailable is returned when the task list could not be loaded.
	ErrTasksUnavailable = errors.New("task list unavailable")
)

// Tracker is the state of one interactive session.
type Tracker struct {
	store       store.Store
	console     *console.Console
	generator   *report.Generator
	clock       clockwork.Clock
	maxAttempts int

	creds            *models.Credentials
	tasks            []*models.Task
	tasksUnavailable bool
	session          *session.Session
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock used for today and the greeting.
func WithClock(c clockwork.Clock) Option {
	return func(t *Tracker) {
		t.clock = c
	}
}

// WithMaxAttempts sets the number of login attempts.
func WithMaxAttempts(n int) Option {
	return func(t *Tracker) {
		t.maxAttempts = n
	}
}

// New creates a Tracker.
func New(st store.Store, c *console.Console, gen *report.Generator, opts ...Option) *Tracker {
	t := &Tracker{
		store:       st,
		console:     c,
		generator:   gen,
		clock:       clockwork.NewRealClock(),
		maxAttempts: session.DefaultMaxAttempts,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Load reads the credentials and the task list from the store.
func (t *Tracker) Load(ctx context.Context) error {
	creds, err := t.store.LoadCredentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	tasks, err := t.store.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	t.creds = creds
	t.tasks = tasks
	t.tasksUnavailable = false
	log.Debug("loaded state", "users", creds.Len(), "tasks", len(tasks))
	return nil
}

// Run loads the state, logs a user in and runs the main menu until the user exits.
func (t *Tracker) Run(ctx context.Context) error {
	t.banner()

	if err := t.Load(ctx); err != nil {
		return err
	}

	sess, err := session.NewController(t.console, t.maxAttempts).Login(t.creds)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	t.session = sess
	t.console.Greeting(Greeting(t.clock.Now().Hour(), sess.Username()))

	m := menu.New(t.console)
	if err := m.Register(t.Commands()...); err != nil {
		return err
	}
	return m.Loop(ctx, sess.IsAdmin())
}

// Commands returns the main menu entries.
func (t *Tracker) Commands() []menu.Command {
	return []menu.Command{
		{Key: "a", Label: "Add a task", Run: t.AddTask},
		{Key: "va", Label: "View all Tasks", Run: t.ViewAll},
		{Key: "vm", Label: "View my Tasks", Run: t.ViewMine},
		{Key: "r", Label: "Register a user", AdminOnly: true, Run: t.RegisterUser},
		{Key: "ds", Label: "Display statistics", AdminOnly: true, Run: t.DisplayStats},
		{Key: "gr", Label: "Generate reports", AdminOnly: true, Run: t.GenerateReports},
	}
}

// Tasks returns a copy of the in-memory task list.
func (t *Tracker) Tasks() []*models.Task {
	return cloneTasks(t.tasks)
}

// Credentials returns the in-memory credential store.
func (t *Tracker) Credentials() *models.Credentials {
	return t.creds
}

func (t *Tracker) banner() {
	t.console.Println("╔═════════════════════════════════════════════╗")
	t.console.Title("              🔨 TASK MANAGER 🔨")
	t.console.Println("╚═════════════════════════════════════════════╝")
}

func (t *Tracker) today() time.Time {
	return models.DateOf(t.clock.Now())
}

// ensureTasks reloads the task list after an earlier failed reload.
func (t *Tracker) ensureTasks(ctx context.Context) error {
	if !t.tasksUnavailable {
		return nil
	}
	tasks, err := t.store.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTasksUnavailable, err)
	}
	t.tasks = tasks
	t.tasksUnavailable = false
	log.Info("task list reloaded", "tasks", len(tasks))
	return nil
}

// commit persists next and adopts it as the task list. A failed write
// leaves the in-memory list untouched.
func (t *Tracker) commit(ctx context.Context, next []*models.Task) error {
	if err := t.store.SaveTasks(ctx, next); err != nil {
		log.Error("failed to save tasks", "error", err)
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	t.tasks = next
	return nil
}

// updateTask applies fn to a copy of the task with the given id and commits the result.
func (t *Tracker) updateTask(ctx context.Context, id string, fn func(*models.Task)) (*models.Task, error) {
	next := cloneTasks(t.tasks)
	task, ok := lo.Find(next, func(task *models.Task) bool { return task.ID == id })
	if !ok {
		return nil, fmt.Errorf("task %s no longer exists", id)
	}
	fn(task)
	if err := t.commit(ctx, next); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *Tracker) task(id string) (*models.Task, bool) {
	return lo.Find(t.tasks, func(task *models.Task) bool { return task.ID == id })
}

// quit turns a quit request into a return to the main menu.
func (t *Tracker) quit(err error) error {
	if errors.Is(err, console.ErrQuit) {
		t.console.Println("Returning to Main Menu...")
		return nil
	}
	return err
}

func cloneTasks(tasks []*models.Task) []*models.Task {
	return lo.Map(tasks, func(task *models.Task, _ int) *models.Task { return task.Clone() })
}
