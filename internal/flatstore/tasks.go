package flatstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/models"
	"github.com/jon4hz/taskman/internal/store"
)

// taskFields is the number of fields in a task record:
// assigned_to, task, task_description, date_assigned, due_date, complete.
const taskFields = 6

// LoadTasks reads a task file with one record per line.
// A single malformed line aborts the load and no tasks are returned.
func LoadTasks(path string) ([]*models.Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrMissingFile, path)
		}
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	tasks := make([]*models.Task, 0)
	for n, line := range splitLines(data) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		task, err := DecodeTask(line)
		if err != nil {
			log.Error("corrupt task record", "path", path, "line", n+1, "error", err)
			return nil, fmt.Errorf("%w: %s line %d: %v", store.ErrCorruptRecord, path, n+1, err)
		}
		tasks = append(tasks, task)
	}

	log.Debug("loaded tasks", "path", path, "tasks", len(tasks))
	return tasks, nil
}

// SaveTasks rewrites the task file with one record per task in the given order.
func SaveTasks(path string, tasks []*models.Task, atomic bool) error {
	data, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}

	if err := WriteFile(path, data, atomic); err != nil {
		return fmt.Errorf("failed to write tasks: %w", err)
	}

	log.Debug("saved tasks", "path", path, "tasks", len(tasks), "atomic", atomic)
	return nil
}

// EncodeTasks formats all tasks, each record terminated by a line break.
func EncodeTasks(tasks []*models.Task) ([]byte, error) {
	var b strings.Builder
	for i, t := range tasks {
		line, err := EncodeTask(t)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

// EncodeTask formats one task record without the line break.
func EncodeTask(t *models.Task) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return strings.Join([]string{
		t.AssignedTo,
		t.Title,
		t.Description,
		models.FormatDate(t.DateAssigned),
		models.FormatDate(t.DueDate),
		string(t.Complete),
	}, models.FieldSeparator), nil
}

// DecodeTask parses one task record and assigns it a fresh ID.
func DecodeTask(line string) (*models.Task, error) {
	fields := strings.Split(line, models.FieldSeparator)
	if len(fields) != taskFields {
		return nil, fmt.Errorf("expected %d fields, got %d", taskFields, len(fields))
	}

	assigned, err := models.ParseDate(fields[3])
	if err != nil {
		return nil, fmt.Errorf("date assigned: %w", err)
	}
	due, err := models.ParseDate(fields[4])
	if err != nil {
		return nil, fmt.Errorf("due date: %w", err)
	}
	status, err := models.ParseStatus(fields[5])
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:           models.NewID(),
		AssignedTo:   fields[0],
		Title:        fields[1],
		Description:  fields[2],
		DateAssigned: assigned,
		DueDate:      due,
		Complete:     status,
	}
	// A record that loads must also encode.
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}
