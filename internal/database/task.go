package database

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/models"
	"gorm.io/gorm"
)

// Task represents a task in the database.
// Position stores the order of the in-memory task list.
type Task struct {
	ID           string        `gorm:"primaryKey"`
	Position     int           `gorm:"not null;index"`
	AssignedTo   string        `gorm:"not null;index"`
	Title        string        `gorm:"not null"`
	Description  string        `gorm:"not null"`
	DateAssigned time.Time     `gorm:"not null"`
	DueDate      time.Time     `gorm:"not null"`
	Complete     models.Status `gorm:"not null;default:No"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func fromTask(t *models.Task, position int) Task {
	id := t.ID
	if id == "" {
		id = models.NewID()
	}
	return Task{
		ID:           id,
		Position:     position,
		AssignedTo:   t.AssignedTo,
		Title:        t.Title,
		Description:  t.Description,
		DateAssigned: models.DateOf(t.DateAssigned),
		DueDate:      models.DateOf(t.DueDate),
		Complete:     t.Complete,
	}
}

func (t Task) toModel() *models.Task {
	return &models.Task{
		ID:           t.ID,
		AssignedTo:   t.AssignedTo,
		Title:        t.Title,
		Description:  t.Description,
		DateAssigned: models.DateOf(t.DateAssigned.UTC()),
		DueDate:      models.DateOf(t.DueDate.UTC()),
		Complete:     t.Complete,
	}
}

// LoadTasks returns all tasks ordered by position.
func (c *Client) LoadTasks(ctx context.Context) ([]*models.Task, error) {
	var records []Task
	if err := c.db.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		log.Error("failed to get tasks", "error", err)
		return nil, err
	}

	tasks := make([]*models.Task, len(records))
	for i, r := range records {
		tasks[i] = r.toModel()
	}
	return tasks, nil
}

// SaveTasks replaces all stored tasks within one transaction.
func (c *Client) SaveTasks(ctx context.Context, tasks []*models.Task) error {
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
	}
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceTasks(tx, tasks)
	})
}

func replaceTasks(tx *gorm.DB, tasks []*models.Task) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Task{}).Error; err != nil {
		log.Error("failed to clear tasks", "error", err)
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	records := make([]Task, len(tasks))
	for i, t := range tasks {
		records[i] = fromTask(t, i)
	}
	if err := tx.Create(&records).Error; err != nil {
		log.Error("failed to insert tasks", "error", err)
		return err
	}
	return nil
}
