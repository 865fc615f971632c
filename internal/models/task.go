package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout used to store and display task dates (e.g. "10 Oct 2022").
const DateLayout = "02 Jan 2006"

// parseLayout accepts single digit days as well.
const parseLayout = "2 Jan 2006"

// FieldSeparator separates the fields of a task or credential record.
const FieldSeparator = ", "

var (
	// ErrInvalidDate is returned when a date does not match DateLayout.
	ErrInvalidDate = errors.New("date must look like 10 Oct 2022")
	// ErrUnsafeText is returned when free text would break a stored record.
	ErrUnsafeText = errors.New(`text must not contain ", " or line breaks`)
	// ErrInvalidStatus is returned for a completion value other than Yes or No.
	ErrInvalidStatus = errors.New(`completion must be "Yes" or "No"`)
)

// Status is the completion state of a task.
type Status string

const (
	StatusComplete   Status = "Yes"
	StatusIncomplete Status = "No"
)

// ParseStatus accepts yes/no in any case and returns the canonical status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return StatusComplete, nil
	case "no":
		return StatusIncomplete, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Task is a single unit of work assigned to a user.
type Task struct {
	// ID is an opaque identifier assigned when the task is created or loaded.
	ID           string
	AssignedTo   string
	Title        string
	Description  string
	DateAssigned time.Time
	DueDate      time.Time
	Complete     Status
}

// NewTask creates an incomplete task assigned today.
func NewTask(assignedTo, title, description string, due, today time.Time) *Task {
	return &Task{
		ID:           NewID(),
		AssignedTo:   assignedTo,
		Title:        title,
		Description:  description,
		DateAssigned: DateOf(today),
		DueDate:      DateOf(due),
		Complete:     StatusIncomplete,
	}
}

// NewID returns a fresh task identifier.
func NewID() string {
	return uuid.NewString()
}

// IsComplete reports whether the task has been marked as done.
func (t *Task) IsComplete() bool {
	return t.Complete == StatusComplete
}

// IsOverdue reports whether the due date lies strictly before today.
// Completion is not taken into account.
func (t *Task) IsOverdue(today time.Time) bool {
	return t.DueDate.Before(DateOf(today))
}

// Clone returns a copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// Validate checks that the task can be stored without corrupting its record.
func (t *Task) Validate() error {
	if t.AssignedTo == "" {
		return fmt.Errorf("task has no assignee")
	}
	if t.Title == "" {
		return fmt.Errorf("task has no title")
	}
	for _, field := range []string{t.AssignedTo, t.Title, t.Description} {
		if err := CheckText(field); err != nil {
			return err
		}
	}
	if t.Complete != StatusComplete && t.Complete != StatusIncomplete {
		return ErrInvalidStatus
	}
	return nil
}

// String returns a short single line description of the task.
func (t *Task) String() string {
	return fmt.Sprintf("%s (%s, due %s)", t.Title, t.AssignedTo, FormatDate(t.DueDate))
}

// CheckText rejects text containing the record separator or line breaks.
func CheckText(s string) error {
	if strings.Contains(s, FieldSeparator) || strings.ContainsAny(s, "\r\n") {
		return ErrUnsafeText
	}
	return nil
}

// ParseDate parses a date in DateLayout. Month names are matched case-insensitively.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(parseLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate formats a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf strips the clock from t and returns midnight UTC of the same calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
