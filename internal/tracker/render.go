package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/jon4hz/taskman/internal/models"
	"github.com/mergestat/timediff"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	cardRule  = "—————————————————————————————————————————————————————————————————————"
	cardWidth = 70
	// descriptionIndent matches the indent of the first description line.
	descriptionIndent = 6
)

func (t *Tracker) printTask(number int, task *models.Task, today time.Time) {
	t.console.Println(cardRule)
	t.console.Println(t.console.Highlight(fmt.Sprintf("Task Number: %d", number)))
	t.console.Println(t.renderTask(task, today))
}

// renderTask formats a task card. Incomplete tasks show how far away the due date is.
func (t *Tracker) renderTask(task *models.Task, today time.Time) string {
	var b strings.Builder
	b.WriteString(cardRule + "\n")
	fmt.Fprintf(&b, "Task:                       %s\n", task.Title)
	fmt.Fprintf(&b, "Assigned to:                %s\n", task.AssignedTo)
	fmt.Fprintf(&b, "Date Assigned:              %s\n", models.FormatDate(task.DateAssigned))
	fmt.Fprintf(&b, "Due Date:                   %s%s\n", models.FormatDate(task.DueDate), dueHint(task, today))
	fmt.Fprintf(&b, "Task Complete?              %s\n", task.Complete)
	b.WriteString("Task Description:\n")
	if task.Description != "" {
		b.WriteString(t.console.Wrap(task.Description, cardWidth, descriptionIndent) + "\n")
	}
	b.WriteString(cardRule)
	return b.String()
}

func dueHint(task *models.Task, today time.Time) string {
	if task.IsComplete() {
		return ""
	}
	today = models.DateOf(today)
	if task.DueDate.Equal(today) {
		return " (today)"
	}
	return " (" + timediff.TimeDiff(task.DueDate, timediff.WithStartTime(today)) + ")"
}

// Greeting returns the greeting for the hour of the day.
func Greeting(hour int, username string) string {
	var greeting string
	switch {
	case hour >= 6 && hour < 12:
		greeting = "Good Morning"
	case hour >= 12 && hour < 17:
		greeting = "Good Afternoon"
	case hour >= 17 && hour <= 22:
		greeting = "Good Evening"
	default:
		greeting = "Hey! You're Up Late"
	}
	return fmt.Sprintf("%s, %s!", greeting, cases.Title(language.Und).String(username))
}
