package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/models"
)

// AddTask prompts for a new task, appends it to the list and reloads the list from the store.
func (t *Tracker) AddTask(ctx context.Context) error {
	if err := t.ensureTasks(ctx); err != nil {
		return err
	}
	t.console.Title("———— Add a Task ————")

	assignee, err := t.askAssignee("Which user do you want to assign the task to? (type q to go back to Main Menu): ")
	if err != nil {
		return t.quit(err)
	}
	t.console.Success("Success!!! Username found...")

	title, err := t.askText("Please input the task title: ", true)
	if err != nil {
		return t.quit(err)
	}
	description, err := t.askText("Please write a description of the task: ", false)
	if err != nil {
		return t.quit(err)
	}
	due, err := t.askDate("What is the task due date (for example: 10 Oct 2022): ")
	if err != nil {
		return t.quit(err)
	}

	task := models.NewTask(assignee, title, description, due, t.today())
	next := append(cloneTasks(t.tasks), task)
	if err := t.commit(ctx, next); err != nil {
		return err
	}
	log.Info("task added", "id", task.ID, "assigned_to", task.AssignedTo, "due", models.FormatDate(task.DueDate))

	tasks, err := t.store.LoadTasks(ctx)
	if err != nil {
		t.tasks = nil
		t.tasksUnavailable = true
		log.Error("failed to reload tasks", "error", err)
		return fmt.Errorf("the task was saved but the task list could not be reloaded: %w", err)
	}
	t.tasks = tasks

	t.console.Println()
	t.console.Success("———— Task has been successfully added! ————")
	return nil
}

// ViewAll prints every task in stored order.
func (t *Tracker) ViewAll(ctx context.Context) error {
	if err := t.ensureTasks(ctx); err != nil {
		return err
	}
	t.console.Title("———— View All Tasks ————")
	if len(t.tasks) == 0 {
		t.console.Println("There are no tasks yet.")
	}
	today := t.today()
	for i, task := range t.tasks {
		t.printTask(i, task, today)
	}
	t.console.Title("———— END OF TASKS ————")
	return nil
}

// ViewMine prints the tasks of the session user and offers to edit one of them.
func (t *Tracker) ViewMine(ctx context.Context) error {
	if err := t.ensureTasks(ctx); err != nil {
		return err
	}
	me := t.session.Username()

	t.console.Println()
	t.console.Title("———— View My Tasks ————")
	today := t.today()
	mine := 0
	for i, task := range t.tasks {
		if task.AssignedTo != me {
			continue
		}
		mine++
		t.printTask(i, task, today)
	}
	t.console.Println("——————————————————————————  END OF TASKS —————————————————————————————")

	if mine == 0 {
		t.console.Error("You have no tasks assigned!")
		t.console.Println()
		return nil
	}
	t.console.Println()

	id, err := t.selectTask(me)
	if err != nil {
		return t.quit(err)
	}
	return t.editTask(ctx, id)
}

// selectTask prompts for a task number until it names a task owned by owner
// and returns the id of that task.
func (t *Tracker) selectTask(owner string) (string, error) {
	for {
		input, err := t.console.AskOrQuit("Please choose a task to edit (-1 or q to go back to main menu): ")
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			t.console.Error("The input cannot be converted to a number!... Please try again")
			continue
		}
		if n < 0 || n >= len(t.tasks) || t.tasks[n].AssignedTo != owner {
			t.console.Error("You've made an incorrect selection... Please try again")
			continue
		}
		return t.tasks[n].ID, nil
	}
}

const editMenu = `Please choose what you'd like to do, from the following:
1 - Set task as complete
2 - Edit user assigned to
3 - Edit due date
q or -1 to go back to Main Menu: `

// editTask runs the edit sub-menu for one task until an edit succeeds or the user quits.
func (t *Tracker) editTask(ctx context.Context, id string) error {
	for {
		t.console.Title("———— View Mine Sub Menu ————")
		choice, err := t.console.AskOrQuit(editMenu)
		if err != nil {
			return t.quit(err)
		}

		var done bool
		switch strings.TrimSpace(choice) {
		case "1":
			done, err = t.markComplete(ctx, id)
		case "2":
			done, err = t.reassign(ctx, id)
		case "3":
			done, err = t.reschedule(ctx, id)
		default:
			t.console.Error("Invalid selection! Please try again (q or -1 to return to Main Menu)")
			continue
		}
		if err != nil {
			return t.quit(err)
		}
		if done {
			return nil
		}
	}
}

func (t *Tracker) markComplete(ctx context.Context, id string) (bool, error) {
	input, err := t.console.AskOrQuit(`Is the task complete? Type "Yes" or "No": `)
	if err != nil {
		return false, err
	}
	status, err := models.ParseStatus(input)
	if err != nil {
		t.console.Error("Sorry it seems you've typed the input incorrectly... Returning to View Mine Sub Menu")
		return false, nil
	}

	task, err := t.updateTask(ctx, id, func(task *models.Task) {
		task.Complete = status
	})
	if err != nil {
		return false, err
	}
	log.Info("task completion changed", "id", id, "complete", status)
	t.console.Println(t.renderTask(task, t.today()))
	return true, nil
}

func (t *Tracker) reassign(ctx context.Context, id string) (bool, error) {
	if err := t.checkEditable(id); err != nil {
		t.console.Error(editError(err))
		return false, nil
	}

	username, err := t.console.AskOrQuit("Please enter the user you'd like to re-assign the task to: ")
	if err != nil {
		return false, err
	}
	if !t.creds.Exists(username) {
		t.console.Error("User not recognised... Returning to View Mine Sub Menu")
		return false, nil
	}

	if _, err := t.updateTask(ctx, id, func(task *models.Task) {
		task.AssignedTo = username
	}); err != nil {
		return false, err
	}
	log.Info("task reassigned", "id", id, "assigned_to", username)
	t.console.Success("The user for the task has been reassigned... Returning to Main Menu")
	return true, nil
}

func (t *Tracker) reschedule(ctx context.Context, id string) (bool, error) {
	if err := t.checkEditable(id); err != nil {
		t.console.Error(editError(err))
		return false, nil
	}

	input, err := t.console.AskOrQuit("Please input the new date (example format 10 Oct 2019): ")
	if err != nil {
		return false, err
	}
	due, err := models.ParseDate(input)
	if err != nil {
		t.console.Error("The date is not correctly formatted... Please try again")
		return false, nil
	}

	if _, err := t.updateTask(ctx, id, func(task *models.Task) {
		task.DueDate = models.DateOf(due)
	}); err != nil {
		return false, err
	}
	log.Info("task rescheduled", "id", id, "due", models.FormatDate(due))
	t.console.Success("The due date for the task has been reassigned... Returning to Main Menu")
	return true, nil
}

// checkEditable returns ErrTaskComplete for completed tasks.
func (t *Tracker) checkEditable(id string) error {
	task, ok := t.task(id)
	if !ok {
		return fmt.Errorf("task %s no longer exists", id)
	}
	if task.IsComplete() {
		return ErrTaskComplete
	}
	return nil
}

func editError(err error) string {
	if errors.Is(err, ErrTaskComplete) {
		return "The task is already complete - Returning to View Mine Sub Menu"
	}
	return err.Error()
}

// askAssignee prompts until the answer names a known user.
func (t *Tracker) askAssignee(prompt string) (string, error) {
	for {
		username, err := t.console.AskOrQuit(prompt)
		if err != nil {
			return "", err
		}
		if t.creds.Exists(username) {
			return username, nil
		}
		t.console.Println()
		t.console.Error("Sorry the username has NOT been found... Please Try again")
	}
}

// askText prompts until the answer can be stored in a record.
func (t *Tracker) askText(prompt string, required bool) (string, error) {
	for {
		text, err := t.console.AskOrQuit(prompt)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if required && text == "" {
			t.console.Error("This field must not be empty... Please try again")
			continue
		}
		if err := models.CheckText(text); err != nil {
			t.console.Error(fmt.Sprintf("The %s... Please try again", err))
			continue
		}
		return text, nil
	}
}

// askDate prompts until the answer parses as a date.
func (t *Tracker) askDate(prompt string) (time.Time, error) {
	for {
		input, err := t.console.AskOrQuit(prompt)
		if err != nil {
			return time.Time{}, err
		}
		d, err := models.ParseDate(input)
		if err != nil {
			t.console.Error("date has not been written in the correct format!... Please try again")
			continue
		}
		return d, nil
	}
}
