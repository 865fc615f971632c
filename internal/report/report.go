// Package report computes task and user statistics and renders them as the
// task and user overview documents.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jon4hz/taskman/internal/models"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TaskOverview summarises all tasks.
type TaskOverview struct {
	Total             int
	Complete          int
	Incomplete        int
	Overdue           int
	PercentIncomplete float64
	PercentOverdue    float64
}

// UserOverview summarises the tasks assigned to one user.
type UserOverview struct {
	Username         string
	Assigned         int
	Completed        int
	Overdue          int
	PercentOfTotal   float64
	PercentCompleted float64
	PercentRemaining float64
	PercentOverdue   float64
}

// Report holds both overviews.
type Report struct {
	GeneratedAt time.Time
	Tasks       TaskOverview
	Users       []UserOverview
}

// Options tunes how percentages are derived.
type Options struct {
	// LegacyRounding derives the remaining percentage as 100 minus the rounded
	// completed percentage, matching reports produced by earlier releases.
	LegacyRounding bool
}

// PercentCalc returns a as a percentage of b rounded to two decimals.
// A zero b yields 0.
func PercentCalc(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return round2(float64(a) / float64(b) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute builds a report for the given users and tasks as of today.
// Users are listed in credential order.
func Compute(creds *models.Credentials, tasks []*models.Task, today time.Time, opts Options) Report {
	r := Report{
		GeneratedAt: today,
		Tasks:       computeTaskOverview(tasks, today),
	}

	total := len(tasks)
	for _, username := range creds.Usernames() {
		mine := lo.Filter(tasks, func(t *models.Task, _ int) bool { return t.AssignedTo == username })
		completed := lo.CountBy(mine, func(t *models.Task) bool { return t.IsComplete() })
		overdue := lo.CountBy(mine, func(t *models.Task) bool { return t.IsOverdue(today) })

		u := UserOverview{
			Username:         username,
			Assigned:         len(mine),
			Completed:        completed,
			Overdue:          overdue,
			PercentOfTotal:   PercentCalc(len(mine), total),
			PercentCompleted: PercentCalc(completed, len(mine)),
			PercentOverdue:   PercentCalc(overdue, len(mine)),
		}
		if opts.LegacyRounding {
			u.PercentRemaining = 100 - PercentCalc(completed, len(mine))
		} else {
			u.PercentRemaining = PercentCalc(len(mine)-completed, len(mine))
		}
		r.Users = append(r.Users, u)
	}
	return r
}

func computeTaskOverview(tasks []*models.Task, today time.Time) TaskOverview {
	o := TaskOverview{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsComplete() {
			o.Complete++
		} else {
			o.Incomplete++
		}
		if t.IsOverdue(today) {
			o.Overdue++
		}
	}
	o.PercentIncomplete = PercentCalc(o.Incomplete, o.Total)
	o.PercentOverdue = PercentCalc(o.Overdue, o.Total)
	return o
}

// FormatPercent prints v in its shortest form with at least one decimal,
// e.g. 33.33, 12.5 or 100.0.
func FormatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

const (
	taskOverviewHeader = "———————————————— Task Overview ————————————————"
	userOverviewHeader = "———————————————— User Overview ————————————————"
	overviewFooter     = "——————————————————————————————————————————————"
)

// RenderTaskOverview renders the task overview document.
func RenderTaskOverview(o TaskOverview) string {
	var b strings.Builder
	b.WriteString(taskOverviewHeader + "\n")
	fmt.Fprintf(&b, "Total Number Of Tasks:         %d\n", o.Total)
	fmt.Fprintf(&b, "Completed Tasks:               %d\n", o.Complete)
	fmt.Fprintf(&b, "Incomplete Tasks:              %d\n", o.Incomplete)
	fmt.Fprintf(&b, "Total Overdue:                 %d\n", o.Overdue)
	fmt.Fprintf(&b, "Percent Incomplete:            %s%%\n", FormatPercent(o.PercentIncomplete))
	fmt.Fprintf(&b, "Percent Overdue:               %s%%\n", FormatPercent(o.PercentOverdue))
	b.WriteString(overviewFooter + "\n")
	return b.String()
}

// RenderUserOverview renders the user overview document.
func RenderUserOverview(users []UserOverview) string {
	caser := cases.Title(language.Und)

	var b strings.Builder
	b.WriteString(userOverviewHeader + "\n")
	for _, u := range users {
		fmt.Fprintf(&b, "• %s •\n", caser.String(u.Username))
		fmt.Fprintf(&b, "Tasks Assigned:                           %d\n", u.Assigned)
		fmt.Fprintf(&b, "Percentage of Tasks Assigned:             %s%%\n", FormatPercent(u.PercentOfTotal))
		fmt.Fprintf(&b, "Percentage of Tasks Assigned Completed:   %s%%\n", FormatPercent(u.PercentCompleted))
		fmt.Fprintf(&b, "Percentage Left To Complete:              %s%%\n", FormatPercent(u.PercentRemaining))
		fmt.Fprintf(&b, "Percentage of Tasks Overdue:              %s%%\n", FormatPercent(u.PercentOverdue))
		b.WriteString("\n")
	}
	return b.String()
}
