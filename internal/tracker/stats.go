package tracker

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"
)

// GenerateReports writes the task and user overview documents.
func (t *Tracker) GenerateReports(ctx context.Context) error {
	if err := t.ensureTasks(ctx); err != nil {
		return err
	}
	r, err := t.generator.Generate(ctx, t.creds, t.tasks)
	if err != nil {
		return err
	}

	paths := t.generator.Paths()
	t.console.Success("Reports have been generated!")
	t.console.Printf("%s tasks and %s users written to %s and %s\n",
		humanize.Comma(int64(r.Tasks.Total)), humanize.Comma(int64(len(r.Users))),
		paths.TaskOverview, paths.UserOverview)
	return nil
}

// DisplayStats regenerates both documents and prints them.
func (t *Tracker) DisplayStats(ctx context.Context) error {
	if err := t.ensureTasks(ctx); err != nil {
		return err
	}
	if _, err := t.generator.Generate(ctx, t.creds, t.tasks); err != nil {
		return err
	}

	taskOverview, userOverview, err := t.generator.Documents()
	if err != nil {
		return err
	}
	t.console.Println(strings.TrimRight(taskOverview, "\n"))
	t.console.Println(strings.TrimRight(userOverview, "\n"))
	return nil
}
