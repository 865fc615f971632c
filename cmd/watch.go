package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/scheduler"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the reports on a schedule",
	Long:  `Regenerate the task and user overview on the cron schedule configured in reports.schedule until interrupted. The task and credential stores are only read.`,
	Example: `taskman watch
taskman watch -c /path/to/config.yml --log-level info
`,
	RunE: watch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watch(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close() //nolint:errcheck

	gen := newGenerator(cfg)

	s, err := scheduler.New()
	if err != nil {
		return err
	}
	if err := s.Add(scheduler.Job{
		ID:          "reports",
		Name:        "Generate Reports",
		Description: "Regenerates the task and user overview",
		Schedule:    cfg.Reports.Schedule,
		Singleton:   true,
		RunOnStart:  true,
		Run: func(ctx context.Context) error {
			creds, err := st.LoadCredentials(ctx)
			if err != nil {
				return fmt.Errorf("failed to load credentials: %w", err)
			}
			tasks, err := st.LoadTasks(ctx)
			if err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}
			_, err = gen.Generate(ctx, creds, tasks)
			return err
		},
	}); err != nil {
		return fmt.Errorf("failed to add report job: %w", err)
	}

	s.Start()
	if info, ok := s.Job("reports"); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching, next run at %s\n", info.NextRun.Format("02 Jan 2006 15:04"))
	}

	// Wait for interrupt signal to gracefully shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down gracefully...")
	return s.Stop()
}
