package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var reportCmdFlags struct {
	Print bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the task and user overview",
	Long:  `Generate the task overview and user overview documents from the configured store without logging in.`,
	Example: `taskman report
taskman report --print -c /path/to/config.yml
`,
	RunE: generateReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportCmdFlags.Print, "print", false, "Print both documents after generating them")

	rootCmd.AddCommand(reportCmd)
}

func generateReport(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close() //nolint:errcheck

	ctx := cmd.Context()
	creds, err := st.LoadCredentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	tasks, err := st.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	gen := newGenerator(cfg)
	r, err := gen.Generate(ctx, creds, tasks)
	if err != nil {
		return err
	}
	log.Info("reports written", "task_overview", cfg.Reports.TaskOverview, "user_overview", cfg.Reports.UserOverview)

	if !reportCmdFlags.Print {
		fmt.Fprintf(cmd.OutOrStdout(), "Generated reports for %d tasks and %d users\n", r.Tasks.Total, len(r.Users))
		return nil
	}

	taskOverview, userOverview, err := gen.Documents()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), taskOverview)
	fmt.Fprint(cmd.OutOrStdout(), userOverview)
	return nil
}
