package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/config"
	"github.com/jon4hz/taskman/internal/console"
	"github.com/jon4hz/taskman/internal/tracker"
	"github.com/spf13/cobra"
)

var rootCmdPersistentFlags struct {
	LogFile    string
	ConfigFile string
	LogLevel   string
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogFile, "log-file", "", "File to write logs to")
	rootCmd.PersistentFlags().StringVarP(&rootCmdPersistentFlags.ConfigFile, "config", "c", "", "Path to config file (default: search for config.yml in current dir, ~/.taskman, /etc/taskman)")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error) - overrides config file setting")
}

var rootCmd = &cobra.Command{
	Use:   "taskman",
	Short: "taskman is a small multi-user task tracker",
	Long:  `taskman lets users log in, add tasks and edit the tasks assigned to them. Administrators can register users and generate task and user reports.`,
	Example: `taskman
  taskman -c /path/to/config.yml --log-level debug --log-file taskman.log
  taskman report --print`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if rootCmdPersistentFlags.LogLevel != "" {
			setLogLevel(rootCmdPersistentFlags.LogLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}
		logToFile()
	},
	RunE: root,
}

func root(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	c := console.New(cmd.InOrStdin(), cmd.OutOrStdout())
	t := tracker.New(st, c, newGenerator(cfg), tracker.WithMaxAttempts(cfg.Login.MaxAttempts))
	if err := t.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		log.Error("session ended with an error", "error", err)
		return err
	}
	return nil
}

// loadConfig loads the configuration and applies its log level unless the flag overrides it.
func loadConfig() *config.Config {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if rootCmdPersistentFlags.LogLevel == "" {
		setLogLevel(cfg.LogLevel)
	}
	return cfg
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to warn", level)
		log.SetLevel(log.WarnLevel)
	}
}

// logToFile sends logs to the log file instead of stderr so they do not interleave with the menu.
func logToFile() {
	if rootCmdPersistentFlags.LogFile == "" {
		return
	}
	file, err := os.OpenFile(rootCmdPersistentFlags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		log.Errorf("failed to open log file: %v", err)
		return
	}

	log.SetOutput(file)
	log.Info("logging to file", "file", rootCmdPersistentFlags.LogFile)
}

// Command returns the root command.
func Command() *cobra.Command {
	return rootCmd
}
