package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import the flat files into the sqlite database",
	Long:  `Import the credential and task files into the sqlite database configured in store.sqlite_path. Existing database content is replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		exists, err := dbFileExists(cfg.Store.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to check database file: %w", err)
		}

		src := newFlatStore(cfg)
		ctx := cmd.Context()
		creds, err := src.LoadCredentials(ctx)
		if err != nil {
			return fmt.Errorf("failed to load credentials: %w", err)
		}
		tasks, err := src.LoadTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}

		db, err := openDatabase(cfg.Store.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		if exists {
			log.Warn("replacing existing database content", "path", cfg.Store.SQLitePath)
		}
		if err := db.Import(ctx, creds, tasks); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users and %d tasks into %s\n", creds.Len(), len(tasks), cfg.Store.SQLitePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func dbFileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
