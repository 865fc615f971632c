package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/config"
	"github.com/jon4hz/taskman/internal/database"
	"github.com/jon4hz/taskman/internal/flatstore"
	"github.com/jon4hz/taskman/internal/report"
	"github.com/jon4hz/taskman/internal/store"
)

// openStore opens the configured store backend.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		return openDatabase(cfg.Store.SQLitePath)
	case config.StoreDriverFlatFile:
		log.Debug("using flat file store", "users", cfg.Store.UsersFile, "tasks", cfg.Store.TasksFile)
		return newFlatStore(cfg), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newFlatStore(cfg *config.Config) *flatstore.Store {
	return flatstore.New(flatstore.Options{
		UsersPath:     cfg.Store.UsersFile,
		TasksPath:     cfg.Store.TasksFile,
		AdminUsername: cfg.AdminUsername,
		AtomicWrites:  cfg.Store.AtomicWrites,
	})
}

func openDatabase(path string) (*database.Client, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	log.Debug("using sqlite store", "path", path)
	return database.New(path)
}

func newGenerator(cfg *config.Config) *report.Generator {
	return report.NewGenerator(
		report.Paths{
			TaskOverview: cfg.Reports.TaskOverview,
			UserOverview: cfg.Reports.UserOverview,
		},
		report.WithOptions(report.Options{LegacyRounding: cfg.Reports.LegacyRounding}),
		report.WithAtomicWrites(cfg.Store.AtomicWrites),
	)
}
