package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/jon4hz/taskman/internal/models"
	"github.com/spf13/viper"
)

type StoreDriver string

const (
	StoreDriverFlatFile StoreDriver = "flatfile"
	StoreDriverSQLite   StoreDriver = "sqlite"
)

// Config holds the configuration for taskman.
type Config struct {
	// LogLevel is the default log level (debug, info, warn, error). The --log-level flag takes precedence.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// AdminUsername is the user that gets the admin role when the store carries no roles.
	AdminUsername string `yaml:"admin_username" mapstructure:"admin_username"`
	// Store holds the storage backend configuration.
	Store *StoreConfig `yaml:"store" mapstructure:"store"`
	// Reports holds the report generation configuration.
	Reports *ReportsConfig `yaml:"reports" mapstructure:"reports"`
	// Login holds the login configuration.
	Login *LoginConfig `yaml:"login" mapstructure:"login"`
}

// StoreConfig holds the storage backend configuration.
type StoreConfig struct {
	// Driver selects the backend: "flatfile" or "sqlite".
	Driver StoreDriver `yaml:"driver" mapstructure:"driver"`
	// UsersFile is the credential file used by the flatfile driver.
	UsersFile string `yaml:"users_file" mapstructure:"users_file"`
	// TasksFile is the task file used by the flatfile driver.
	TasksFile string `yaml:"tasks_file" mapstructure:"tasks_file"`
	// SQLitePath is the database file used by the sqlite driver and the migrate command.
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	// AtomicWrites replaces files through a temp file and rename instead of truncating them.
	AtomicWrites bool `yaml:"atomic_writes" mapstructure:"atomic_writes"`
}

// ReportsConfig holds the report generation configuration.
type ReportsConfig struct {
	// TaskOverview is the output path of the task overview.
	TaskOverview string `yaml:"task_overview" mapstructure:"task_overview"`
	// UserOverview is the output path of the user overview.
	UserOverview string `yaml:"user_overview" mapstructure:"user_overview"`
	// LegacyRounding computes the remaining percentage as 100 minus the rounded completed percentage.
	LegacyRounding bool `yaml:"legacy_rounding" mapstructure:"legacy_rounding"`
	// Schedule is the cron schedule used by the watch command (e.g. "*/15 * * * *").
	Schedule string `yaml:"schedule" mapstructure:"schedule"`
}

// LoginConfig holds the login configuration.
type LoginConfig struct {
	// MaxAttempts is the number of failed logins before the session ends.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// A missing config file is not an error, defaults are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Configure Viper
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TASKMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		// Use specific config file
		v.SetConfigFile(path)
	} else {
		// Search for config in common locations
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.taskman")
		v.AddConfigPath("/etc/taskman")
	}

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with the TASKMAN_ prefix override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Sanitize config values
	sanitizeConfig(&c)

	// Validate required configs
	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("admin_username", models.DefaultAdminUsername)

	// Store defaults
	v.SetDefault("store.driver", StoreDriverFlatFile)
	v.SetDefault("store.users_file", "user.txt")
	v.SetDefault("store.tasks_file", "tasks.txt")
	v.SetDefault("store.sqlite_path", "./data/taskman.db")
	v.SetDefault("store.atomic_writes", true)

	// Reports defaults
	v.SetDefault("reports.task_overview", "task_overview.txt")
	v.SetDefault("reports.user_overview", "user_overview.txt")
	v.SetDefault("reports.legacy_rounding", false)
	v.SetDefault("reports.schedule", "*/15 * * * *") // Every 15 minutes

	// Login defaults
	v.SetDefault("login.max_attempts", 3)
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing taskman config")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error")
	}

	if err := models.ValidateUsername(c.AdminUsername); err != nil {
		return fmt.Errorf("invalid admin username: %w", err)
	}

	if c.Store == nil {
		return fmt.Errorf("store config is required")
	}
	switch c.Store.Driver {
	case StoreDriverFlatFile:
		if c.Store.UsersFile == "" || c.Store.TasksFile == "" {
			return fmt.Errorf("users file and tasks file are required for the flatfile store")
		}
		if c.Store.UsersFile == c.Store.TasksFile {
			return fmt.Errorf("users file and tasks file must differ")
		}
	case StoreDriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown store driver %q, must be %q or %q", c.Store.Driver, StoreDriverFlatFile, StoreDriverSQLite)
	}

	if c.Reports == nil {
		return fmt.Errorf("reports config is required")
	}
	if c.Reports.TaskOverview == "" || c.Reports.UserOverview == "" {
		return fmt.Errorf("report paths are required")
	}
	if c.Reports.TaskOverview == c.Reports.UserOverview {
		return fmt.Errorf("task overview and user overview must be written to different files")
	}
	// Basic validation for cron format (5 fields)
	if len(strings.Fields(c.Reports.Schedule)) != 5 {
		return fmt.Errorf("report schedule must be a valid cron expression with 5 fields (minute hour day month weekday)")
	}
	if err := gocron.NewDefaultCron(false).IsValid(c.Reports.Schedule, time.Local, time.Now()); err != nil {
		return fmt.Errorf("invalid report schedule: %w", err)
	}

	if c.Login == nil || c.Login.MaxAttempts <= 0 {
		return fmt.Errorf("login max attempts must be greater than 0")
	}
	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.AdminUsername = strings.TrimSpace(c.AdminUsername)

	if c.Store != nil {
		c.Store.Driver = StoreDriver(strings.ToLower(strings.TrimSpace(string(c.Store.Driver))))
		c.Store.UsersFile = pathSanitize(c.Store.UsersFile)
		c.Store.TasksFile = pathSanitize(c.Store.TasksFile)
		c.Store.SQLitePath = pathSanitize(c.Store.SQLitePath)
	}

	if c.Reports != nil {
		c.Reports.TaskOverview = pathSanitize(c.Reports.TaskOverview)
		c.Reports.UserOverview = pathSanitize(c.Reports.UserOverview)
		c.Reports.Schedule = strings.TrimSpace(c.Reports.Schedule)
	}
}

func pathSanitize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
