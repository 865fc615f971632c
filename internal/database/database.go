package database

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/jon4hz/taskman/internal/models"
	"github.com/jon4hz/taskman/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ store.Store = (*Client)(nil) // Ensure Client implements store.Store

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
func New(dbpath string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Task{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db}, nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Import replaces all users and tasks in a single transaction.
func (c *Client) Import(ctx context.Context, creds *models.Credentials, tasks []*models.Task) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&User{}).Error; err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}
		users := make([]User, 0, creds.Len())
		for _, u := range creds.Users() {
			users = append(users, fromUser(u))
		}
		if len(users) > 0 {
			if err := tx.Create(&users).Error; err != nil {
				return fmt.Errorf("failed to import users: %w", err)
			}
		}
		return replaceTasks(tx, tasks)
	})
}
