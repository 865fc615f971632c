package database

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/models"
	"github.com/jon4hz/taskman/internal/store"
	"gorm.io/gorm"
)

// User represents a user in the database.
// Unlike the flat credential file, the role is stored explicitly.
type User struct {
	gorm.Model
	Username string      `gorm:"uniqueIndex;not null"`
	Password string      `gorm:"not null"`
	Role     models.Role `gorm:"not null;default:user"`
}

func fromUser(u models.User) User {
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	return User{
		Username: u.Username,
		Password: u.Password,
		Role:     role,
	}
}

func (u User) toModel() models.User {
	return models.User{
		Username: u.Username,
		Password: u.Password,
		Role:     u.Role,
	}
}

// LoadCredentials returns all users in insertion order.
// An empty users table is treated like a missing credential file.
func (c *Client) LoadCredentials(ctx context.Context) (*models.Credentials, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no users in database", store.ErrMissingFile)
	}

	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.toModel()
	}
	return models.NewCredentials(out...), nil
}

// AppendCredential creates a new user.
func (c *Client) AppendCredential(ctx context.Context, user models.User) error {
	record := fromUser(user)
	if err := c.db.WithContext(ctx).Create(&record).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return err
	}
	return nil
}
