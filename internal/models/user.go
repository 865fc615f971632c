package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// DefaultAdminUsername is the username that is bootstrapped to the admin role
// when the credential source carries no role information.
const DefaultAdminUsername = "admin"

// Role is the permission level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account that can log in and own tasks.
type User struct {
	Username string
	Password string
	Role     Role
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// String returns the username and the admin status.
func (u User) String() string {
	return fmt.Sprintf("username: %s, admin status: %t", u.Username, u.IsAdmin())
}

// ValidateUsername checks that a username can be stored and is not a reserved token.
func ValidateUsername(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("username must not be empty")
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("username must not start or end with spaces")
	}
	return CheckText(name)
}

// Credentials holds all known users in their stored order.
// It is not safe for concurrent use.
type Credentials struct {
	users []User
	index map[string]int
}

// NewCredentials builds a credential store from the given users.
// A later duplicate replaces the password and role of the earlier entry
// and keeps its position.
func NewCredentials(users ...User) *Credentials {
	c := &Credentials{
		users: make([]User, 0, len(users)),
		index: make(map[string]int, len(users)),
	}
	for _, u := range users {
		if i, ok := c.index[u.Username]; ok {
			c.users[i] = u
			continue
		}
		c.index[u.Username] = len(c.users)
		c.users = append(c.users, u)
	}
	return c
}

// Lookup returns the user with the given username.
func (c *Credentials) Lookup(username string) (User, bool) {
	i, ok := c.index[username]
	if !ok {
		return User{}, false
	}
	return c.users[i], true
}

// Exists reports whether a user with the given username is known.
func (c *Credentials) Exists(username string) bool {
	_, ok := c.index[username]
	return ok
}

// Authenticate returns the user if the username exists and the password matches exactly.
func (c *Credentials) Authenticate(username, password string) (User, bool) {
	u, ok := c.Lookup(username)
	if !ok || u.Password != password {
		return User{}, false
	}
	return u, true
}

// Add appends a new user. It returns ErrUserAlreadyExists for a known username.
func (c *Credentials) Add(u User) error {
	if c.Exists(u.Username) {
		return fmt.Errorf("%w: %s", ErrUserAlreadyExists, u.Username)
	}
	c.index[u.Username] = len(c.users)
	c.users = append(c.users, u)
	return nil
}

// Users returns a copy of all users in stored order.
func (c *Credentials) Users() []User {
	out := make([]User, len(c.users))
	copy(out, c.users)
	return out
}

// Usernames returns all usernames in stored order.
func (c *Credentials) Usernames() []string {
	out := make([]string, len(c.users))
	for i, u := range c.users {
		out[i] = u.Username
	}
	return out
}

// Len returns the number of users.
func (c *Credentials) Len() int {
	return len(c.users)
}

// RoleFor returns the bootstrap role for a username read from a source
// without role information.
func RoleFor(username, adminUsername string) Role {
	if adminUsername == "" {
		adminUsername = DefaultAdminUsername
	}
	if username == adminUsername {
		return RoleAdmin
	}
	return RoleUser
}
