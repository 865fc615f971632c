// Package session implements the login state machine.
package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/console"
	"github.com/jon4hz/taskman/internal/models"
)

// DefaultMaxAttempts is the number of login attempts before the session terminates.
const DefaultMaxAttempts = 3

// ErrTooManyAttempts is returned once all login attempts are used up.
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// State is the state of the login controller.
type State int

const (
	AwaitingCredentials State = iota
	Authenticated
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingCredentials:
		return "awaiting credentials"
	case Authenticated:
		return "authenticated"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is bound to the user that logged in.
type Session struct {
	User models.User
}

// IsAdmin reports whether the session user has the admin role.
func (s *Session) IsAdmin() bool {
	return s.User.IsAdmin()
}

// Username returns the session user's name.
func (s *Session) Username() string {
	return s.User.Username
}

// Controller prompts for credentials until a user authenticates or the attempts run out.
type Controller struct {
	console     *console.Console
	maxAttempts int
	attempts    int
	state       State
}

// NewController creates a login controller. A non-positive maxAttempts uses DefaultMaxAttempts.
func NewController(c *console.Console, maxAttempts int) *Controller {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Controller{
		console:     c,
		maxAttempts: maxAttempts,
		attempts:    maxAttempts,
		state:       AwaitingCredentials,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// AttemptsLeft returns the remaining login attempts.
func (c *Controller) AttemptsLeft() int {
	return c.attempts
}

// Login runs the login prompts against creds. It returns ErrTooManyAttempts
// after the last failed attempt and io.EOF when input ends.
func (c *Controller) Login(creds *models.Credentials) (*Session, error) {
	if c.state != AwaitingCredentials {
		return nil, fmt.Errorf("login not possible in state %s", c.state)
	}

	c.console.Title("———— Welcome! Please Login ————")
	for c.attempts > 0 {
		username, err := c.console.Ask("Please Enter Your Username: ")
		if err != nil {
			c.state = Terminated
			return nil, err
		}
		password, err := c.console.Ask("Please Enter Your Password: ")
		if err != nil {
			c.state = Terminated
			return nil, err
		}

		if user, ok := creds.Authenticate(username, password); ok {
			c.state = Authenticated
			c.console.Success("Successful login!...")
			log.Info("user logged in", "username", user.Username, "role", user.Role)
			return &Session{User: user}, nil
		}

		c.attempts--
		log.Warn("failed login attempt", "username", username, "attempts_left", c.attempts)
		if c.attempts > 0 {
			c.console.Error(fmt.Sprintf("Incorrect, you have %d attempts left...", c.attempts))
		}
	}

	c.state = Terminated
	c.console.Error("Sorry you tried too many times... Please contact your system admin")
	return nil, ErrTooManyAttempts
}
