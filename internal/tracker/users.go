package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/console"
	"github.com/jon4hz/taskman/internal/models"
)

// RegisterUser prompts for a new username and password and appends the user to the credential store.
func (t *Tracker) RegisterUser(ctx context.Context) error {
	t.console.Title("———— Register a User ————")

	username, err := t.askNewUsername()
	if err != nil {
		return t.quit(err)
	}
	password, err := t.askNewPassword()
	if err != nil {
		if errors.Is(err, errRegistrationCancelled) {
			t.console.Println("No user has been registered... Returning to Main Menu")
			return nil
		}
		return t.quit(err)
	}

	user := models.User{Username: username, Password: password, Role: models.RoleUser}
	if err := t.store.AppendCredential(ctx, user); err != nil {
		log.Error("failed to append credential", "username", username, "error", err)
		return fmt.Errorf("failed to register user: %w", err)
	}
	log.Info("user registered", "username", username)

	creds, err := t.store.LoadCredentials(ctx)
	if err != nil {
		log.Error("failed to reload credentials", "error", err)
		// Keep the new user usable for the rest of the session.
		if addErr := t.creds.Add(user); addErr != nil {
			log.Debug("failed to add user to session credentials", "username", username, "error", addErr)
		}
		return fmt.Errorf("the user was saved but the credentials could not be reloaded: %w", err)
	}
	t.creds = creds

	t.console.Println()
	t.console.Success("New user successfully added!")
	return nil
}

var errRegistrationCancelled = errors.New("registration cancelled")

func (t *Tracker) askNewUsername() (string, error) {
	for {
		username, err := t.console.AskOrQuit("Please enter username (or type q to go back to Main Menu): ")
		if err != nil {
			return "", err
		}
		if err := models.ValidateUsername(username); err != nil {
			t.console.Error(fmt.Sprintf("Sorry the %s... Please try another", err))
			continue
		}
		if t.creds.Exists(username) {
			t.console.Error("Sorry the Username is already registered... Please try another")
			continue
		}
		return username, nil
	}
}

func (t *Tracker) askNewPassword() (string, error) {
	for {
		password, err := t.console.AskOrQuit("Please enter password (or type q to return to Main Menu): ")
		if err != nil {
			return "", err
		}
		if password == "" {
			t.console.Error("Sorry the password must not be empty... Please try again")
			continue
		}
		if err := models.CheckText(password); err != nil {
			t.console.Error(fmt.Sprintf("Sorry the %s... Please try again", err))
			continue
		}

		again, err := t.console.AskOrQuit("Please type your password in again (or type q to return to Main Menu): ")
		if err != nil {
			if errors.Is(err, console.ErrQuit) {
				return "", errRegistrationCancelled
			}
			return "", err
		}
		if err := matchPasswords(password, again); err != nil {
			t.console.Error("Sorry the password does not match... Please try again")
			continue
		}
		return password, nil
	}
}

func matchPasswords(password, again string) error {
	if password != again {
		return ErrPasswordMismatch
	}
	return nil
}
