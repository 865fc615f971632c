package flatstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/models"
	"github.com/jon4hz/taskman/internal/store"
)

// LoadCredentials reads a credential file with one "username, password" record per line.
// The admin role is bootstrapped for adminUsername since the file carries no roles.
func LoadCredentials(path, adminUsername string) (*models.Credentials, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrMissingFile, path)
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	users := make([]models.User, 0)
	for n, line := range splitLines(data) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		user, err := DecodeCredential(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", store.ErrCorruptRecord, path, n+1, err)
		}
		user.Role = models.RoleFor(user.Username, adminUsername)
		users = append(users, user)
	}

	creds := models.NewCredentials(users...)
	if creds.Len() != len(users) {
		log.Warn("credential file contains duplicate usernames, the last entry wins", "path", path)
	}
	log.Debug("loaded credentials", "path", path, "users", creds.Len())
	return creds, nil
}

// AppendCredential appends one record to the credential file.
func AppendCredential(path string, user models.User) error {
	line, err := EncodeCredential(user)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to open credentials: %w", err)
	}
	defer f.Close() //nolint:errcheck

	needsNewline, err := endsWithoutNewline(f)
	if err != nil {
		return fmt.Errorf("failed to inspect credentials: %w", err)
	}
	if needsNewline {
		line = "\n" + line
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append credential: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close credentials: %w", err)
	}
	log.Debug("appended credential", "path", path, "username", user.Username)
	return nil
}

// DecodeCredential parses one credential record.
func DecodeCredential(line string) (models.User, error) {
	fields := strings.Split(line, models.FieldSeparator)
	if len(fields) != 2 {
		return models.User{}, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	if fields[0] == "" || fields[1] == "" {
		return models.User{}, fmt.Errorf("username and password must not be empty")
	}
	return models.User{Username: fields[0], Password: fields[1]}, nil
}

// EncodeCredential formats one credential record without the line break.
func EncodeCredential(user models.User) (string, error) {
	if err := models.ValidateUsername(user.Username); err != nil {
		return "", err
	}
	if user.Password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	if err := models.CheckText(user.Password); err != nil {
		return "", err
	}
	return user.Username + models.FieldSeparator + user.Password, nil
}

func endsWithoutNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return false, err
	}
	return last[0] != '\n', nil
}

func splitLines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
