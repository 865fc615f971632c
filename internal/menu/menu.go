// Package menu dispatches single-key commands typed at the main menu.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/taskman/internal/console"
)

// ExitKey ends the menu loop.
const ExitKey = "e"

// ErrDuplicateKey is returned when a command key is registered twice.
var ErrDuplicateKey = errors.New("duplicate menu key")

// Command is one entry of the menu.
type Command struct {
	Key       string
	Label     string
	AdminOnly bool
	Run       func(ctx context.Context) error
}

// Menu holds the command table.
type Menu struct {
	console  *console.Console
	commands []Command
	index    map[string]int
}

// New creates a menu. The exit entry is always present.
func New(c *console.Console) *Menu {
	m := &Menu{
		console: c,
		index:   make(map[string]int),
	}
	m.commands = append(m.commands, Command{Key: ExitKey, Label: "Exit"})
	m.index[ExitKey] = 0
	return m
}

// Register adds commands to the table. Keys are case-insensitive and must be unique.
func (m *Menu) Register(cmds ...Command) error {
	for _, cmd := range cmds {
		cmd.Key = normalize(cmd.Key)
		if cmd.Key == "" {
			return fmt.Errorf("menu command %q has no key", cmd.Label)
		}
		if _, ok := m.index[cmd.Key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, cmd.Key)
		}
		if cmd.Run == nil {
			return fmt.Errorf("menu command %q has no action", cmd.Key)
		}
		m.index[cmd.Key] = len(m.commands)
		m.commands = append(m.commands, cmd)
	}
	return nil
}

// Commands returns the entries visible to a user, standard entries first
// with exit last among them, admin entries after.
func (m *Menu) Commands(admin bool) []Command {
	var standard, privileged []Command
	for _, cmd := range m.commands[1:] {
		switch {
		case !cmd.AdminOnly:
			standard = append(standard, cmd)
		case admin:
			privileged = append(privileged, cmd)
		}
	}
	standard = append(standard, m.commands[0])
	return append(standard, privileged...)
}

// Lookup returns the command for key if it is visible to the user.
func (m *Menu) Lookup(key string, admin bool) (Command, bool) {
	i, ok := m.index[normalize(key)]
	if !ok {
		return Command{}, false
	}
	cmd := m.commands[i]
	if cmd.AdminOnly && !admin {
		return Command{}, false
	}
	return cmd, true
}

// Loop prompts for one command per iteration until the exit key is typed,
// the input ends or ctx is cancelled. Command errors are printed and the loop continues.
func (m *Menu) Loop(ctx context.Context, admin bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.render(admin)
		input, err := m.console.Ask(": ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		cmd, ok := m.Lookup(input, admin)
		if !ok {
			log.Debug("unknown menu selection", "input", input, "admin", admin)
			m.console.Error("You've entered something incorrectly... Please try again")
			continue
		}
		if cmd.Key == ExitKey {
			m.console.Println("Goodbye!!!")
			return nil
		}

		if err := cmd.Run(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Error("menu command failed", "key", cmd.Key, "error", err)
			m.console.Error(err.Error())
		}
	}
}

func (m *Menu) render(admin bool) {
	m.console.Println()
	m.console.Subtitle("———— ■ MAIN MENU ■ ————")
	m.console.Title("Select one of the following options below")
	adminHeader := false
	for _, cmd := range m.Commands(admin) {
		if cmd.AdminOnly && !adminHeader {
			m.console.Title("———— Admin Options ————")
			adminHeader = true
		}
		m.console.Printf("► %s - %s\n", cmd.Key, cmd.Label)
	}
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
