// Package console handles line based prompts and styled output for the
// interactive session.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrQuit is returned when the operator types a quit token at a prompt.
var ErrQuit = errors.New("quit requested")

// quitTokens are recognised by every cancellable prompt.
var quitTokens = []string{"q", "-1"}

// IsQuit reports whether input is a quit token.
func IsQuit(input string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, t := range quitTokens {
		if input == t {
			return true
		}
	}
	return false
}

// Console reads operator input line by line and writes styled output.
type Console struct {
	reader *bufio.Reader
	out    io.Writer
	styles styles
}

type styles struct {
	renderer  *lipgloss.Renderer
	title     lipgloss.Style
	subtitle  lipgloss.Style
	errorMsg  lipgloss.Style
	success   lipgloss.Style
	highlight lipgloss.Style
	greeting  lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		renderer:  r,
		title:     r.NewStyle().Bold(true),
		subtitle:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		errorMsg:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		success:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		highlight: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		greeting:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
	}
}

// New creates a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		reader: bufio.NewReader(in),
		out:    out,
		styles: newStyles(out),
	}
}

// Ask prints the prompt and returns the next input line without the line break.
// Lines have no length limit. It returns io.EOF once the input is exhausted.
func (c *Console) Ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			fmt.Fprintln(c.out)
			return "", io.EOF
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AskOrQuit works like Ask but returns ErrQuit for a quit token.
func (c *Console) AskOrQuit(prompt string) (string, error) {
	input, err := c.Ask(prompt)
	if err != nil {
		return "", err
	}
	if IsQuit(input) {
		return "", ErrQuit
	}
	return input, nil
}

// Println writes a line.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Title writes a bold heading.
func (c *Console) Title(s string) {
	fmt.Fprintln(c.out, c.styles.title.Render(s))
}

// Subtitle writes a highlighted heading.
func (c *Console) Subtitle(s string) {
	fmt.Fprintln(c.out, c.styles.subtitle.Render(s))
}

// Error writes an error message.
func (c *Console) Error(s string) {
	fmt.Fprintln(c.out, c.styles.errorMsg.Render(s))
}

// Success writes a confirmation message.
func (c *Console) Success(s string) {
	fmt.Fprintln(c.out, c.styles.success.Render(s))
}

// Highlight renders s highlighted without writing it.
func (c *Console) Highlight(s string) string {
	return c.styles.highlight.Render(s)
}

// Greeting writes the greeting line.
func (c *Console) Greeting(s string) {
	fmt.Fprintln(c.out, c.styles.greeting.Render(s))
	fmt.Fprintln(c.out)
}

// Wrap renders text wrapped to width and indented by indent spaces.
func (c *Console) Wrap(text string, width, indent int) string {
	return c.styles.renderer.NewStyle().Width(width).PaddingLeft(indent).Render(text)
}
