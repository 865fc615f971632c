package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsQuit(t *testing.T) {
	for _, in := range []string{"q", "Q", "-1", " q ", "Q\t"} {
		assert.True(t, IsQuit(in), in)
	}
	for _, in := range []string{"", "quit", "qq", "1", "-2"} {
		assert.False(t, IsQuit(in), in)
	}
}

func TestConsole_Ask(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("alice\r\nsecret\n"), &out)

	name, err := c.Ask("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	pass, err := c.Ask("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", pass)

	_, err = c.Ask("More: ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Contains(t, out.String(), "Username: ")
	assert.Contains(t, out.String(), "Password: ")
}

func TestConsole_AskLongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	c := New(strings.NewReader(long+"\nnext"), io.Discard)

	got, err := c.Ask(": ")
	require.NoError(t, err)
	assert.Len(t, got, len(long))

	got, err = c.Ask(": ")
	require.NoError(t, err)
	assert.Equal(t, "next", got, "a final line without a line break is still returned")

	_, err = c.Ask(": ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsole_AskOrQuit(t *testing.T) {
	c := New(strings.NewReader("bob\n-1\nQ\n"), io.Discard)

	v, err := c.AskOrQuit("> ")
	require.NoError(t, err)
	assert.Equal(t, "bob", v)

	_, err = c.AskOrQuit("> ")
	assert.ErrorIs(t, err, ErrQuit)

	_, err = c.AskOrQuit("> ")
	assert.ErrorIs(t, err, ErrQuit)
}

func TestConsole_Output(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	c.Title("MAIN MENU")
	c.Error("something failed")
	c.Success("done")
	c.Printf("%d tasks\n", 3)

	s := out.String()
	assert.Contains(t, s, "MAIN MENU")
	assert.Contains(t, s, "something failed")
	assert.Contains(t, s, "done")
	assert.Contains(t, s, "3 tasks")
}

func TestConsole_Wrap(t *testing.T) {
	c := New(strings.NewReader(""), io.Discard)
	text := strings.Repeat("word ", 40)
	wrapped := c.Wrap(strings.TrimSpace(text), 30, 4)

	lines := strings.Split(wrapped, "\n")
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, len(strings.TrimRight(l, " ")), 30)
		assert.True(t, strings.HasPrefix(l, "    "))
	}
}
