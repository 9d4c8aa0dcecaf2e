package testutil

import (
	"regexp"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyPress creates a key press message for testing.
func KeyPress(key string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}

// KeyEnter creates an enter key message.
func KeyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

// KeyEsc creates an escape key message.
func KeyEsc() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEsc} }

// KeyUp creates an up arrow key message.
func KeyUp() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyUp} }

// KeyDown creates a down arrow key message.
func KeyDown() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyDown} }

// KeyLeft creates a left arrow key message.
func KeyLeft() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyLeft} }

// KeyRight creates a right arrow key message.
func KeyRight() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRight} }

// KeyCtrlC creates a ctrl+c key message.
func KeyCtrlC() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyCtrlC} }

// WindowSize creates a window size message for testing responsive layouts.
func WindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: width, Height: height}
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// Drain runs cmd the way the bubbletea runtime would and returns the
// messages it produces, flattening batches. A command that has not
// returned within wait is abandoned and contributes nothing.
func Drain(t *testing.T, cmd tea.Cmd, wait time.Duration) []tea.Msg {
	t.Helper()

	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() {
		done <- cmd()
	}()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(wait):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, Drain(t, c, wait)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// Find returns the first message of type T.
func Find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

// Count returns how many messages are of type T.
func Count[T any](msgs []tea.Msg) int {
	n := 0
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			n++
		}
	}
	return n
}
