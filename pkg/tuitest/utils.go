// Package tuitest builds Bubble Tea messages for model tests.
package tuitest

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace so rendered
// views can be compared as plain text.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Type returns one key press per rune of s, each carrying the rune as
// typed text.
func Type(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyPressMsg(tea.Key{Code: r, Text: string(r)}))
	}
	return msgs
}

// Key creates a key press for a special key such as tea.KeyEnter.
func Key(code rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// Ctrl creates a ctrl+<r> key press.
func Ctrl(r rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: r, Mod: tea.ModCtrl})
}

// Shift creates a shift+<code> key press for a special key.
func Shift(code rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: code, Mod: tea.ModShift})
}

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
