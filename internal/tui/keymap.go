package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/scribe/internal/tui/components"
)

// KeyMap holds every binding the editor responds to. Text and card focus
// share the global bindings; the rest only apply in their own focus.
type KeyMap struct {
	// Global
	Quit          key.Binding
	Analyze       key.Binding
	Sidebar       key.Binding
	Instruct      key.Binding
	Help          key.Binding
	Notifications key.Binding

	// Text focus
	FocusCards  key.Binding
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	Home        key.Binding
	End         key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	SelectLeft  key.Binding
	SelectRight key.Binding
	SelectUp    key.Binding
	SelectDown  key.Binding
	SelectHome  key.Binding
	SelectEnd   key.Binding
	Newline     key.Binding
	Backspace   key.Binding
	Delete      key.Binding
	Cancel      key.Binding

	// Card focus
	NextCard  key.Binding
	PrevCard  key.Binding
	Review    key.Binding
	Accept    key.Binding
	Reject    key.Binding
	Collapse  key.Binding
	FocusText key.Binding
	CardHelp  key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Analyze:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "analyze document")),
		Sidebar:       key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "toggle card column")),
		Instruct:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "rewrite selection")),
		Help:          key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Notifications: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "notification history")),

		FocusCards:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus cards")),
		Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "move")),
		Right:       key.NewBinding(key.WithKeys("right")),
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "move by row")),
		Down:        key.NewBinding(key.WithKeys("down")),
		Home:        key.NewBinding(key.WithKeys("home"), key.WithHelp("home/end", "row start/end")),
		End:         key.NewBinding(key.WithKeys("end")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "page")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown")),
		SelectLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+arrows", "select")),
		SelectRight: key.NewBinding(key.WithKeys("shift+right")),
		SelectUp:    key.NewBinding(key.WithKeys("shift+up")),
		SelectDown:  key.NewBinding(key.WithKeys("shift+down")),
		SelectHome:  key.NewBinding(key.WithKeys("shift+home")),
		SelectEnd:   key.NewBinding(key.WithKeys("shift+end")),
		Newline:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "split paragraph")),
		Backspace:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete left")),
		Delete:      key.NewBinding(key.WithKeys("delete"), key.WithHelp("delete", "delete right")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),

		NextCard:  key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "next/previous card")),
		PrevCard:  key.NewBinding(key.WithKeys("k", "up")),
		Review:    key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "review as diff")),
		Accept:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept open diff")),
		Reject:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject open diff")),
		Collapse:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "collapse diff")),
		FocusText: key.NewBinding(key.WithKeys("tab", "i"), key.WithHelp("tab/i", "back to text")),
		CardHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// HelpSections groups the documented bindings for the help dialog.
func (k KeyMap) HelpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{
			Title: "Editing",
			Bindings: []key.Binding{
				k.Left, k.Up, k.Home, k.PageUp, k.SelectLeft,
				k.Newline, k.Backspace, k.Delete, k.Cancel,
			},
		},
		{
			Title: "Suggestions",
			Bindings: []key.Binding{
				k.Analyze, k.FocusCards, k.NextCard, k.Review,
				k.Accept, k.Reject, k.Collapse, k.FocusText,
			},
		},
		{
			Title: "General",
			Bindings: []key.Binding{
				k.Instruct, k.Sidebar, k.Notifications, k.Help, k.CardHelp, k.Quit,
			},
		},
	}
}
