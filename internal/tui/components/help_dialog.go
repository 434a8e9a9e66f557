// Package components provides reusable TUI components.
package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/scribe/internal/core/styles"
)

// HelpDialogSection groups related bindings under a title.
type HelpDialogSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpDialog displays the keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
}

// NewHelpDialog creates a help dialog with the given sections.
func NewHelpDialog(title string, sections []HelpDialogSection) *HelpDialog {
	return &HelpDialog{
		title:    title,
		sections: sections,
	}
}

// View renders the help dialog. Bindings without help text are left out.
func (h *HelpDialog) View() string {
	title := styles.ModalTitleStyle.Render(h.title)
	separator := styles.TextMutedStyle.Render(strings.Repeat("─", 25))

	var lines []string
	for i, section := range h.sections {
		if section.Title != "" {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styles.HelpSectionStyle.Render(section.Title), separator)
		}

		for _, b := range section.Bindings {
			help := b.Help()
			if !b.Enabled() || help.Key == "" {
				continue
			}
			lines = append(lines, formatKeyDesc(help.Key, help.Desc))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(lines, "\n"),
		styles.ModalHelpStyle.Render("esc close"),
	)

	return styles.ModalStyle.Render(content)
}

// Overlay renders the help dialog centered over background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	modal := h.View()

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	centerX := max((width-lipgloss.Width(modal))/2, 0)
	centerY := max((height-lipgloss.Height(modal))/2, 0)
	modalLayer.X(centerX).Y(centerY).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}

// formatKeyDesc aligns a key and its description.
func formatKeyDesc(k, desc string) string {
	const keyWidth = 14

	pad := max(keyWidth-lipgloss.Width(k), 1)
	return styles.TextPrimaryBoldStyle.Render(k+strings.Repeat(" ", pad)) + styles.TextStyle.Render(desc)
}
