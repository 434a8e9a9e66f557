package tui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/scribe/internal/core/styles"
)

const (
	menuWidth = 44
	// menuHeight is the rendered height: border, prompt and help line.
	menuHeight = 4
)

// InstructionMenu is the floating prompt anchored to a text selection. It
// collects a free-form instruction for the rewriter.
type InstructionMenu struct {
	input textinput.Model
}

// NewInstructionMenu creates a blurred, empty menu.
func NewInstructionMenu() *InstructionMenu {
	ti := textinput.New()
	ti.Prompt = "✎ "
	ti.Placeholder = "make it more concise"
	ti.CharLimit = 200
	ti.SetWidth(menuWidth - 6)

	inputStyles := textinput.DefaultStyles(true)
	inputStyles.Focused.Prompt = styles.TextPrimaryStyle
	inputStyles.Cursor.Color = styles.ColorPrimary
	ti.SetStyles(inputStyles)

	return &InstructionMenu{input: ti}
}

// Open clears and focuses the prompt.
func (im *InstructionMenu) Open() tea.Cmd {
	im.input.Reset()
	return im.input.Focus()
}

// Close blurs the prompt.
func (im *InstructionMenu) Close() {
	im.input.Blur()
}

// Value returns the typed instruction.
func (im *InstructionMenu) Value() string {
	return im.input.Value()
}

// Update forwards input to the prompt.
func (im *InstructionMenu) Update(msg tea.Msg) (*InstructionMenu, tea.Cmd) {
	var cmd tea.Cmd
	im.input, cmd = im.input.Update(msg)
	return im, cmd
}

// View renders the menu box.
func (im *InstructionMenu) View() string {
	help := styles.TextMutedStyle.Render("enter rewrite · esc cancel")
	return styles.ModalStyle.
		Padding(0, 1).
		Width(menuWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, im.input.View(), help))
}

// Overlay draws the menu over background with its top-left cell at
// (row, col), kept inside a width-wide area.
func (im *InstructionMenu) Overlay(background string, row, col, width int) string {
	menu := im.View()
	col = max(min(col, width-lipgloss.Width(menu)), 0)

	bgLayer := lipgloss.NewLayer(background)
	menuLayer := lipgloss.NewLayer(menu).X(col).Y(max(row, 0)).Z(3)
	return lipgloss.NewCompositor(bgLayer, menuLayer).Render()
}
