// Package styles provides shared lipgloss v2 styles for the editor and the
// CLI report output.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	DividerStyle lipgloss.Style

	// Plain text styles.
	TextMutedStyle       lipgloss.Style
	TextPrimaryStyle     lipgloss.Style
	TextPrimaryBoldStyle lipgloss.Style
	TextWarningStyle     lipgloss.Style
	TextErrorStyle       lipgloss.Style
	HelpSectionStyle     lipgloss.Style

	// Editor text styles.
	TextStyle      lipgloss.Style
	MarkStyle      lipgloss.Style
	MarkFocusStyle lipgloss.Style
	DeletionStyle  lipgloss.Style
	InsertionStyle lipgloss.Style
	SelectionStyle lipgloss.Style
	CursorStyle    lipgloss.Style
	GutterStyle    lipgloss.Style

	// Margin card styles.
	CardStyle         lipgloss.Style
	CardActiveStyle   lipgloss.Style
	CardFocusedStyle  lipgloss.Style
	CardCategoryStyle lipgloss.Style
	CardReasonStyle   lipgloss.Style
	CardActionStyle   lipgloss.Style

	// Overlay styles.
	ModalStyle       lipgloss.Style
	ModalTitleStyle  lipgloss.Style
	ModalHelpStyle   lipgloss.Style
	StatusBarStyle   lipgloss.Style
	StatusKeyStyle   lipgloss.Style
	StatusValueStyle lipgloss.Style

	// Toast styles.
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Accent
	ColorSecondary = p.Info
	ColorForeground = p.Text
	ColorMuted = p.Dim
	ColorBackground = p.Base
	ColorSurface = p.Panel
	ColorSuccess = p.Insert
	ColorWarning = p.Mark
	ColorError = p.Delete

	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextPrimaryStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	TextPrimaryBoldStyle = TextPrimaryStyle.Bold(true)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	HelpSectionStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	TextStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	MarkStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(p.MarkBackground()).
		Underline(true).
		UnderlineColor(ColorWarning)
	MarkFocusStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorWarning)
	DeletionStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Strikethrough(true)
	InsertionStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Underline(true)
	SelectionStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground)
	CursorStyle = lipgloss.NewStyle().Reverse(true)
	GutterStyle = lipgloss.NewStyle().Foreground(ColorSurface)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	CardActiveStyle = CardStyle.
		BorderForeground(ColorPrimary).
		Border(lipgloss.ThickBorder())
	CardFocusedStyle = CardStyle.
		BorderForeground(ColorSecondary)
	CardCategoryStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CardReasonStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CardActionStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Background(ColorBackground)
	StatusKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	StatusValueStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(ColorForeground)
	ToastInfoStyle = toastBase.BorderForeground(ColorPrimary)
	ToastWarningStyle = toastBase.BorderForeground(ColorWarning)
	ToastErrorStyle = toastBase.BorderForeground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
