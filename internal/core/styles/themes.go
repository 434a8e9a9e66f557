package styles

import (
	"image/color"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a named editor theme. Text and Base are the page, Mark is the
// suggestion highlight, and Insert/Delete color the two sides of a diff.
type Palette struct {
	Dark bool

	Text   color.Color
	Dim    color.Color
	Base   color.Color
	Panel  color.Color
	Accent color.Color
	Info   color.Color
	Mark   color.Color
	Insert color.Color
	Delete color.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// markTint is how much of the mark color bleeds into the page background
// behind a highlighted span.
const markTint = 0.22

var themes = map[string]Palette{
	"tokyo-night": {
		Dark:   true,
		Text:   lipgloss.Color("#c0caf5"),
		Dim:    lipgloss.Color("#565f89"),
		Base:   lipgloss.Color("#1a1b26"),
		Panel:  lipgloss.Color("#3b4261"),
		Accent: lipgloss.Color("#7aa2f7"),
		Info:   lipgloss.Color("#7dcfff"),
		Mark:   lipgloss.Color("#e0af68"),
		Insert: lipgloss.Color("#9ece6a"),
		Delete: lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Dark:   true,
		Text:   lipgloss.Color("#ebdbb2"),
		Dim:    lipgloss.Color("#928374"),
		Base:   lipgloss.Color("#282828"),
		Panel:  lipgloss.Color("#504945"),
		Accent: lipgloss.Color("#83a598"),
		Info:   lipgloss.Color("#8ec07c"),
		Mark:   lipgloss.Color("#fabd2f"),
		Insert: lipgloss.Color("#b8bb26"),
		Delete: lipgloss.Color("#fb4934"),
	},
	"catppuccin": {
		Dark:   true,
		Text:   lipgloss.Color("#cdd6f4"), // text
		Dim:    lipgloss.Color("#7f849c"), // overlay1
		Base:   lipgloss.Color("#1e1e2e"), // base
		Panel:  lipgloss.Color("#45475a"), // surface1
		Accent: lipgloss.Color("#cba6f7"), // mauve
		Info:   lipgloss.Color("#89dceb"), // sky
		Mark:   lipgloss.Color("#f9e2af"), // yellow
		Insert: lipgloss.Color("#a6e3a1"), // green
		Delete: lipgloss.Color("#f38ba8"), // red
	},
	"paper": {
		Text:   lipgloss.Color("#3c3836"),
		Dim:    lipgloss.Color("#8c8174"),
		Base:   lipgloss.Color("#fbf7ef"),
		Panel:  lipgloss.Color("#e6dccb"),
		Accent: lipgloss.Color("#355c7d"),
		Info:   lipgloss.Color("#4f7f6b"),
		Mark:   lipgloss.Color("#c98a1b"),
		Insert: lipgloss.Color("#3f7d20"),
		Delete: lipgloss.Color("#b3261e"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// MarkBackground blends the mark color into the page so highlighted spans
// stay readable on both dark and light themes.
func (p Palette) MarkBackground() color.Color {
	mark, ok1 := colorful.MakeColor(p.Mark)
	base, ok2 := colorful.MakeColor(p.Base)
	if !ok1 || !ok2 {
		return p.Panel
	}
	return lipgloss.Color(base.BlendLab(mark, markTint).Clamped().Hex())
}

func hex(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	s := cc.Hex()
	return &s
}

// GlamourStyle returns a Glamour style for the analyze report. Struck text
// and strong text take the diff colors so a report reads like the editor.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	if !CurrentPalette.Dark {
		cfg = glamourstyles.LightStyleConfig
	}

	text := hex(ColorForeground)
	accent := hex(ColorPrimary)

	cfg.Document.Color = text
	cfg.Paragraph.Color = text

	cfg.Heading.Color = accent
	cfg.H1.Color = text
	cfg.H1.BackgroundColor = hex(ColorSurface)
	cfg.H2.Color = accent

	cfg.BlockQuote.Color = hex(ColorMuted)
	cfg.Emph.Color = hex(ColorMuted)
	cfg.Strikethrough.Color = hex(ColorError)
	cfg.Strong.Color = hex(ColorSuccess)
	cfg.Code.Color = hex(ColorSecondary)

	return cfg
}
