// Package cards renders the margin column of suggestion cards beside the
// editor text.
package cards

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/scribe/internal/core/layout"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/core/suggest"
)

const (
	// chrome is the border plus horizontal padding of a card.
	chrome        = 4
	reasoningRows = 2
	previewRows   = 3
)

// Kind selects how a card is drawn.
type Kind int

const (
	KindIdle    Kind = iota // highlighted suggestion
	KindFocused             // keyboard focus, diff not shown
	KindActive              // diff open: elevated with accept and reject
)

// Options describes the visible window of the column.
type Options struct {
	Width   int // column width in cells
	Height  int // visible rows
	Scroll  int // first visible layout row
	Open    int // suggestion with an open diff, -1 for none
	Focused int // suggestion with keyboard focus, -1 for none
}

// Render draws one card per position at its vertical offset, shifted by
// the scroll. Cards sharing an offset are stacked in suggestion order with
// the later index on top; the active card is raised above all others. The
// result is exactly Height rows of at most Width cells.
func Render(positions []layout.CardPosition, opts Options) string {
	if opts.Width <= chrome || opts.Height <= 0 {
		return ""
	}

	canvas := blank(opts.Width, opts.Height)
	layers := []*lipgloss.Layer{lipgloss.NewLayer(canvas)}

	for _, p := range positions {
		kind := KindIdle
		z := 1 + p.SuggestionIndex
		switch p.SuggestionIndex {
		case opts.Open:
			kind = KindActive
			z = 1 + len(positions) + p.SuggestionIndex
		case opts.Focused:
			kind = KindFocused
		}

		card := Card(p.Suggestion, kind, opts.Width)
		y := p.VerticalOffset - opts.Scroll
		card, y, ok := clip(card, y, opts.Height)
		if !ok {
			continue
		}

		layers = append(layers, lipgloss.NewLayer(card).X(0).Y(y).Z(z))
	}

	if len(layers) == 1 {
		return canvas
	}
	return lipgloss.NewCompositor(layers...).Render()
}

// Card renders a single card width cells wide.
func Card(s suggest.Suggestion, kind Kind, width int) string {
	inner := max(width-chrome, 1)

	header := styles.CardCategoryStyle.Render(
		ansi.Truncate(styles.IconForCategory(string(s.Category))+" "+string(s.Category), inner, "…"),
	)

	lines := []string{header}
	for _, l := range wrapLines(s.Reasoning, inner, reasoningRows) {
		lines = append(lines, styles.CardReasonStyle.Render(l))
	}

	style := styles.CardStyle
	switch kind {
	case KindActive:
		style = styles.CardActiveStyle
		lines = append(lines, "")
		for _, l := range wrapLines(s.OriginalText, inner, previewRows) {
			lines = append(lines, styles.DeletionStyle.Render(l))
		}
		for _, l := range wrapLines(s.ReplacementText, inner, previewRows) {
			lines = append(lines, styles.InsertionStyle.Render(l))
		}
		lines = append(lines, "",
			styles.CardActionStyle.Render(styles.IconAccept+" a accept")+" "+
				styles.CardActionStyle.Render(styles.IconReject+" x reject"))
	case KindFocused:
		style = styles.CardFocusedStyle
		lines = append(lines, styles.CardReasonStyle.Render(styles.IconReview+" enter review"))
	}

	for i, l := range lines {
		lines[i] = pad(ansi.Truncate(l, inner, ""), inner)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// wrapLines word-wraps s to width and keeps at most limit rows, marking a
// cut with an ellipsis.
func wrapLines(s string, width, limit int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	lines := strings.Split(ansi.Wrap(s, width, " "), "\n")
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[limit-1]
		lines[limit-1] = ansi.Truncate(last, max(width-1, 0), "") + "…"
	}
	return lines
}

// clip trims card rows that fall outside [0, height) and returns the new
// top row.
func clip(card string, y, height int) (string, int, bool) {
	rows := strings.Split(card, "\n")
	if y+len(rows) <= 0 || y >= height {
		return "", 0, false
	}
	if y < 0 {
		rows = rows[-y:]
		y = 0
	}
	if y+len(rows) > height {
		rows = rows[:height-y]
	}
	return strings.Join(rows, "\n"), y, true
}

func blank(width, height int) string {
	row := strings.Repeat(" ", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
