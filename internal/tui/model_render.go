package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/colonyops/scribe/internal/core/layout"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/tui/cards"
)

// View renders the editor, the card column and any overlay.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	mainView := m.renderMain(w)

	content := mainView
	switch m.state {
	case stateInstruction:
		l := m.editor.Layout()
		if row, col, ok := m.sel.MenuAnchor(l, m.scroll, m.editorHeight(), menuHeight); ok {
			content = m.menu.Overlay(mainView, row, col, m.textWidth())
		}
	case stateShowingHelp:
		if m.helpDialog != nil {
			content = m.helpDialog.Overlay(mainView, w, h)
		}
	case stateShowingNotifications:
		if m.notificationModal != nil {
			content = m.notificationModal.Overlay(mainView, w, h)
		}
	}

	content = m.toastView.Overlay(content, w, h)

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (m Model) renderMain(width int) string {
	pane := m.renderText()

	if m.sidebarVisible() {
		h := m.editorHeight()
		gutter := styles.GutterStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", h), "\n"))

		opts := cards.Options{
			Width:   m.cardWidth,
			Height:  h,
			Scroll:  m.scroll,
			Open:    -1,
			Focused: -1,
		}
		if id, ok := m.editor.Open(); ok {
			opts.Open = id
		}
		if id, ok := m.focusedSuggestion(); ok {
			opts.Focused = id
		}

		column := cards.Render(m.editor.Cards(), opts)
		pane = lipgloss.JoinHorizontal(lipgloss.Top, pane, gutter, column)
	}

	return lipgloss.JoinVertical(lipgloss.Left, pane, m.renderStatusBar(width))
}

// renderText draws the visible rows of the text column, each padded to the
// column width.
func (m Model) renderText() string {
	l := m.editor.Layout()
	tw := m.textWidth()
	h := m.editorHeight()

	curRow, curCol := l.CursorRowCol(m.cursor)
	showCursor := m.focus == FocusText && m.state == stateNormal

	var selFrom, selTo layoutCell
	if m.sel.Active() {
		from, to := m.sel.Range()
		selFrom.row, selFrom.col = l.CursorRowCol(from)
		selTo.row, selTo.col = l.CursorRowCol(to)
	}

	focusID, hasFocus := m.focusedSuggestion()

	rows := make([]string, h)
	for i := range rows {
		r := m.scroll + i
		if r >= l.Rows() {
			rows[i] = strings.Repeat(" ", tw)
			continue
		}

		opts := lineOptions{
			width:     tw,
			tab:       l.TabWidth,
			cursorCol: -1,
			focusID:   -1,
		}
		if showCursor && r == curRow {
			opts.cursorCol = curCol
		}
		if hasFocus {
			opts.focusID = focusID
		}
		if m.sel.Active() && r >= selFrom.row && r <= selTo.row {
			opts.selFrom, opts.selTo = 0, tw+1
			if r == selFrom.row {
				opts.selFrom = selFrom.col
			}
			if r == selTo.row {
				opts.selTo = selTo.col
			}
		}

		rows[i] = renderLine(l.Lines[r], opts)
	}

	return strings.Join(rows, "\n")
}

type layoutCell struct {
	row, col int
}

type lineOptions struct {
	width     int
	tab       int
	cursorCol int // -1 hides the cursor
	selFrom   int // selected columns [selFrom, selTo)
	selTo     int
	focusID   int // suggestion drawn with the focus style, -1 for none
}

// cellStyle identifies the look of one cell so runs of equal cells can be
// rendered together.
type cellStyle int

const (
	cellText cellStyle = iota
	cellMark
	cellMarkFocus
	cellDeletion
	cellInsertion
	cellSelection
	cellCursor
)

func (c cellStyle) style() lipgloss.Style {
	switch c {
	case cellMark:
		return styles.MarkStyle
	case cellMarkFocus:
		return styles.MarkFocusStyle
	case cellDeletion:
		return styles.DeletionStyle
	case cellInsertion:
		return styles.InsertionStyle
	case cellSelection:
		return styles.SelectionStyle
	case cellCursor:
		return styles.CursorStyle
	default:
		return styles.TextStyle
	}
}

// renderLine styles one wrapped row. Tabs expand to spaces and the row is
// cut or padded to exactly opts.width cells.
func renderLine(line layout.Line, opts lineOptions) string {
	var (
		sb      strings.Builder
		run     strings.Builder
		current cellStyle
		col     int
	)

	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(current.style().Render(run.String()))
			run.Reset()
		}
	}
	put := func(s string, c cellStyle, w int) {
		if c != current {
			flush()
			current = c
		}
		run.WriteString(s)
		col += w
	}

	// A wide rune that does not fit ends the row, so later narrow runes
	// never fill the cell it left behind.
draw:
	for _, seg := range line.Segments {
		base := segmentStyle(seg, opts.focusID)
		for _, r := range seg.Text {
			text, w := string(r), runewidth.RuneWidth(r)
			if r == '\t' {
				text, w = strings.Repeat(" ", opts.tab), opts.tab
			}
			if col+w > opts.width {
				break draw
			}

			c := base
			if col >= opts.selFrom && col < opts.selTo {
				c = cellSelection
			}
			if col == opts.cursorCol {
				c = cellCursor
			}
			put(text, c, w)
		}
	}

	if opts.cursorCol >= col && col < opts.width {
		put(" ", cellCursor, 1)
	}
	flush()

	if col < opts.width {
		sb.WriteString(strings.Repeat(" ", opts.width-col))
	}
	return sb.String()
}

func segmentStyle(seg layout.Segment, focusID int) cellStyle {
	switch seg.Style {
	case layout.StyleMark:
		if seg.SuggestionID == focusID {
			return cellMarkFocus
		}
		return cellMark
	case layout.StyleDeletion:
		return cellDeletion
	case layout.StyleInsertion:
		return cellInsertion
	default:
		return cellText
	}
}

func (m Model) renderStatusBar(width int) string {
	name := m.path
	if name == "" {
		name = "[scratch]"
	}

	parts := []string{styles.StatusKeyStyle.Render(name)}

	active := len(m.editor.Active())
	parts = append(parts, styles.StatusValueStyle.Render(
		fmt.Sprintf("%s %d suggestions", styles.IconSuggestion, active)))

	if missing := len(m.editor.Missing()); missing > 0 {
		parts = append(parts, styles.TextWarningStyle.Render(
			fmt.Sprintf("%s %d not found", styles.IconMissing, missing)))
	}
	if id, ok := m.editor.Open(); ok {
		parts = append(parts, styles.TextPrimaryStyle.Render(
			fmt.Sprintf("%s reviewing #%d", styles.IconReview, id+1)))
	}
	switch {
	case m.analyzing:
		parts = append(parts, m.spinner.View()+" analyzing")
	case m.rewriting:
		parts = append(parts, m.spinner.View()+" rewriting")
	}
	if m.focus == FocusCards {
		parts = append(parts, styles.TextPrimaryBoldStyle.Render("CARDS"))
	}

	left := " " + strings.Join(parts, styles.TextMutedStyle.Render(" · "))
	right := styles.TextMutedStyle.Render("f1 help ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.StatusBarStyle.Render(ansi.Truncate(left, width, "…"))
	}
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}
