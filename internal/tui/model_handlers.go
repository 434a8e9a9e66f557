package tui

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/scribe/internal/analysis"
	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/layout"
	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/scribe"
	"github.com/colonyops/scribe/internal/tui/components"
)

// --- Window ---

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.editor.Resize(m.textWidth())
	m.editor.ViewportResized()
	m.followCursor()
	return m, nil
}

// --- Analysis ---

func (m Model) handleAnalyzeRequest() (tea.Model, tea.Cmd) {
	if m.source == nil {
		return m, m.notifyInfo(notify.SourceAnalysis, "no analysis source configured")
	}
	return m, tea.Batch(m.startAnalysis(), m.spinner.Tick)
}

func (m Model) handleAnalysisResult(msg analysisResultMsg) (tea.Model, tea.Cmd) {
	if msg.generation == m.editor.Generation() {
		m.analyzing = false
	}

	err := m.editor.CompleteAnalysis(msg.generation, msg.suggestions, msg.err)
	switch {
	case errors.Is(err, scribe.ErrSuperseded):
		return m, nil
	case errors.Is(err, scribe.ErrAnalysisFailed):
		return m, m.notifyWarn(notify.SourceAnalysis, "analysis failed: %v", msg.err)
	case err != nil:
		m.log.Error().Err(err).Msg("apply analysis result")
		return m, m.notifyWarn(notify.SourceAnalysis, "could not apply suggestions: %v", err)
	}

	m.afterBatch()
	return m, nil
}

func (m Model) handleBatchFile(msg analysis.BatchFileMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}

	if msg.Err != nil {
		cmds = append(cmds, m.notifyWarn(notify.SourceAnalysis, "reload %s: %v", msg.Path, msg.Err))
		return m, tea.Batch(cmds...)
	}

	if err := m.editor.ApplyBatch(msg.Suggestions); err != nil {
		cmds = append(cmds, m.notifyWarn(notify.SourceAnalysis, "could not apply suggestions: %v", err))
		return m, tea.Batch(cmds...)
	}

	m.analyzing = false
	m.afterBatch()
	return m, tea.Batch(cmds...)
}

// afterBatch resets card focus for a freshly applied batch.
func (m *Model) afterBatch() {
	m.cardIdx = 0
	if len(m.editor.Cards()) == 0 && m.focus == FocusCards {
		m.focus = FocusText
	}
}

// --- Rewrite ---

func (m Model) handleRewriteResult(msg rewriteResultMsg) (tea.Model, tea.Cmd) {
	m.rewriting = false

	if msg.err != nil {
		return m, m.notifyWarn(notify.SourceRewrite, "rewrite failed: %v", msg.err)
	}
	// Opening or closing a diff bumps the document version without touching
	// the text, so staleness is judged on the text itself.
	if msg.plain != m.editor.PlainText() {
		return m, m.notifyInfo(notify.SourceRewrite, "text changed while rewriting; result discarded")
	}

	end, err := m.editor.ReplaceRange(msg.from, msg.to, msg.text)
	if err != nil {
		return m, m.notifyWarn(notify.SourceRewrite, "could not apply rewrite: %v", err)
	}

	m.sel.Clear()
	m.cursor = end
	m.followCursor()
	return m, nil
}

// --- Append sink ---

func (m Model) handleAppendText(msg AppendTextMsg) (tea.Model, tea.Cmd) {
	if _, err := m.editor.AppendText(msg.Text); err != nil {
		return m, m.notifyWarn(notify.SourceEditor, "append text: %v", err)
	}
	m.cursor = m.editor.Document().Clamp(m.cursor)
	return m, nil
}

// --- Ticks ---

func (m Model) handleToastTick(_ toastTickMsg) (tea.Model, tea.Cmd) {
	m.toasts.Tick(toastTickInterval)
	if m.toasts.HasToasts() {
		return m, scheduleToastTick()
	}
	m.toasts.SetTicking(false)
	return m, nil
}

func (m Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	if !m.analyzing && !m.rewriting {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// --- Input ---

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateInstruction:
		return m.handleInstructionKey(msg)
	case stateShowingHelp:
		return m.handleHelpDialogKey(msg)
	case stateShowingNotifications:
		return m.handleNotificationModalKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Analyze):
		return m.handleAnalyzeRequest()
	case key.Matches(msg, m.keys.Sidebar):
		return m.toggleSidebar()
	case key.Matches(msg, m.keys.Instruct):
		return m.openInstructionMenu()
	case key.Matches(msg, m.keys.Help):
		return m.showHelpDialog()
	case key.Matches(msg, m.keys.Notifications):
		return m.showNotifications()
	}

	if m.focus == FocusCards {
		return m.handleCardKey(msg)
	}
	return m.handleTextKey(msg)
}

func (m Model) handleTextKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	doc := m.editor.Document()
	l := m.editor.Layout()

	switch {
	case key.Matches(msg, m.keys.FocusCards):
		if len(m.editor.Cards()) > 0 {
			m.focus = FocusCards
			m.cardIdx = 0
			m.scrollToCard()
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.sel.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		return m.moveTo(doc.Prev(m.cursor), false), nil
	case key.Matches(msg, m.keys.Right):
		return m.moveTo(doc.Next(m.cursor), false), nil
	case key.Matches(msg, m.keys.Up):
		return m.moveTo(m.rowOffset(l, -1), false), nil
	case key.Matches(msg, m.keys.Down):
		return m.moveTo(m.rowOffset(l, 1), false), nil
	case key.Matches(msg, m.keys.PageUp):
		return m.moveTo(m.rowOffset(l, -m.editorHeight()), false), nil
	case key.Matches(msg, m.keys.PageDown):
		return m.moveTo(m.rowOffset(l, m.editorHeight()), false), nil
	case key.Matches(msg, m.keys.Home):
		return m.moveTo(m.rowEdge(l, false), false), nil
	case key.Matches(msg, m.keys.End):
		return m.moveTo(m.rowEdge(l, true), false), nil

	case key.Matches(msg, m.keys.SelectLeft):
		return m.moveTo(doc.Prev(m.cursor), true), nil
	case key.Matches(msg, m.keys.SelectRight):
		return m.moveTo(doc.Next(m.cursor), true), nil
	case key.Matches(msg, m.keys.SelectUp):
		return m.moveTo(m.rowOffset(l, -1), true), nil
	case key.Matches(msg, m.keys.SelectDown):
		return m.moveTo(m.rowOffset(l, 1), true), nil
	case key.Matches(msg, m.keys.SelectHome):
		return m.moveTo(m.rowEdge(l, false), true), nil
	case key.Matches(msg, m.keys.SelectEnd):
		return m.moveTo(m.rowEdge(l, true), true), nil

	case key.Matches(msg, m.keys.Newline):
		return m.edit(func(at document.Pos) (document.Pos, error) {
			return m.editor.SplitBlock(at)
		})
	case key.Matches(msg, m.keys.Backspace):
		if m.sel.Active() {
			return m.deleteSelection()
		}
		return m.edit(m.editor.Backspace)
	case key.Matches(msg, m.keys.Delete):
		if m.sel.Active() {
			return m.deleteSelection()
		}
		return m.edit(m.editor.Delete)
	}

	if text := typedText(msg); text != "" {
		return m.insert(text)
	}
	return m, nil
}

func (m Model) handleCardKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	cards := m.editor.Cards()
	if len(cards) == 0 {
		m.focus = FocusText
		return m, nil
	}
	m.cardIdx = min(m.cardIdx, len(cards)-1)
	id := cards[m.cardIdx].SuggestionIndex

	switch {
	case key.Matches(msg, m.keys.FocusText):
		m.focus = FocusText
	case key.Matches(msg, m.keys.CardHelp):
		return m.showHelpDialog()
	case key.Matches(msg, m.keys.NextCard):
		m.cardIdx = min(m.cardIdx+1, len(cards)-1)
		m.scrollToCard()
	case key.Matches(msg, m.keys.PrevCard):
		m.cardIdx = max(m.cardIdx-1, 0)
		m.scrollToCard()
	case key.Matches(msg, m.keys.Review):
		// A stale or missing anchor refuses the diff without a toast.
		if err := m.editor.ShowDiff(id); err != nil {
			m.log.Debug().Err(err).Int("suggestion", id).Msg("diff refused")
		}
		m.scrollToCard()
	case key.Matches(msg, m.keys.Accept):
		return m.resolveOpen(true)
	case key.Matches(msg, m.keys.Reject):
		return m.resolveOpen(false)
	case key.Matches(msg, m.keys.Collapse):
		if open, ok := m.editor.Open(); ok {
			if err := m.editor.CollapseDiff(open); err != nil {
				m.log.Debug().Err(err).Int("suggestion", open).Msg("collapse diff")
			}
			return m, nil
		}
		m.focus = FocusText
	}
	return m, nil
}

// resolveOpen accepts or rejects the open diff. Without an open diff the
// key does nothing.
func (m Model) resolveOpen(accept bool) (tea.Model, tea.Cmd) {
	id, ok := m.editor.Open()
	if !ok {
		return m, nil
	}

	ctx := context.Background()
	var err error
	if accept {
		err = m.editor.AcceptDiff(ctx, id)
	} else {
		err = m.editor.RejectDiff(ctx, id)
	}
	if err != nil {
		return m, m.notifyWarn(notify.SourceEditor, "resolve suggestion: %v", err)
	}

	m.cursor = m.editor.Document().Clamp(m.cursor)
	if cards := m.editor.Cards(); len(cards) == 0 {
		m.focus = FocusText
		m.cardIdx = 0
	} else {
		m.cardIdx = min(m.cardIdx, len(cards)-1)
	}
	return m, nil
}

func (m Model) handleInstructionKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.menu.Close()
		m.state = stateNormal
		return m, nil
	case "enter":
		return m.submitInstruction()
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) handleHelpDialogKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc", "?", "q", "f1":
		m.state = stateNormal
		m.helpDialog = nil
	}
	return m, nil
}

func (m Model) handleNotificationModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc", "q", "ctrl+n":
		m.state = stateNormal
		m.notificationModal = nil
	case "j", "down":
		m.notificationModal.ScrollDown()
	case "k", "up":
		m.notificationModal.ScrollUp()
	case "D":
		if err := m.notificationModal.Clear(); err != nil {
			return m, m.notifyWarn(notify.SourceEditor, "failed to clear notifications: %v", err)
		}
	}
	return m, nil
}

// --- Actions ---

func (m Model) toggleSidebar() (tea.Model, tea.Cmd) {
	m.sidebar = !m.sidebar
	m.editor.Resize(m.textWidth())
	m.followCursor()
	return m, nil
}

func (m Model) openInstructionMenu() (tea.Model, tea.Cmd) {
	if !m.sel.Active() {
		return m, m.notifyInfo(notify.SourceRewrite, "select text with shift+arrows first")
	}
	if m.rewriter == nil {
		return m, m.notifyInfo(notify.SourceRewrite, "no rewrite command configured")
	}
	if m.rewriting {
		return m, nil
	}

	m.state = stateInstruction
	return m, m.menu.Open()
}

func (m Model) submitInstruction() (tea.Model, tea.Cmd) {
	instruction := strings.TrimSpace(m.menu.Value())
	m.menu.Close()
	m.state = stateNormal
	if instruction == "" || !m.sel.Active() {
		return m, nil
	}

	from, to := m.sel.Range()
	original, surrounding := m.editor.RewriteInput(from, to)
	m.rewriting = true

	req := rewriteResultMsg{from: from, to: to, plain: m.editor.PlainText()}
	return m, tea.Batch(
		rewriteCmd(m.rewriter, req, original, instruction, surrounding, m.timeout),
		m.spinner.Tick,
	)
}

func (m Model) showHelpDialog() (tea.Model, tea.Cmd) {
	m.helpDialog = components.NewHelpDialog("Keyboard Shortcuts", m.keys.HelpSections())
	m.state = stateShowingHelp
	return m, nil
}

func (m Model) showNotifications() (tea.Model, tea.Cmd) {
	m.notificationModal = NewNotificationModal(m.notifyBus, m.width, m.height)
	m.state = stateShowingNotifications
	return m, nil
}

// --- Editing helpers ---

// edit applies fn at the cursor, replacing an active selection first.
func (m Model) edit(fn func(document.Pos) (document.Pos, error)) (tea.Model, tea.Cmd) {
	if m.sel.Active() {
		from, to := m.sel.Range()
		pos, err := m.editor.DeleteRange(from, to)
		if err != nil {
			return m, m.notifyWarn(notify.SourceEditor, "edit: %v", err)
		}
		m.cursor = pos
		m.sel.Clear()
	}

	pos, err := fn(m.cursor)
	if err != nil {
		return m, m.notifyWarn(notify.SourceEditor, "edit: %v", err)
	}
	m.cursor = pos
	m.followCursor()
	return m, nil
}

func (m Model) insert(text string) (tea.Model, tea.Cmd) {
	if m.sel.Active() {
		from, to := m.sel.Range()
		end, err := m.editor.ReplaceRange(from, to, text)
		if err != nil {
			return m, m.notifyWarn(notify.SourceEditor, "edit: %v", err)
		}
		m.sel.Clear()
		m.cursor = end
		m.followCursor()
		return m, nil
	}

	return m.edit(func(at document.Pos) (document.Pos, error) {
		return m.editor.InsertText(at, text)
	})
}

func (m Model) deleteSelection() (tea.Model, tea.Cmd) {
	from, to := m.sel.Range()
	pos, err := m.editor.DeleteRange(from, to)
	if err != nil {
		return m, m.notifyWarn(notify.SourceEditor, "edit: %v", err)
	}
	m.sel.Clear()
	m.cursor = pos
	m.followCursor()
	return m, nil
}

// moveTo moves the cursor, extending the selection when selecting and
// dropping it otherwise.
func (m Model) moveTo(p document.Pos, selecting bool) Model {
	if selecting {
		m.sel.Extend(m.cursor, p)
	} else {
		m.sel.Clear()
	}
	m.cursor = p
	m.followCursor()
	return m
}

// rowOffset returns the position delta rows above or below the cursor,
// keeping its column.
func (m Model) rowOffset(l *layout.Layout, delta int) document.Pos {
	row, col := l.CursorRowCol(m.cursor)
	return l.PosAt(row+delta, col)
}

// rowEdge returns the start or end of the cursor's visual row.
func (m Model) rowEdge(l *layout.Layout, end bool) document.Pos {
	row, _ := l.CursorRowCol(m.cursor)
	if end {
		return l.PosAt(row, m.textWidth()+1)
	}
	return l.PosAt(row, 0)
}

// followCursor scrolls so the cursor row is on screen.
func (m *Model) followCursor() {
	row, _ := m.editor.Layout().CursorRowCol(m.cursor)
	m.scrollTo(row)
}

// scrollToCard scrolls so the focused card's anchor is on screen.
func (m *Model) scrollToCard() {
	id, ok := m.focusedSuggestion()
	if !ok {
		return
	}
	if r, ok := m.editor.Locate(id); ok {
		m.scrollTo(r.Row)
	}
}

func (m *Model) scrollTo(row int) {
	h := m.editorHeight()
	switch {
	case row < m.scroll:
		m.scroll = row
	case row >= m.scroll+h:
		m.scroll = row - h + 1
	}
	m.scroll = max(m.scroll, 0)
}

// typedText returns the text a key press inserts, if any.
func typedText(msg tea.KeyPressMsg) string {
	k := msg.Key()
	if k.Mod&(tea.ModCtrl|tea.ModAlt|tea.ModMeta|tea.ModSuper) != 0 {
		return ""
	}
	return k.Text
}
