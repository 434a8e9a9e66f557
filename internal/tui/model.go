// Package tui implements the Bubble Tea editor for scribe.
package tui

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/scribe/internal/analysis"
	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/logging"
	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/core/selection"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/core/suggest"
	"github.com/colonyops/scribe/internal/scribe"
	"github.com/colonyops/scribe/internal/tui/components"
	tuinotify "github.com/colonyops/scribe/internal/tui/notify"
)

// UIState represents which overlay, if any, owns the keyboard.
type UIState int

const (
	stateNormal UIState = iota
	stateInstruction
	stateShowingHelp
	stateShowingNotifications
)

// Focus is the pane receiving editing keys.
type Focus int

const (
	FocusText Focus = iota
	FocusCards
)

const (
	defaultCardWidth    = 36
	defaultMinTextWidth = 40
	statusBarHeight     = 1
	gutterWidth         = 1
)

// Options configures the editor TUI.
type Options struct {
	Path           string            // shown in the status bar
	Source         suggest.Source    // nil disables analysis
	Rewriter       suggest.Rewriter  // nil disables the instruction menu
	Watcher        *analysis.Watcher // optional suggestion file watcher
	NotifyBus      *tuinotify.Bus    // nil creates a bus without history
	Timeout        time.Duration     // per request; zero means none
	CardWidth      int               // card column width
	MinTextWidth   int               // hide the card column below this text width
	Sidebar        bool              // show the card column on start
	AnalyzeOnStart bool              // run the source once in Init
	Warnings       []string          // startup warnings shown as toasts
	KeyMap         *KeyMap           // nil uses DefaultKeyMap
	Logger         *zerolog.Logger   // nil derives a component logger
}

// Model is the Bubble Tea model for the editor.
type Model struct {
	editor    *scribe.Editor
	path      string
	source    suggest.Source
	rewriter  suggest.Rewriter
	watcher   *analysis.Watcher
	notifyBus *tuinotify.Bus
	timeout   time.Duration
	keys      KeyMap
	log       zerolog.Logger

	toasts    *ToastController
	toastView *ToastView
	spinner   spinner.Model

	state             UIState
	focus             Focus
	helpDialog        *components.HelpDialog
	notificationModal *NotificationModal
	menu              *InstructionMenu

	cursor   document.Pos
	sel      selection.Tracker
	scroll   int
	cardIdx  int
	width    int
	height   int
	quitting bool

	cardWidth    int
	minTextWidth int
	sidebar      bool

	analyzing      bool
	rewriting      bool
	analyzeOnStart bool
	warnings       []string
}

// New creates the editor model around an already constructed editor.
func New(editor *scribe.Editor, opts Options) Model {
	keys := DefaultKeyMap()
	if opts.KeyMap != nil {
		keys = *opts.KeyMap
	}

	bus := opts.NotifyBus
	if bus == nil {
		bus = tuinotify.NewBus(nil)
	}

	log := logging.Component("tui")
	if opts.Logger != nil {
		log = *opts.Logger
	}

	toasts := NewToastController()
	bus.Subscribe(toasts.Push)

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = styles.TextPrimaryStyle

	cardWidth := opts.CardWidth
	if cardWidth <= 0 {
		cardWidth = defaultCardWidth
	}
	minText := opts.MinTextWidth
	if minText <= 0 {
		minText = defaultMinTextWidth
	}

	return Model{
		editor:         editor,
		path:           opts.Path,
		source:         opts.Source,
		rewriter:       opts.Rewriter,
		watcher:        opts.Watcher,
		notifyBus:      bus,
		timeout:        opts.Timeout,
		keys:           keys,
		log:            log,
		toasts:         toasts,
		toastView:      NewToastView(toasts),
		spinner:        sp,
		menu:           NewInstructionMenu(),
		cardWidth:      cardWidth,
		minTextWidth:   minText,
		sidebar:        opts.Sidebar,
		analyzeOnStart: opts.AnalyzeOnStart,
		warnings:       opts.Warnings,
	}
}

// Editor returns the underlying editor service.
func (m Model) Editor() *scribe.Editor {
	return m.editor
}

// PlainText returns the committed document text.
func (m Model) PlainText() string {
	return m.editor.PlainText()
}

// Init starts the watcher and the optional first analysis.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd

	for _, w := range m.warnings {
		m.notifyBus.Warnf(notify.SourceEditor, "%s", w)
	}
	if cmd := m.ensureToastTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}

	if m.analyzeOnStart && m.source != nil {
		cmds = append(cmds, func() tea.Msg { return analyzeRequestMsg{} })
	}

	return tea.Batch(cmds...)
}

// Update dispatches messages to their handlers.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	// Async results
	case analyzeRequestMsg:
		return m.handleAnalyzeRequest()
	case analysisResultMsg:
		return m.handleAnalysisResult(msg)
	case rewriteResultMsg:
		return m.handleRewriteResult(msg)
	case analysis.BatchFileMsg:
		return m.handleBatchFile(msg)
	case AppendTextMsg:
		return m.handleAppendText(msg)

	// Ticks
	case toastTickMsg:
		return m.handleToastTick(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	// Input
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.state == stateInstruction {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.log.Debug().Err(err).Msg("close batch watcher")
		}
	}
	return m, tea.Quit
}

// startAnalysis issues a new request generation for the current text.
// Earlier requests still in flight are superseded.
func (m *Model) startAnalysis() tea.Cmd {
	gen := m.editor.BeginAnalysis()
	m.analyzing = true
	m.log.Debug().Uint64("generation", gen).Msg("analysis requested")
	return analyzeCmd(m.source, gen, m.editor.PlainText(), m.timeout)
}

// textWidth is the width of the text column.
func (m Model) textWidth() int {
	if m.sidebarVisible() {
		return m.width - m.cardWidth - gutterWidth
	}
	return max(m.width, 1)
}

// sidebarVisible reports whether the card column fits beside the text.
func (m Model) sidebarVisible() bool {
	return m.sidebar && m.width-m.cardWidth-gutterWidth >= m.minTextWidth
}

// editorHeight is the number of text rows on screen.
func (m Model) editorHeight() int {
	return max(m.height-statusBarHeight, 1)
}

// focusedSuggestion returns the suggestion of the focused card.
func (m Model) focusedSuggestion() (int, bool) {
	if m.focus != FocusCards {
		return 0, false
	}
	cards := m.editor.Cards()
	if len(cards) == 0 {
		return 0, false
	}
	return cards[min(m.cardIdx, len(cards)-1)].SuggestionIndex, true
}

// ensureToastTick starts the toast timer if toasts are showing and it is
// not already running.
func (m *Model) ensureToastTick() tea.Cmd {
	if !m.toasts.HasToasts() || m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}

// notifyWarn publishes a warning and starts the toast timer if needed.
func (m *Model) notifyWarn(source, format string, args ...any) tea.Cmd {
	m.notifyBus.Warnf(source, format, args...)
	return m.ensureToastTick()
}

// notifyInfo publishes an info notification and starts the toast timer if
// needed.
func (m *Model) notifyInfo(source, format string, args ...any) tea.Cmd {
	m.notifyBus.Infof(source, format, args...)
	return m.ensureToastTick()
}
