package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/suggest"
)

// AppendTextMsg appends Text to the end of the document. Collaborators
// sharing the program deliver it through tea.Program.Send.
type AppendTextMsg struct {
	Text string
}

// analyzeRequestMsg asks Update to start an analysis.
type analyzeRequestMsg struct{}

// analysisResultMsg carries the outcome of one analysis request.
type analysisResultMsg struct {
	generation  uint64
	suggestions []suggest.Suggestion
	err         error
}

// rewriteResultMsg carries a rewritten selection. plain is the document
// text the range was taken from; the range only holds while it is unchanged.
type rewriteResultMsg struct {
	from, to document.Pos
	plain    string
	text     string
	err      error
}

// analyzeCmd runs source against text in the background.
func analyzeCmd(source suggest.Source, gen uint64, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		sugs, err := source.Produce(ctx, text)
		return analysisResultMsg{generation: gen, suggestions: sugs, err: err}
	}
}

// rewriteCmd asks rw to rewrite the selected passage.
func rewriteCmd(rw suggest.Rewriter, msg rewriteResultMsg, original, instruction, surrounding string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		msg.text, msg.err = rw.Rewrite(ctx, original, instruction, surrounding)
		return msg
	}
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}
