// Package scribe wires the document, the review state machine and the
// layout observer into the editor service the TUI and commands drive.
package scribe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/scribe/internal/core/annotate"
	"github.com/colonyops/scribe/internal/core/diffview"
	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/layout"
	"github.com/colonyops/scribe/internal/core/logging"
	"github.com/colonyops/scribe/internal/core/review"
	"github.com/colonyops/scribe/internal/core/suggest"
)

// Sentinel errors for editor operations.
var (
	ErrSuperseded     = errors.New("analysis result superseded by a newer request")
	ErrAnalysisFailed = errors.New("analysis failed")
)

// Options configures a new Editor.
type Options struct {
	Path      string       // document path, used for decision history only
	Width     int          // text column width
	TabWidth  int          // columns per tab
	Strict    bool         // panic on reentrancy faults
	Decisions review.Store // optional decision log
}

// Editor is the suggestion engine bound to one document. It is not safe for
// concurrent use; the TUI calls it from Update only.
type Editor struct {
	doc       *document.Document
	machine   *review.Machine
	observer  *layout.Observer
	decisions review.Store
	path      string
	log       zerolog.Logger

	batch      suggest.Batch
	generation uint64
	missing    []int
}

// New creates an editor over text.
func New(text string, opts Options) *Editor {
	e := &Editor{
		doc:       document.New(text),
		machine:   review.NewMachine(0),
		decisions: opts.Decisions,
		path:      opts.Path,
		log:       logging.Component("editor"),
	}
	e.doc.SetStrict(opts.Strict)

	tabs := opts.TabWidth
	if tabs <= 0 {
		tabs = layout.DefaultTabWidth
	}
	e.observer = layout.NewObserver(e.doc, opts.Width, tabs, e.Active)
	e.observer.SetStrict(opts.Strict)

	return e
}

// Close stops layout observation.
func (e *Editor) Close() {
	e.observer.Close()
}

// Document returns the underlying document. Callers must mutate it through
// the editor so the review state stays consistent.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// PlainText returns the committed document text.
func (e *Editor) PlainText() string {
	return e.doc.PlainText()
}

// Batch returns the current suggestion batch.
func (e *Editor) Batch() suggest.Batch {
	return e.batch
}

// Generation returns the latest issued analysis generation.
func (e *Editor) Generation() uint64 {
	return e.generation
}

// Active returns the unresolved suggestions of the current batch in index
// order, anchored or not.
func (e *Editor) Active() []suggest.Suggestion {
	ids := e.machine.Active()
	out := make([]suggest.Suggestion, 0, len(ids))
	for _, id := range ids {
		if s, ok := e.batch.Get(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// Suggestion returns suggestion id of the current batch.
func (e *Editor) Suggestion(id int) (suggest.Suggestion, bool) {
	return e.batch.Get(id)
}

// State returns the review state of suggestion id.
func (e *Editor) State(id int) (review.State, error) {
	return e.machine.State(id)
}

// Open returns the suggestion whose diff is shown, if any.
func (e *Editor) Open() (int, bool) {
	return e.machine.Open()
}

// Missing returns the ids that had no anchor after the latest rescan.
func (e *Editor) Missing() []int {
	return e.missing
}

// BeginAnalysis issues a new request generation. Results for any earlier
// generation are dropped when they arrive.
func (e *Editor) BeginAnalysis() uint64 {
	e.generation++
	return e.generation
}

// CompleteAnalysis applies the result of the analysis issued as gen. A
// superseded result returns ErrSuperseded and changes nothing. A failed
// analysis returns ErrAnalysisFailed and leaves the active set untouched.
func (e *Editor) CompleteAnalysis(gen uint64, suggestions []suggest.Suggestion, err error) error {
	if gen != e.generation {
		e.log.Debug().
			Uint64("generation", gen).
			Uint64("latest", e.generation).
			Msg("dropping superseded analysis result")
		return ErrSuperseded
	}

	if err != nil {
		e.log.Warn().Err(err).Uint64("generation", gen).Msg("analysis failed")
		return fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	return e.replaceBatch(suggest.NewBatch(gen, suggestions))
}

// ApplyBatch replaces the active set with suggestions as a new generation.
func (e *Editor) ApplyBatch(suggestions []suggest.Suggestion) error {
	return e.CompleteAnalysis(e.BeginAnalysis(), suggestions, nil)
}

// replaceBatch tears down the previous batch and injects the new one in a
// single document change, so no frame shows a mix of both.
func (e *Editor) replaceBatch(b suggest.Batch) error {
	e.batch = b
	e.machine.Reset(len(b.Suggestions))

	if err := e.rescan(); err != nil {
		return err
	}
	e.observer.Trigger(layout.ReasonBatch)

	e.log.Info().
		Str("batch_id", b.ID).
		Uint64("generation", b.Generation).
		Int("suggestions", len(b.Suggestions)).
		Int("missing", len(e.missing)).
		Msg("suggestion batch applied")
	return nil
}

// rescan strips every annotation and re-injects the active set.
func (e *Editor) rescan() error {
	res, err := annotate.Inject(e.doc, e.Active())
	if err != nil {
		return fmt.Errorf("inject suggestions: %w", err)
	}

	e.missing = res.Missing
	for _, id := range res.Missing {
		e.log.Debug().Int("suggestion", id).Msg("suggestion text not found")
	}

	e.machine.Forget()
	return nil
}

// ShowDiff opens suggestion id as a diff, collapsing any other open diff.
// A missing anchor or stale match refuses the request and leaves
// everything as it was.
func (e *Editor) ShowDiff(id int) error {
	e.reconcile()

	s, ok := e.batch.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", review.ErrUnknownSuggestion, id)
	}
	if !e.machine.IsActive(id) {
		return fmt.Errorf("%w: %d", review.ErrResolved, id)
	}

	if err := diffview.CanShow(e.doc, s); err != nil {
		e.log.Debug().Err(err).Int("suggestion", id).Msg("diff refused")
		return err
	}

	if prev, ok := e.machine.Open(); ok && prev != id {
		if err := e.CollapseDiff(prev); err != nil {
			return err
		}
	}

	if err := diffview.Show(e.doc, s); err != nil {
		return err
	}
	_, _, err := e.machine.Show(id)
	return err
}

// CollapseDiff closes the diff for id without resolving it.
func (e *Editor) CollapseDiff(id int) error {
	if err := e.machine.Collapse(id); err != nil {
		return err
	}
	if err := diffview.Collapse(e.doc, id); err != nil && !errors.Is(err, diffview.ErrNoDiff) {
		return err
	}
	return nil
}

// AcceptDiff commits the open diff for id. The suggestion leaves the active
// set and the remaining suggestions are re-anchored.
func (e *Editor) AcceptDiff(ctx context.Context, id int) error {
	return e.resolve(ctx, id, review.Accepted)
}

// RejectDiff discards the open diff for id. The original text is restored
// and the suggestion leaves the active set.
func (e *Editor) RejectDiff(ctx context.Context, id int) error {
	return e.resolve(ctx, id, review.Rejected)
}

func (e *Editor) resolve(ctx context.Context, id int, to review.State) error {
	e.reconcile()

	var err error
	if to == review.Accepted {
		err = e.machine.Accept(id)
	} else {
		err = e.machine.Reject(id)
	}
	if err != nil {
		return err
	}

	if to == review.Accepted {
		_, err = diffview.Accept(e.doc, id)
	} else {
		err = diffview.Reject(e.doc, id)
	}
	if err != nil {
		return err
	}

	e.record(ctx, id, to)
	return e.rescan()
}

func (e *Editor) record(ctx context.Context, id int, st review.State) {
	s, _ := e.batch.Get(id)
	outcome, _ := review.OutcomeFor(st)

	ctx = logging.WithBatchID(logging.WithDocument(ctx, e.path), e.batch.ID)
	e.log.Info().Ctx(ctx).
		Int("suggestion", id).
		Str("outcome", string(outcome)).
		Str("category", string(s.Category)).
		Msg("suggestion resolved")

	if e.decisions == nil {
		return
	}

	err := e.decisions.SaveDecision(ctx, review.Decision{
		ID:              uuid.NewString(),
		BatchID:         e.batch.ID,
		DocumentPath:    e.path,
		SuggestionID:    id,
		Category:        string(s.Category),
		OriginalText:    s.OriginalText,
		ReplacementText: s.ReplacementText,
		Outcome:         outcome,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		e.log.Warn().Ctx(ctx).Err(err).Msg("failed to record decision")
	}
}

// reconcile forgets the open diff when an edit has already collapsed it in
// the document.
func (e *Editor) reconcile() {
	id, ok := e.machine.Open()
	if !ok {
		return
	}
	if _, n, found := e.doc.Find(id); found && n.Kind == document.KindDiff {
		return
	}
	e.machine.Forget()
	e.log.Debug().Int("suggestion", id).Msg("open diff lost to an edit")
}

// Cards returns the margin card positions, recomputing the layout first if
// anything changed since the last call.
func (e *Editor) Cards() []layout.CardPosition {
	e.Flush()
	return e.observer.Cards()
}

// Layout returns the current layout, recomputing it if needed.
func (e *Editor) Layout() *layout.Layout {
	e.Flush()
	return e.observer.Layout()
}

// Locate returns the on-screen rectangle of suggestion id's anchor.
func (e *Editor) Locate(id int) (layout.Rect, bool) {
	if !e.machine.IsActive(id) {
		return layout.Rect{}, false
	}
	return e.Layout().Locate(id)
}

// Flush runs any pending layout recompute.
func (e *Editor) Flush() {
	e.reconcile()
	_, _ = e.observer.Flush()
}

// Passes returns how many layout recomputes have run.
func (e *Editor) Passes() int {
	return e.observer.Passes()
}

// Resize changes the text column width.
func (e *Editor) Resize(width int) {
	e.observer.Resize(width)
}

// ViewportResized records a terminal resize that may not change the text
// column width.
func (e *Editor) ViewportResized() {
	e.observer.Trigger(layout.ReasonViewportResize)
}
