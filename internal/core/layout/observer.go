package layout

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/logging"
	"github.com/colonyops/scribe/internal/core/suggest"
)

// ErrReentrantFlush is raised when a recompute is requested, or the document
// is mutated, while a recompute is already running.
var ErrReentrantFlush = errors.New("layout flush re-entered")

// Reason names what made the layout dirty.
type Reason int

const (
	ReasonAnnotate Reason = iota
	ReasonDiff
	ReasonEdit
	ReasonContainerResize
	ReasonViewportResize
	ReasonBatch
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonAnnotate:
		return "annotate"
	case ReasonDiff:
		return "diff"
	case ReasonEdit:
		return "edit"
	case ReasonContainerResize:
		return "container_resize"
	case ReasonViewportResize:
		return "viewport_resize"
	case ReasonBatch:
		return "batch"
	default:
		return "unknown"
	}
}

func reasonFor(k document.ChangeKind) Reason {
	switch k {
	case document.ChangeAnnotate:
		return ReasonAnnotate
	case document.ChangeDiff:
		return ReasonDiff
	default:
		return ReasonEdit
	}
}

// ActiveFunc returns the suggestions currently in the active set.
type ActiveFunc func() []suggest.Suggestion

// Observer keeps the layout and card positions in step with the document.
// Triggers only mark the layout dirty; Flush recomputes once no matter how
// many triggers fired since the last flush.
type Observer struct {
	doc     *document.Document
	active  ActiveFunc
	width   int
	tabs    int
	strict  bool
	log     zerolog.Logger
	unwatch func()

	dirty    bool
	pending  map[Reason]int
	flushing bool
	passes   int

	layout *Layout
	cards  []CardPosition
}

// NewObserver subscribes to doc and computes an initial layout.
func NewObserver(doc *document.Document, width, tabWidth int, active ActiveFunc) *Observer {
	o := &Observer{
		doc:     doc,
		active:  active,
		width:   width,
		tabs:    tabWidth,
		log:     logging.Component("layout"),
		pending: make(map[Reason]int),
	}
	o.unwatch = doc.Subscribe(o.observe)
	o.Trigger(ReasonBatch)
	_, _ = o.Flush()
	return o
}

// SetStrict makes reentrancy faults panic.
func (o *Observer) SetStrict(strict bool) {
	o.strict = strict
}

// Close stops observing the document.
func (o *Observer) Close() {
	if o.unwatch != nil {
		o.unwatch()
		o.unwatch = nil
	}
}

func (o *Observer) observe(c document.Change) {
	if o.flushing {
		_ = o.fault(fmt.Errorf("document %s change during flush: %w", c.Kind, ErrReentrantFlush))
		return
	}
	o.Trigger(reasonFor(c.Kind))
}

// Trigger marks the layout dirty.
func (o *Observer) Trigger(r Reason) {
	o.dirty = true
	o.pending[r]++
}

// Resize changes the text column width. A change triggers a container
// resize.
func (o *Observer) Resize(width int) {
	if width == o.width {
		return
	}
	o.width = width
	o.Trigger(ReasonContainerResize)
}

// Width returns the text column width.
func (o *Observer) Width() int {
	return o.width
}

// Dirty reports whether a flush is pending.
func (o *Observer) Dirty() bool {
	return o.dirty
}

// Passes returns how many recomputes have run.
func (o *Observer) Passes() int {
	return o.passes
}

// Flush recomputes the layout and card positions if anything changed since
// the last flush. It reports whether a recompute ran.
func (o *Observer) Flush() (bool, error) {
	if o.flushing {
		return false, o.fault(ErrReentrantFlush)
	}
	if !o.dirty {
		return false, nil
	}

	o.flushing = true
	defer func() { o.flushing = false }()

	reasons := o.pending
	o.pending = make(map[Reason]int)
	o.dirty = false

	o.layout = Compute(o.doc, o.width, WithTabWidth(o.tabs))
	o.cards = RecomputeAll(o.layout, o.active())
	o.passes++

	ev := o.log.Debug().Int("pass", o.passes).Int("cards", len(o.cards))
	for r, n := range reasons {
		ev = ev.Int(r.String(), n)
	}
	ev.Msg("layout recomputed")

	return true, nil
}

// Layout returns the layout from the latest flush.
func (o *Observer) Layout() *Layout {
	return o.layout
}

// Cards returns the card positions from the latest flush.
func (o *Observer) Cards() []CardPosition {
	return o.cards
}

func (o *Observer) fault(err error) error {
	if o.strict {
		panic(err)
	}
	o.log.Error().Err(err).Msg("layout invariant violated")
	return err
}
