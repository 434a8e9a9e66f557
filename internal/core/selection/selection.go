// Package selection tracks the live text selection and where the floating
// instruction menu anchors to it.
package selection

import (
	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/layout"
)

// Tracker holds the selection endpoints. Anchor is where the selection
// started; Head follows the cursor.
type Tracker struct {
	Anchor document.Pos
	Head   document.Pos
	active bool
}

// Start begins a selection at p.
func (t *Tracker) Start(p document.Pos) {
	t.Anchor, t.Head = p, p
	t.active = true
}

// Extend moves the head, starting a selection at from if none is active.
func (t *Tracker) Extend(from, to document.Pos) {
	if !t.active {
		t.Start(from)
	}
	t.Head = to
}

// Clear drops the selection.
func (t *Tracker) Clear() {
	*t = Tracker{}
}

// Active reports whether a non-empty selection exists.
func (t *Tracker) Active() bool {
	return t.active && t.Anchor != t.Head
}

// Range returns the selection endpoints in reading order.
func (t *Tracker) Range() (from, to document.Pos) {
	if t.Head.Before(t.Anchor) {
		return t.Head, t.Anchor
	}
	return t.Anchor, t.Head
}

// Contains reports whether p lies inside the selection.
func (t *Tracker) Contains(p document.Pos) bool {
	if !t.Active() {
		return false
	}
	from, to := t.Range()
	return !p.Before(from) && p.Before(to)
}

// Text returns the selected plain text.
func (t *Tracker) Text(doc *document.Document) string {
	if !t.Active() {
		return ""
	}
	from, to := t.Range()
	return doc.Slice(from, to)
}

// Rect returns the bounding rectangle of the selection on screen. A
// selection spanning rows covers the full text width.
func (t *Tracker) Rect(l *layout.Layout) (layout.Rect, bool) {
	if !t.Active() {
		return layout.Rect{}, false
	}

	from, to := t.Range()
	r1, c1 := l.CursorRowCol(from)
	r2, c2 := l.CursorRowCol(to)
	if r1 == r2 {
		return layout.Rect{Row: r1, Col: c1, Width: max(c2-c1, 1), Height: 1}, true
	}
	return layout.Rect{Row: r1, Col: 0, Width: l.Width, Height: r2 - r1 + 1}, true
}

// MenuAnchor returns the top-left cell for a menu of menuHeight rows. The
// menu sits below the selection, or above it when the rows below the
// selection cannot hold it. rows is the number of rows available on screen
// and scroll the first visible layout row.
func (t *Tracker) MenuAnchor(l *layout.Layout, scroll, rows, menuHeight int) (row, col int, ok bool) {
	r, ok := t.Rect(l)
	if !ok {
		return 0, 0, false
	}

	top := r.Row - scroll
	below := top + r.Height
	if below+menuHeight > rows && top-menuHeight >= 0 {
		return top - menuHeight, r.Col, true
	}
	return below, r.Col, true
}
