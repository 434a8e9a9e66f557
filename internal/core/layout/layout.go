// Package layout maps the document onto terminal rows and columns. It
// word-wraps each block's visible text, locates suggestion anchors on
// screen, and derives the margin card positions from them.
package layout

import (
	"cmp"
	"slices"

	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/suggest"
)

// DefaultTabWidth is used when no tab width is configured.
const DefaultTabWidth = 4

// Style tells the renderer how to draw a segment.
type Style int

const (
	StyleText Style = iota
	StyleMark
	StyleDeletion
	StyleInsertion
)

// Segment is a styled run of text on one visual line.
type Segment struct {
	Text         string
	Style        Style
	SuggestionID int // meaningful for every style but StyleText
}

// Line is one visual row of wrapped text.
type Line struct {
	Block    int
	Start    int // byte offset into the block's visible text
	End      int
	Text     string
	Segments []Segment
}

// Rect is a rectangle in layout coordinates. Row 0 is the first wrapped line
// of the document.
type Rect struct {
	Row    int
	Col    int
	Width  int
	Height int
}

// CardPosition places one margin card. It is derived on every recompute
// and never patched in place.
type CardPosition struct {
	SuggestionIndex int
	VerticalOffset  int
	Suggestion      suggest.Suggestion
}

// nodeMap records where one inline node sits in plain and visible text.
type nodeMap struct {
	kind       document.Kind
	id         int
	plainStart int
	plainEnd   int
	visStart   int
	visEnd     int
	delLen     int
}

type blockMap struct {
	firstRow int
	rows     int
	plainLen int
	visLen   int
	nodes    []nodeMap
}

// Layout is an immutable snapshot of the document wrapped to a width.
type Layout struct {
	Width    int
	TabWidth int
	Lines    []Line

	blocks  []blockMap
	anchors map[int]Rect
}

// Option configures Compute.
type Option func(*Layout)

// WithTabWidth sets how many columns a tab occupies.
func WithTabWidth(n int) Option {
	return func(l *Layout) {
		if n > 0 {
			l.TabWidth = n
		}
	}
}

// Compute wraps doc to width columns. Empty blocks occupy one row.
func Compute(doc *document.Document, width int, opts ...Option) *Layout {
	l := &Layout{
		Width:    max(width, 1),
		TabWidth: DefaultTabWidth,
		anchors:  make(map[int]Rect),
	}
	for _, opt := range opts {
		opt(l)
	}

	for bi, b := range doc.Blocks() {
		bm := mapBlock(b)
		bm.firstRow = len(l.Lines)

		visible := b.Visible()
		for _, r := range wrap(visible, l.Width, l.TabWidth) {
			l.Lines = append(l.Lines, Line{
				Block:    bi,
				Start:    r[0],
				End:      r[1],
				Text:     visible[r[0]:r[1]],
				Segments: segments(visible, bm.nodes, r[0], r[1]),
			})
		}
		bm.rows = len(l.Lines) - bm.firstRow

		l.blocks = append(l.blocks, bm)
		l.anchor(bm)
	}

	return l
}

func mapBlock(b document.Block) blockMap {
	var bm blockMap
	for _, n := range b.Nodes {
		nm := nodeMap{
			kind:       n.Kind,
			id:         n.SuggestionID,
			plainStart: bm.plainLen,
			plainEnd:   bm.plainLen + len(n.Plain()),
			visStart:   bm.visLen,
			visEnd:     bm.visLen + len(n.Visible()),
		}
		if n.Kind == document.KindDiff {
			nm.delLen = len(n.Deletion)
		}
		bm.plainLen, bm.visLen = nm.plainEnd, nm.visEnd
		bm.nodes = append(bm.nodes, nm)
	}
	return bm
}

func segments(visible string, nodes []nodeMap, start, end int) []Segment {
	var out []Segment
	add := func(from, to int, style Style, id int) {
		from, to = max(from, start), min(to, end)
		if from >= to {
			return
		}
		out = append(out, Segment{Text: visible[from:to], Style: style, SuggestionID: id})
	}

	for _, nm := range nodes {
		switch nm.kind {
		case document.KindText:
			add(nm.visStart, nm.visEnd, StyleText, 0)
		case document.KindMark:
			add(nm.visStart, nm.visEnd, StyleMark, nm.id)
		case document.KindDiff:
			add(nm.visStart, nm.visStart+nm.delLen, StyleDeletion, nm.id)
			add(nm.visStart+nm.delLen, nm.visEnd, StyleInsertion, nm.id)
		}
	}
	return out
}

func (l *Layout) anchor(bm blockMap) {
	for _, nm := range bm.nodes {
		if nm.kind == document.KindText || nm.visStart == nm.visEnd {
			continue
		}
		if _, seen := l.anchors[nm.id]; seen {
			continue
		}

		first := l.rowFor(bm, nm.visStart)
		last := l.rowFor(bm, nm.visEnd-1)
		line := l.Lines[first]

		col := stringWidth(line.Text[:nm.visStart-line.Start], l.TabWidth)
		to := min(nm.visEnd, line.End) - line.Start
		l.anchors[nm.id] = Rect{
			Row:    first,
			Col:    col,
			Width:  stringWidth(line.Text[nm.visStart-line.Start:to], l.TabWidth),
			Height: last - first + 1,
		}
	}
}

// rowFor returns the row holding visible offset v of the block. An offset
// at a wrap point belongs to the following row.
func (l *Layout) rowFor(bm blockMap, v int) int {
	last := bm.firstRow + bm.rows - 1
	for row := bm.firstRow; row < last; row++ {
		if v < l.Lines[row].End {
			return row
		}
	}
	return last
}

// Rows returns the number of visual lines.
func (l *Layout) Rows() int {
	return len(l.Lines)
}

// BlockRow returns the first row of block i.
func (l *Layout) BlockRow(i int) int {
	if i < 0 || i >= len(l.blocks) {
		return 0
	}
	return l.blocks[i].firstRow
}

// Locate returns the on-screen rectangle of the suggestion's mark or diff.
// The rectangle starts on the first row of the anchor; Height counts the
// rows it wraps across.
func (l *Layout) Locate(id int) (Rect, bool) {
	r, ok := l.anchors[id]
	return r, ok
}

// CursorRowCol returns the screen cell of a document position.
func (l *Layout) CursorRowCol(p document.Pos) (row, col int) {
	if len(l.blocks) == 0 {
		return 0, 0
	}
	bi := max(0, min(p.Block, len(l.blocks)-1))
	bm := l.blocks[bi]

	v := toVisible(bm, p.Offset)
	row = l.rowFor(bm, v)
	line := l.Lines[row]
	return row, stringWidth(line.Text[:v-line.Start], l.TabWidth)
}

// PosAt returns the document position nearest to a screen cell.
func (l *Layout) PosAt(row, col int) document.Pos {
	if len(l.Lines) == 0 {
		return document.Pos{}
	}
	row = max(0, min(row, len(l.Lines)-1))
	line := l.Lines[row]
	bm := l.blocks[line.Block]

	idx := indexAtWidth(line.Text, max(col, 0), l.TabWidth)
	if idx == len(line.Text) && row < bm.firstRow+bm.rows-1 && idx > 0 {
		// The wrap point belongs to the next row; stay on this one.
		idx = lastRuneStart(line.Text)
	}

	return document.Pos{Block: line.Block, Offset: toPlain(bm, line.Start+idx)}
}

func toVisible(bm blockMap, p int) int {
	p = max(0, min(p, bm.plainLen))
	for _, nm := range bm.nodes {
		if p < nm.plainEnd {
			return nm.visStart + (p - nm.plainStart)
		}
	}
	return bm.visLen
}

func toPlain(bm blockMap, v int) int {
	for _, nm := range bm.nodes {
		if v >= nm.visEnd {
			continue
		}
		off := v - nm.visStart
		if nm.kind == document.KindDiff && off >= nm.delLen {
			return nm.plainEnd
		}
		return min(nm.plainStart+off, nm.plainEnd)
	}
	return bm.plainLen
}

func lastRuneStart(s string) int {
	last := 0
	for i := range s {
		last = i
	}
	return last
}

// RecomputeAll returns one card position per active suggestion that has a
// locatable anchor, ordered by row and then by suggestion index. Suggestions
// without an anchor produce no card.
func RecomputeAll(l *Layout, active []suggest.Suggestion) []CardPosition {
	cards := make([]CardPosition, 0, len(active))
	for _, s := range active {
		r, ok := l.Locate(s.ID)
		if !ok {
			continue
		}
		cards = append(cards, CardPosition{
			SuggestionIndex: s.ID,
			VerticalOffset:  r.Row,
			Suggestion:      s,
		})
	}

	slices.SortFunc(cards, func(a, b CardPosition) int {
		return cmp.Or(
			cmp.Compare(a.VerticalOffset, b.VerticalOffset),
			cmp.Compare(a.SuggestionIndex, b.SuggestionIndex),
		)
	})
	return cards
}
