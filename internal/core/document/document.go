// Package document holds the editable prose buffer: a list of paragraph
// blocks whose inline nodes are plain text, suggestion marks, or open diffs.
//
// Every mutation goes through the document so subscribers (the layout
// observer in particular) hear about each change exactly once.
package document

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/colonyops/scribe/internal/core/logging"
)

// Sentinel errors for document operations.
var (
	ErrReentrantMutation = errors.New("document mutated during change notification")
	ErrInvalidRange      = errors.New("invalid range")
	ErrOverlap           = errors.New("range overlaps an existing annotation")
)

// ChangeKind describes what caused a document change.
type ChangeKind int

const (
	ChangeEdit     ChangeKind = iota // direct user typing
	ChangeAppend                     // text insertion sink
	ChangeAnnotate                   // marker injection or stripping
	ChangeDiff                       // diff show, accept, reject
	ChangeReplace                    // selection rewrite
)

// String returns the string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeEdit:
		return "edit"
	case ChangeAppend:
		return "append"
	case ChangeAnnotate:
		return "annotate"
	case ChangeDiff:
		return "diff"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Change is published to subscribers after each mutation.
type Change struct {
	Kind    ChangeKind
	Version uint64
}

// Document is the authoritative text buffer. It is not safe for concurrent
// use; all access happens on the UI goroutine.
type Document struct {
	blocks    []Block
	version   uint64
	subs      []func(Change)
	notifying bool
	strict    bool
	log       zerolog.Logger
}

// New creates a document from plain text. Each line becomes a block.
func New(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, Block{Nodes: normalize([]Node{Text(line)})})
	}

	return &Document{
		blocks: blocks,
		log:    logging.Component("document"),
	}
}

// SetStrict makes reentrant mutations panic instead of being dropped.
func (d *Document) SetStrict(strict bool) {
	d.strict = strict
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
func (d *Document) Subscribe(fn func(Change)) func() {
	d.subs = append(d.subs, fn)
	idx := len(d.subs) - 1
	return func() {
		d.subs[idx] = nil
	}
}

// Version is incremented on every mutation.
func (d *Document) Version() uint64 {
	return d.version
}

// BlockCount returns the number of blocks. A document always has at least one.
func (d *Document) BlockCount() int {
	return len(d.blocks)
}

// Block returns a copy of block i.
func (d *Document) Block(i int) Block {
	return d.blocks[i].clone()
}

// Blocks returns a copy of all blocks.
func (d *Document) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = b.clone()
	}
	return out
}

// BlockLen returns the byte length of block i's plain text.
func (d *Document) BlockLen(i int) int {
	return len(d.blocks[i].Plain())
}

// PlainText returns the committed text of the document, blocks joined by
// newlines. Annotation markup never shows up here.
func (d *Document) PlainText() string {
	parts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		parts[i] = b.Plain()
	}
	return strings.Join(parts, "\n")
}

// VisibleText returns the text as displayed, including pending insertions of
// open diffs.
func (d *Document) VisibleText() string {
	parts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		parts[i] = b.Visible()
	}
	return strings.Join(parts, "\n")
}

// Find returns the first node annotated for suggestion id.
func (d *Document) Find(id int) (Ref, Node, bool) {
	return find(d.blocks, id)
}

// NodeStart returns the plain-text offset at which the referenced node begins.
func (d *Document) NodeStart(ref Ref) int {
	off := 0
	for _, n := range d.blocks[ref.Block].Nodes[:ref.Index] {
		off += len(n.Plain())
	}
	return off
}

// Slice returns the plain text between two positions.
func (d *Document) Slice(from, to Pos) string {
	from, to = d.Clamp(from), d.Clamp(to)
	if to.Before(from) {
		from, to = to, from
	}
	if from.Block == to.Block {
		return d.blocks[from.Block].Plain()[from.Offset:to.Offset]
	}

	parts := []string{d.blocks[from.Block].Plain()[from.Offset:]}
	for i := from.Block + 1; i < to.Block; i++ {
		parts = append(parts, d.blocks[i].Plain())
	}
	parts = append(parts, d.blocks[to.Block].Plain()[:to.Offset])
	return strings.Join(parts, "\n")
}

// Clamp moves p inside the document and onto a rune boundary.
func (d *Document) Clamp(p Pos) Pos {
	p.Block = max(0, min(p.Block, len(d.blocks)-1))
	plain := d.blocks[p.Block].Plain()
	p.Offset = max(0, min(p.Offset, len(plain)))
	for p.Offset > 0 && p.Offset < len(plain) && !utf8.RuneStart(plain[p.Offset]) {
		p.Offset--
	}
	return p
}

// Start returns the first position of the document.
func (d *Document) Start() Pos {
	return Pos{}
}

// End returns the last position of the document.
func (d *Document) End() Pos {
	last := len(d.blocks) - 1
	return Pos{Block: last, Offset: d.BlockLen(last)}
}

// Next returns the position one rune after p, crossing into the next block
// at a block end.
func (d *Document) Next(p Pos) Pos {
	p = d.Clamp(p)
	plain := d.blocks[p.Block].Plain()
	if p.Offset < len(plain) {
		_, size := utf8.DecodeRuneInString(plain[p.Offset:])
		return Pos{Block: p.Block, Offset: p.Offset + size}
	}
	if p.Block < len(d.blocks)-1 {
		return Pos{Block: p.Block + 1}
	}
	return p
}

// Prev returns the position one rune before p, crossing into the previous
// block at a block start.
func (d *Document) Prev(p Pos) Pos {
	p = d.Clamp(p)
	if p.Offset > 0 {
		plain := d.blocks[p.Block].Plain()
		_, size := utf8.DecodeLastRuneInString(plain[:p.Offset])
		return Pos{Block: p.Block, Offset: p.Offset - size}
	}
	if p.Block > 0 {
		return Pos{Block: p.Block - 1, Offset: d.BlockLen(p.Block - 1)}
	}
	return p
}

// Markup renders the document as HTML-like markup. Marks become <mark>
// elements and open diffs become <span class="diff"> wrappers holding
// <del> and <ins> children.
func (d *Document) Markup() string {
	parts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		var sb strings.Builder
		sb.WriteString("<p>")
		for _, n := range b.Nodes {
			switch n.Kind {
			case KindText:
				sb.WriteString(html.EscapeString(n.Text))
			case KindMark:
				fmt.Fprintf(&sb, `<mark data-suggestion="%d">%s</mark>`, n.SuggestionID, html.EscapeString(n.Text))
			case KindDiff:
				fmt.Fprintf(&sb, `<span class="diff" data-suggestion="%d" data-original="%s"><del>%s</del><ins>%s</ins></span>`,
					n.SuggestionID,
					html.EscapeString(n.Original),
					html.EscapeString(n.Deletion),
					html.EscapeString(n.Insertion),
				)
			}
		}
		sb.WriteString("</p>")
		parts[i] = sb.String()
	}
	return strings.Join(parts, "\n")
}

// Apply runs fn as a single mutation. Subscribers are notified once,
// afterwards, if fn changed anything.
func (d *Document) Apply(kind ChangeKind, fn func(tx *Tx) error) error {
	if err := d.enter(kind); err != nil {
		return err
	}

	tx := &Tx{d: d}
	err := fn(tx)
	d.commit(kind, tx.changed)
	return err
}

func (d *Document) enter(kind ChangeKind) error {
	if !d.notifying {
		return nil
	}
	if d.strict {
		panic(fmt.Errorf("%s: %w", kind, ErrReentrantMutation))
	}
	d.log.Error().
		Err(ErrReentrantMutation).
		Str("kind", kind.String()).
		Msg("dropping mutation issued from a change subscriber")
	return ErrReentrantMutation
}

func (d *Document) commit(kind ChangeKind, changed bool) {
	if !changed {
		return
	}
	d.version++

	ch := Change{Kind: kind, Version: d.version}
	d.notifying = true
	defer func() { d.notifying = false }()

	for _, fn := range d.subs {
		if fn != nil {
			fn(ch)
		}
	}
}

func find(blocks []Block, id int) (Ref, Node, bool) {
	for bi, b := range blocks {
		for ni, n := range b.Nodes {
			if n.Annotated() && n.SuggestionID == id {
				return Ref{Block: bi, Index: ni}, n, true
			}
		}
	}
	return Ref{}, Node{}, false
}
