package scribe

import (
	"github.com/colonyops/scribe/internal/core/document"
)

// InsertText types s at pos and returns the new cursor position.
func (e *Editor) InsertText(pos document.Pos, s string) (document.Pos, error) {
	p, err := e.doc.InsertText(pos, s)
	e.reconcile()
	return p, err
}

// DeleteRange removes the text between from and to.
func (e *Editor) DeleteRange(from, to document.Pos) (document.Pos, error) {
	p, err := e.doc.DeleteRange(from, to)
	e.reconcile()
	return p, err
}

// Backspace deletes the rune before pos, joining blocks at a block start.
func (e *Editor) Backspace(pos document.Pos) (document.Pos, error) {
	pos = e.doc.Clamp(pos)
	if pos.Offset == 0 {
		if pos.Block == 0 {
			return pos, nil
		}
		return e.JoinBlocks(pos.Block)
	}
	return e.DeleteRange(e.doc.Prev(pos), pos)
}

// Delete removes the rune after pos.
func (e *Editor) Delete(pos document.Pos) (document.Pos, error) {
	return e.DeleteRange(pos, e.doc.Next(pos))
}

// SplitBlock breaks the block at pos.
func (e *Editor) SplitBlock(pos document.Pos) (document.Pos, error) {
	p, err := e.doc.SplitBlock(pos)
	e.reconcile()
	return p, err
}

// JoinBlocks merges block i into the previous block.
func (e *Editor) JoinBlocks(i int) (document.Pos, error) {
	p, err := e.doc.JoinBlocks(i)
	e.reconcile()
	return p, err
}

// ReplaceRange swaps the text between from and to for s. Selection rewrites
// use it.
func (e *Editor) ReplaceRange(from, to document.Pos, s string) (document.Pos, error) {
	p, err := e.doc.ReplaceRange(from, to, s)
	e.reconcile()
	return p, err
}

// AppendText is the insertion sink for external collaborators. It appends
// to the end of the document and goes through the same recompute path as
// typing.
func (e *Editor) AppendText(s string) (document.Pos, error) {
	p, err := e.doc.AppendText(s)
	e.reconcile()
	return p, err
}

// RewriteInput returns the text between from and to and the paragraphs
// around it, as handed to a rewriter.
func (e *Editor) RewriteInput(from, to document.Pos) (original, surrounding string) {
	if to.Before(from) {
		from, to = to, from
	}
	original = e.doc.Slice(from, to)

	first := max(from.Block-1, 0)
	last := min(to.Block+1, e.doc.BlockCount()-1)
	surrounding = e.doc.Slice(
		document.Pos{Block: first},
		document.Pos{Block: last, Offset: e.doc.BlockLen(last)},
	)
	return original, surrounding
}
