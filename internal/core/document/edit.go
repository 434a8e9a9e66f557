package document

import (
	"slices"
	"strings"
)

// InsertText inserts s at pos, splitting blocks on newlines, and returns the
// position after the inserted text.
func (d *Document) InsertText(pos Pos, s string) (Pos, error) {
	return d.insert(ChangeEdit, pos, s)
}

// AppendText appends s to the end of the document. This is the sink
// external collaborators use; it is independent of any annotation.
func (d *Document) AppendText(s string) (Pos, error) {
	return d.insert(ChangeAppend, d.End(), s)
}

// DeleteRange removes the plain text between from and to, joining blocks
// when the range crosses a block boundary. It returns the position where the
// range started.
func (d *Document) DeleteRange(from, to Pos) (Pos, error) {
	from, to = d.Clamp(from), d.Clamp(to)
	if to.Before(from) {
		from, to = to, from
	}

	err := d.Apply(ChangeEdit, func(tx *Tx) error {
		tx.deleteRange(from, to)
		return nil
	})
	return from, err
}

// SplitBlock breaks the block at pos into two and returns the start of the
// new block.
func (d *Document) SplitBlock(pos Pos) (Pos, error) {
	pos = d.Clamp(pos)
	err := d.Apply(ChangeEdit, func(tx *Tx) error {
		tx.split(pos.Block, pos.Offset)
		return nil
	})
	if err != nil {
		return pos, err
	}
	return Pos{Block: pos.Block + 1}, nil
}

// JoinBlocks merges block i into the block before it and returns the join
// point. Joining the first block is a no-op.
func (d *Document) JoinBlocks(i int) (Pos, error) {
	if i <= 0 || i >= len(d.blocks) {
		return d.Clamp(Pos{Block: i}), nil
	}

	at := Pos{Block: i - 1, Offset: d.BlockLen(i - 1)}
	err := d.Apply(ChangeEdit, func(tx *Tx) error {
		tx.join(i)
		return nil
	})
	return at, err
}

// ReplaceRange swaps the text between from and to for s as one change.
func (d *Document) ReplaceRange(from, to Pos, s string) (Pos, error) {
	from, to = d.Clamp(from), d.Clamp(to)
	if to.Before(from) {
		from, to = to, from
	}

	end := from
	err := d.Apply(ChangeReplace, func(tx *Tx) error {
		tx.deleteRange(from, to)
		end = tx.insertText(from, s)
		return nil
	})
	return end, err
}

func (d *Document) insert(kind ChangeKind, pos Pos, s string) (Pos, error) {
	pos = d.Clamp(pos)
	s = strings.ReplaceAll(s, "\r\n", "\n")

	end := pos
	err := d.Apply(kind, func(tx *Tx) error {
		end = tx.insertText(pos, s)
		return nil
	})
	return end, err
}

func (tx *Tx) insertText(pos Pos, s string) Pos {
	lines := strings.Split(s, "\n")
	cur := Pos{Block: pos.Block, Offset: tx.insertAt(pos.Block, pos.Offset, lines[0])}
	for _, line := range lines[1:] {
		tx.split(cur.Block, cur.Offset)
		cur = Pos{Block: cur.Block + 1}
		cur.Offset = tx.insertAt(cur.Block, 0, line)
	}
	return cur
}

func (tx *Tx) deleteRange(from, to Pos) {
	if from == to {
		return
	}
	if from.Block == to.Block {
		tx.deleteIn(from.Block, from.Offset, to.Offset)
		return
	}

	tx.deleteIn(from.Block, from.Offset, len(tx.d.blocks[from.Block].Plain()))
	tx.deleteIn(to.Block, 0, to.Offset)
	if to.Block-from.Block > 1 {
		tx.d.blocks = slices.Delete(tx.d.blocks, from.Block+1, to.Block)
		tx.changed = true
	}
	tx.join(from.Block + 1)
}
