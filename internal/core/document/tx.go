package document

import (
	"fmt"
	"slices"
)

// Tx is the mutable view of a document handed to Apply callbacks.
type Tx struct {
	d       *Document
	changed bool
}

// BlockCount returns the number of blocks.
func (tx *Tx) BlockCount() int {
	return len(tx.d.blocks)
}

// Block returns a copy of block i.
func (tx *Tx) Block(i int) Block {
	return tx.d.blocks[i].clone()
}

// Find returns the first node annotated for suggestion id.
func (tx *Tx) Find(id int) (Ref, Node, bool) {
	return find(tx.d.blocks, id)
}

// Replace swaps the referenced node for the given nodes.
func (tx *Tx) Replace(ref Ref, nodes ...Node) {
	b := &tx.d.blocks[ref.Block]
	next := slices.Concat(b.Nodes[:ref.Index], nodes, b.Nodes[ref.Index+1:])
	b.Nodes = normalize(next)
	tx.changed = true
}

// Wrap turns the plain-text range [start, end) of block bi into a mark for
// suggestion id. The range must lie inside a single text node.
func (tx *Tx) Wrap(bi, start, end, id int) error {
	if bi < 0 || bi >= len(tx.d.blocks) || start < 0 || start >= end {
		return ErrInvalidRange
	}

	b := &tx.d.blocks[bi]
	if end > len(b.Plain()) {
		return fmt.Errorf("%w: %d-%d beyond block %d", ErrInvalidRange, start, end, bi)
	}

	st := 0
	for i, n := range b.Nodes {
		plain := n.Plain()
		en := st + len(plain)
		if start >= st && end <= en {
			if n.Kind != KindText {
				return ErrOverlap
			}
			a, z := start-st, end-st
			tx.Replace(Ref{Block: bi, Index: i},
				Text(plain[:a]),
				Mark(id, plain[a:z]),
				Text(plain[z:]),
			)
			return nil
		}
		if start < en && end > en {
			return ErrOverlap
		}
		st = en
	}

	return ErrInvalidRange
}

// Strip removes every mark and diff, restoring their plain or original text.
func (tx *Tx) Strip() {
	for bi := range tx.d.blocks {
		b := &tx.d.blocks[bi]
		stripped := false
		nodes := make([]Node, len(b.Nodes))
		for i, n := range b.Nodes {
			if n.Annotated() {
				stripped = true
				n = Text(n.Plain())
			}
			nodes[i] = n
		}
		if stripped {
			b.Nodes = normalize(nodes)
			tx.changed = true
		}
	}
}

// collapse turns diffs overlapping [from, to) of block bi back into marks of
// their original text. With from == to, only a diff strictly containing the
// offset is collapsed.
func (tx *Tx) collapse(bi, from, to int) {
	b := &tx.d.blocks[bi]
	st := 0
	for i, n := range b.Nodes {
		en := st + len(n.Plain())
		hit := st < to && en > from
		if from == to {
			hit = st < from && from < en
		}
		if n.Kind == KindDiff && hit {
			b.Nodes[i] = Mark(n.SuggestionID, n.Original)
			tx.changed = true
		}
		st = en
	}
}

// insertAt inserts s (which must not contain newlines) at offset off of
// block bi and returns the offset just after the inserted text.
func (tx *Tx) insertAt(bi, off int, s string) int {
	if s == "" {
		return off
	}
	tx.collapse(bi, off, off)
	tx.changed = true

	b := &tx.d.blocks[bi]
	st := 0
	for i, n := range b.Nodes {
		plain := n.Plain()
		en := st + len(plain)

		if off > st && off < en {
			// Inside a text or mark node; a mark keeps its id but its
			// content no longer matches the suggestion.
			n.Text = plain[:off-st] + s + plain[off-st:]
			b.Nodes[i] = n
			return off + len(s)
		}

		if off == st {
			switch {
			case i > 0 && b.Nodes[i-1].Kind == KindText:
				b.Nodes[i-1].Text += s
			case n.Kind == KindText:
				b.Nodes[i].Text = s + n.Text
			default:
				b.Nodes = slices.Insert(b.Nodes, i, Text(s))
			}
			return off + len(s)
		}

		st = en
	}

	if last := len(b.Nodes) - 1; last >= 0 && b.Nodes[last].Kind == KindText {
		b.Nodes[last].Text += s
	} else {
		b.Nodes = append(b.Nodes, Text(s))
	}
	return off + len(s)
}

// deleteIn removes the plain-text range [from, to) of block bi.
func (tx *Tx) deleteIn(bi, from, to int) {
	if from >= to {
		return
	}
	tx.collapse(bi, from, to)
	tx.changed = true

	b := &tx.d.blocks[bi]
	nodes := make([]Node, 0, len(b.Nodes))
	st := 0
	for _, n := range b.Nodes {
		plain := n.Plain()
		en := st + len(plain)
		if en > from && st < to {
			a := max(from, st) - st
			z := min(to, en) - st
			n.Text = plain[:a] + plain[z:]
		}
		nodes = append(nodes, n)
		st = en
	}
	b.Nodes = normalize(nodes)
}

// split breaks block bi at offset off. A mark cut in two loses its anchor
// and both halves become plain text.
func (tx *Tx) split(bi, off int) {
	tx.collapse(bi, off, off)
	tx.changed = true

	b := tx.d.blocks[bi]
	var left, right []Node
	st := 0
	for _, n := range b.Nodes {
		plain := n.Plain()
		en := st + len(plain)
		switch {
		case en <= off:
			left = append(left, n)
		case st >= off:
			right = append(right, n)
		default:
			left = append(left, Text(plain[:off-st]))
			right = append(right, Text(plain[off-st:]))
		}
		st = en
	}

	tx.d.blocks[bi] = Block{Nodes: normalize(left)}
	tx.d.blocks = slices.Insert(tx.d.blocks, bi+1, Block{Nodes: normalize(right)})
}

// join appends block bi to block bi-1 and removes it.
func (tx *Tx) join(bi int) {
	if bi <= 0 || bi >= len(tx.d.blocks) {
		return
	}
	tx.changed = true

	prev := &tx.d.blocks[bi-1]
	prev.Nodes = normalize(slices.Concat(prev.Nodes, tx.d.blocks[bi].Nodes))
	tx.d.blocks = slices.Delete(tx.d.blocks, bi, bi+1)
}
