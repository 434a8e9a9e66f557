package document

import "strings"

// Kind identifies the type of an inline node.
type Kind int

const (
	KindText Kind = iota // plain text
	KindMark             // highlighted suggestion anchor
	KindDiff             // open deletion/insertion pair
)

// String returns the string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMark:
		return "mark"
	case KindDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// Node is a single inline run inside a block.
type Node struct {
	Kind         Kind
	Text         string // Content of text and mark nodes
	SuggestionID int    // Owning suggestion for mark and diff nodes
	Deletion     string // Diff: text shown struck through
	Insertion    string // Diff: proposed replacement
	Original     string // Diff: text restored when the diff is reverted
}

// Text returns a plain text node.
func Text(s string) Node {
	return Node{Kind: KindText, Text: s}
}

// Mark returns an annotation node wrapping s for the given suggestion.
func Mark(id int, s string) Node {
	return Node{Kind: KindMark, SuggestionID: id, Text: s}
}

// Diff returns a diff node for the given suggestion. The original text is
// kept separately from the deletion so it survives a revert untouched.
func Diff(id int, deletion, insertion, original string) Node {
	return Node{
		Kind:         KindDiff,
		SuggestionID: id,
		Deletion:     deletion,
		Insertion:    insertion,
		Original:     original,
	}
}

// Plain returns the committed text of the node. A diff contributes its
// original text; the insertion only becomes plain text once accepted.
func (n Node) Plain() string {
	if n.Kind == KindDiff {
		return n.Original
	}
	return n.Text
}

// Visible returns the text a reader sees on screen for the node.
func (n Node) Visible() string {
	if n.Kind == KindDiff {
		return n.Deletion + n.Insertion
	}
	return n.Text
}

// Annotated reports whether the node belongs to a suggestion.
func (n Node) Annotated() bool {
	return n.Kind == KindMark || n.Kind == KindDiff
}

// Block is a paragraph: an ordered run of inline nodes.
type Block struct {
	Nodes []Node
}

// Plain returns the committed text of the block.
func (b Block) Plain() string {
	var sb strings.Builder
	for _, n := range b.Nodes {
		sb.WriteString(n.Plain())
	}
	return sb.String()
}

// Visible returns the on-screen text of the block.
func (b Block) Visible() string {
	var sb strings.Builder
	for _, n := range b.Nodes {
		sb.WriteString(n.Visible())
	}
	return sb.String()
}

func (b Block) clone() Block {
	nodes := make([]Node, len(b.Nodes))
	copy(nodes, b.Nodes)
	return Block{Nodes: nodes}
}

// normalize drops empty text and mark nodes and merges adjacent text nodes.
// An empty mark has lost its anchor text and is discarded with it.
func normalize(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			if n.Text == "" {
				continue
			}
			if last := len(out) - 1; last >= 0 && out[last].Kind == KindText {
				out[last].Text += n.Text
				continue
			}
		case KindMark:
			if n.Text == "" {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// Pos addresses a location in the document: a block index and a byte offset
// into that block's plain text.
type Pos struct {
	Block  int
	Offset int
}

// Before reports whether p sorts before q in reading order.
func (p Pos) Before(q Pos) bool {
	if p.Block != q.Block {
		return p.Block < q.Block
	}
	return p.Offset < q.Offset
}

// Ref addresses a node inside the document.
type Ref struct {
	Block int
	Index int
}
