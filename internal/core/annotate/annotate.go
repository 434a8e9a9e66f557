// Package annotate injects suggestion marks into a document.
//
// Injection is always a full rescan: every existing mark and diff is
// stripped first, then each suggestion in batch order claims the first
// occurrence of its original text that no earlier suggestion has claimed.
// Matching runs against plain text only, so one suggestion's wrapper can
// never be swallowed by another's match.
package annotate

import (
	"fmt"
	"strings"

	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/suggest"
)

// Span is a plain-text range inside one block.
type Span struct {
	Block int
	Start int
	End   int
}

func (s Span) overlaps(o Span) bool {
	return s.Block == o.Block && s.Start < o.End && o.Start < s.End
}

// Result reports which suggestions received an anchor.
type Result struct {
	Anchored []int
	Missing  []int // text-not-found: left in the active set without an anchor
}

// Strip removes all marks and diffs from doc.
func Strip(doc *document.Document) error {
	return doc.Apply(document.ChangeAnnotate, func(tx *document.Tx) error {
		tx.Strip()
		return nil
	})
}

// Inject strips doc and wraps the first unclaimed occurrence of each
// suggestion's original text. The document's plain text is unchanged.
func Inject(doc *document.Document, suggestions []suggest.Suggestion) (Result, error) {
	var res Result

	err := doc.Apply(document.ChangeAnnotate, func(tx *document.Tx) error {
		tx.Strip()

		plains := make([]string, tx.BlockCount())
		for i := range plains {
			plains[i] = tx.Block(i).Plain()
		}

		var claimed []Span
		for _, s := range suggestions {
			span, ok := Locate(plains, s.OriginalText, claimed)
			if !ok {
				res.Missing = append(res.Missing, s.ID)
				continue
			}

			if err := tx.Wrap(span.Block, span.Start, span.End, s.ID); err != nil {
				return fmt.Errorf("wrap suggestion %d: %w", s.ID, err)
			}
			claimed = append(claimed, span)
			res.Anchored = append(res.Anchored, s.ID)
		}

		return nil
	})

	return res, err
}

// Locate returns the first occurrence of text, in reading order, that does
// not overlap any claimed span. Empty text and text spanning blocks are
// never found.
func Locate(plains []string, text string, claimed []Span) (Span, bool) {
	if text == "" || strings.Contains(text, "\n") {
		return Span{}, false
	}

	for bi, plain := range plains {
		from := 0
		for from <= len(plain)-len(text) {
			i := strings.Index(plain[from:], text)
			if i < 0 {
				break
			}

			candidate := Span{Block: bi, Start: from + i, End: from + i + len(text)}
			if !overlapsAny(candidate, claimed) {
				return candidate, true
			}
			from = candidate.Start + 1
		}
	}

	return Span{}, false
}

func overlapsAny(s Span, claimed []Span) bool {
	for _, c := range claimed {
		if s.overlaps(c) {
			return true
		}
	}
	return false
}
