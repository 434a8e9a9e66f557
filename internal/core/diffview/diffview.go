// Package diffview swaps a suggestion's mark for an inline diff and back.
package diffview

import (
	"errors"
	"fmt"

	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/suggest"
)

var (
	// ErrAnchorMissing is returned when the suggestion has no mark in the
	// document, usually because its text was edited away.
	ErrAnchorMissing = errors.New("suggestion has no anchor")
	// ErrStaleMatch is returned when the mark's text no longer equals the
	// suggestion's original text.
	ErrStaleMatch = errors.New("anchor text no longer matches suggestion")
	// ErrNoDiff is returned when no diff is open for the suggestion.
	ErrNoDiff = errors.New("no open diff for suggestion")
)

// CanShow reports, without mutating doc, whether Show would succeed.
func CanShow(doc *document.Document, s suggest.Suggestion) error {
	_, n, ok := doc.Find(s.ID)
	if !ok {
		return ErrAnchorMissing
	}
	if n.Kind == document.KindMark && n.Text != s.OriginalText {
		return fmt.Errorf("suggestion %d: %w", s.ID, ErrStaleMatch)
	}
	return nil
}

// Show replaces the mark for s with a diff of its original and replacement
// text. The document's plain text is unchanged.
func Show(doc *document.Document, s suggest.Suggestion) error {
	return doc.Apply(document.ChangeDiff, func(tx *document.Tx) error {
		ref, n, ok := tx.Find(s.ID)
		if !ok {
			return ErrAnchorMissing
		}

		switch n.Kind {
		case document.KindDiff:
			return nil
		case document.KindMark:
			if n.Text != s.OriginalText {
				return fmt.Errorf("suggestion %d: %w", s.ID, ErrStaleMatch)
			}
		}

		tx.Replace(ref, document.Diff(s.ID, n.Text, s.ReplacementText, n.Text))
		return nil
	})
}

// Accept commits the open diff for id, leaving its insertion as plain text.
// It returns the committed text.
func Accept(doc *document.Document, id int) (string, error) {
	var committed string
	err := doc.Apply(document.ChangeDiff, func(tx *document.Tx) error {
		ref, n, ok := tx.Find(id)
		if !ok || n.Kind != document.KindDiff {
			return fmt.Errorf("suggestion %d: %w", id, ErrNoDiff)
		}

		committed = n.Insertion
		tx.Replace(ref, document.Text(n.Insertion))
		return nil
	})
	return committed, err
}

// Reject reverts the open diff for id to a mark of its original text.
func Reject(doc *document.Document, id int) error {
	return revert(doc, id)
}

// Collapse closes the open diff for id without resolving it. The result is
// the same mark Reject produces; only the review state differs.
func Collapse(doc *document.Document, id int) error {
	return revert(doc, id)
}

func revert(doc *document.Document, id int) error {
	return doc.Apply(document.ChangeDiff, func(tx *document.Tx) error {
		ref, n, ok := tx.Find(id)
		if !ok || n.Kind != document.KindDiff {
			return fmt.Errorf("suggestion %d: %w", id, ErrNoDiff)
		}

		tx.Replace(ref, document.Mark(id, n.Original))
		return nil
	})
}
