// Package suggest defines suggestion batches and the collaborators that
// produce them.
package suggest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies a suggestion.
type Category string

// Known suggestion categories.
const (
	CategoryGrammar      Category = "Grammar"
	CategorySpelling     Category = "Spelling"
	CategoryClarity      Category = "Clarity"
	CategoryConcision    Category = "Concision"
	CategoryStyle        Category = "Style"
	CategoryTone         Category = "Tone"
	CategoryAdverb       Category = "Adverb"
	CategoryPassiveVoice Category = "Passive Voice"
	CategoryWordChoice   Category = "Word Choice"
	CategoryOther        Category = "Other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryGrammar,
	CategorySpelling,
	CategoryClarity,
	CategoryConcision,
	CategoryStyle,
	CategoryTone,
	CategoryAdverb,
	CategoryPassiveVoice,
	CategoryWordChoice,
	CategoryOther,
}

// ParseCategory maps s onto a known category, ignoring case and
// separators. Unknown values become CategoryOther.
func ParseCategory(s string) Category {
	key := normalizeCategory(s)
	for _, c := range Categories {
		if normalizeCategory(string(c)) == key {
			return c
		}
	}
	return CategoryOther
}

func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// Suggestion is a proposed edit anchored to literal text in the document.
// Its ID is its position in the batch; the original text is not an
// identity since it can repeat or be edited away.
type Suggestion struct {
	ID              int      `json:"id"              yaml:"id"`
	OriginalText    string   `json:"originalText"    yaml:"original_text"`
	ReplacementText string   `json:"replacementText" yaml:"replacement_text"`
	Reasoning       string   `json:"reasoning"       yaml:"reasoning"`
	Category        Category `json:"category"        yaml:"category"`
}

// Batch is one complete set of suggestions. A new batch replaces the
// previous one wholesale.
type Batch struct {
	ID          string
	Generation  uint64
	Suggestions []Suggestion
	CreatedAt   time.Time
}

// NewBatch numbers the suggestions by position and normalises categories.
func NewBatch(generation uint64, suggestions []Suggestion) Batch {
	out := make([]Suggestion, len(suggestions))
	for i, s := range suggestions {
		s.ID = i
		s.Category = ParseCategory(string(s.Category))
		out[i] = s
	}

	return Batch{
		ID:          uuid.NewString(),
		Generation:  generation,
		Suggestions: out,
		CreatedAt:   time.Now(),
	}
}

// Get returns the suggestion with the given ID.
func (b Batch) Get(id int) (Suggestion, bool) {
	if id < 0 || id >= len(b.Suggestions) {
		return Suggestion{}, false
	}
	return b.Suggestions[id], true
}

// Source produces suggestions for a document's plain text. Failure leaves
// the caller's active set untouched.
type Source interface {
	Produce(ctx context.Context, plainText string) ([]Suggestion, error)
}

// Rewriter rewrites a selected passage following a free-form instruction.
// surrounding carries the text around the passage.
type Rewriter interface {
	Rewrite(ctx context.Context, original, instruction, surrounding string) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, plainText string) ([]Suggestion, error)

// Produce calls f.
func (f SourceFunc) Produce(ctx context.Context, plainText string) ([]Suggestion, error) {
	return f(ctx, plainText)
}
