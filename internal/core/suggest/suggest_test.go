package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Adverb", CategoryAdverb},
		{"adverb", CategoryAdverb},
		{"passive_voice", CategoryPassiveVoice},
		{"Word-Choice", CategoryWordChoice},
		{" grammar ", CategoryGrammar},
		{"vibes", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.in))
		})
	}
}

func TestNewBatch(t *testing.T) {
	b := NewBatch(3, []Suggestion{
		{ID: 42, OriginalText: "He ran quickly", ReplacementText: "He sprinted", Category: "adverb"},
		{OriginalText: "very good", ReplacementText: "excellent"},
	})

	require.Len(t, b.Suggestions, 2)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, uint64(3), b.Generation)
	assert.Equal(t, 0, b.Suggestions[0].ID, "ids follow batch position")
	assert.Equal(t, 1, b.Suggestions[1].ID)
	assert.Equal(t, CategoryAdverb, b.Suggestions[0].Category)
	assert.Equal(t, CategoryOther, b.Suggestions[1].Category)

	s, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, "very good", s.OriginalText)

	_, ok = b.Get(2)
	assert.False(t, ok)
}
