package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/suggest"
)

func TestBuiltin_Produce(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		original string
		want     string
		category suggest.Category
	}{
		{
			name:     "verb and adverb",
			text:     "He ran quickly to the store.",
			original: "ran quickly",
			want:     "sprinted",
			category: suggest.CategoryAdverb,
		},
		{
			name:     "intensifier keeps capital",
			text:     "Very good work today.",
			original: "Very good",
			want:     "Excellent",
			category: suggest.CategoryWordChoice,
		},
		{
			name:     "wordy phrase",
			text:     "We met in order to plan.",
			original: "in order to",
			want:     "to",
			category: suggest.CategoryConcision,
		},
		{
			name:     "doubled word",
			text:     "It was the the best.",
			original: "the the",
			want:     "the",
			category: suggest.CategoryGrammar,
		},
		{
			name:     "passive voice",
			text:     "The ball was kicked by the boy.",
			original: "The ball was kicked by the boy",
			want:     "The boy kicked the ball",
			category: suggest.CategoryPassiveVoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sugs, err := NewBuiltin().Produce(context.Background(), tt.text)
			require.NoError(t, err)
			require.Len(t, sugs, 1)

			assert.Equal(t, tt.original, sugs[0].OriginalText)
			assert.Equal(t, tt.want, sugs[0].ReplacementText)
			assert.Equal(t, tt.category, sugs[0].Category)
			assert.NotEmpty(t, sugs[0].Reasoning)
		})
	}
}

func TestBuiltin_ReadingOrderAndRepeats(t *testing.T) {
	text := "A very good start.\nThen a very good finish, said quietly."

	sugs, err := NewBuiltin().Produce(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, sugs, 3)

	assert.Equal(t, "very good", sugs[0].OriginalText)
	assert.Equal(t, "very good", sugs[1].OriginalText, "each occurrence gets its own suggestion")
	assert.Equal(t, "said quietly", sugs[2].OriginalText)
	for i, s := range sugs {
		assert.Equal(t, i, s.ID)
	}
}

func TestBuiltin_AllowedRepeatsAndCleanText(t *testing.T) {
	sugs, err := NewBuiltin().Produce(context.Background(), "She had had enough. Nothing else here.")
	require.NoError(t, err)
	assert.Empty(t, sugs)
}

func TestBuiltin_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuiltin().Produce(ctx, "very good")
	assert.ErrorIs(t, err, context.Canceled)
}
