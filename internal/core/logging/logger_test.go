package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	logger := Component("layout")
	logger.Info().Msg("recomputed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "layout", entry["cmp"])
	assert.Equal(t, "recomputed", entry["message"])
}

func TestNew(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, _, err := New("loud", "")
		assert.Error(t, err)
	})

	t.Run("writes to file with context fields", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "logs", "scribe.log")

		logger, closer, err := New("debug", file)
		require.NoError(t, err)

		ctx := WithBatchID(WithDocument(context.Background(), "draft.md"), "batch-1")
		logger.Info().Ctx(ctx).Msg("batch applied")
		closer()

		data, err := os.ReadFile(file)
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(data, &entry))
		assert.Equal(t, "draft.md", entry["document"])
		assert.Equal(t, "batch-1", entry["batch_id"])
		assert.Equal(t, "batch applied", entry["message"])
	})
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewWriter("warn", &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetDocument(ctx))
	assert.Empty(t, GetBatchID(ctx))

	ctx = WithDocument(ctx, "notes.txt")
	assert.Equal(t, "notes.txt", GetDocument(ctx))
}
