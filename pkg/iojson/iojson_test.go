package iojson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_Unmarshalable(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)}))
	assert.Empty(t, out.String())

	var got Error
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &got))
	assert.Equal(t, "marshal output", got.Message)
	assert.Contains(t, got.Data, "json_error")
}

func TestWriteError(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteError(&out, "analyze failed", map[string]any{"document": "draft.md"}))

	var got Error
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "analyze failed", got.Message)
	assert.Equal(t, "draft.md", got.Data["document"])
}
