package executil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInput_StderrCappedAtMaxLen(t *testing.T) {
	ctx := context.Background()

	// Write twice the cap to stderr; only the first maxStderrLen bytes should appear in the error.
	longStderr := strings.Repeat("A", maxStderrLen*2)
	script := fmt.Sprintf("printf '%%s' '%s' >&2; exit 1", longStderr)

	_, err := Sh(ctx, &RealExecutor{}, nil, script)
	require.Error(t, err)

	errMsg := err.Error()
	assert.LessOrEqual(t, len(errMsg), maxStderrLen+20, "error message should be capped")
	assert.Equal(t, strings.Repeat("A", maxStderrLen), errMsg[:maxStderrLen])
}

func TestRunInput_PreservesExitError(t *testing.T) {
	ctx := context.Background()

	_, err := Sh(ctx, &RealExecutor{}, nil, "echo 'error message' >&2; exit 2")
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "original ExitError should be preserved via wrapping")
	assert.Equal(t, 2, exitErr.ExitCode())
}

func TestRunInput_PipesStdin(t *testing.T) {
	ctx := context.Background()

	out, err := Sh(ctx, &RealExecutor{}, strings.NewReader("hello world"), "tr a-z A-Z")
	require.NoError(t, err)
	assert.Equal(t, "HELLO WORLD", string(out))
}

func TestRealExecutor_Run(t *testing.T) {
	exec := &RealExecutor{}
	ctx := context.Background()

	t.Run("successful command", func(t *testing.T) {
		out, err := exec.Run(ctx, "echo", "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("command not found", func(t *testing.T) {
		_, err := exec.Run(ctx, "nonexistent-command-12345")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exec nonexistent-command-12345")
	})
}

func TestRecordingExecutor(t *testing.T) {
	t.Run("records commands and stdin", func(t *testing.T) {
		exec := &RecordingExecutor{}
		ctx := context.Background()

		_, _ = exec.Run(ctx, "echo", "hello")
		_, _ = Sh(ctx, exec, strings.NewReader("draft"), "analyze --json")

		require.Len(t, exec.Commands, 2)
		assert.Equal(t, "echo", exec.Commands[0].Cmd)
		assert.Equal(t, []string{"hello"}, exec.Commands[0].Args)

		last, ok := exec.Last()
		require.True(t, ok)
		assert.Equal(t, "sh", last.Cmd)
		assert.Equal(t, []string{"-c", "analyze --json"}, last.Args)
		assert.Equal(t, "draft", last.Stdin)
	})

	t.Run("returns configured output and error", func(t *testing.T) {
		expectedErr := errors.New("command failed")
		exec := &RecordingExecutor{
			Outputs: map[string][]byte{"sh": []byte("output")},
			Errors:  map[string]error{"false": expectedErr},
		}
		ctx := context.Background()

		out, err := exec.RunInput(ctx, nil, "sh", "-c", "true")
		require.NoError(t, err)
		assert.Equal(t, []byte("output"), out)

		_, err = exec.Run(ctx, "false")
		assert.Equal(t, expectedErr, err)
	})

	t.Run("reset clears commands", func(t *testing.T) {
		exec := &RecordingExecutor{}
		_, _ = exec.Run(context.Background(), "echo", "hello")
		require.Len(t, exec.Commands, 1)

		exec.Reset()
		assert.Empty(t, exec.Commands)
		_, ok := exec.Last()
		assert.False(t, ok)
	})
}
