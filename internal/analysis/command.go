package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/scribe/internal/core/suggest"
	"github.com/colonyops/scribe/pkg/executil"
)

// ErrEmptyRewrite is returned when the rewrite command prints nothing.
var ErrEmptyRewrite = errors.New("rewrite command returned no text")

// Command runs a shell command that reads the document's plain text on
// stdin and prints a JSON batch on stdout.
type Command struct {
	Exec    executil.Executor
	Script  string
	Timeout time.Duration
}

// Produce runs the command and decodes its output.
func (c *Command) Produce(ctx context.Context, plainText string) ([]suggest.Suggestion, error) {
	ctx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	out, err := executil.Sh(ctx, c.Exec, strings.NewReader(plainText), c.Script)
	if err != nil {
		return nil, fmt.Errorf("run analysis command: %w", err)
	}

	sugs, err := Decode(out, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("analysis command output: %w", err)
	}
	return sugs, nil
}

// RewriteRequest is the JSON document a rewrite command reads on stdin.
type RewriteRequest struct {
	Original    string `json:"original"`
	Instruction string `json:"instruction"`
	Context     string `json:"context"`
}

// CommandRewriter rewrites a selection by running a shell command. The
// command prints the replacement text; a single trailing newline is
// dropped.
type CommandRewriter struct {
	Exec    executil.Executor
	Script  string
	Timeout time.Duration
}

// Rewrite runs the command with a RewriteRequest on stdin.
func (r *CommandRewriter) Rewrite(ctx context.Context, original, instruction, surrounding string) (string, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	req, err := json.Marshal(RewriteRequest{
		Original:    original,
		Instruction: instruction,
		Context:     surrounding,
	})
	if err != nil {
		return "", fmt.Errorf("encode rewrite request: %w", err)
	}

	out, err := executil.Sh(ctx, r.Exec, strings.NewReader(string(req)), r.Script)
	if err != nil {
		return "", fmt.Errorf("run rewrite command: %w", err)
	}

	text := strings.TrimSuffix(strings.TrimSuffix(string(out), "\n"), "\r")
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyRewrite
	}
	return text, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
