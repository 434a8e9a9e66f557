package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/config"
	"github.com/colonyops/scribe/internal/core/review"
	"github.com/colonyops/scribe/internal/data/db"
	"github.com/colonyops/scribe/internal/data/stores"
	"github.com/colonyops/scribe/internal/printer"
	"github.com/colonyops/scribe/pkg/executil"
	"github.com/colonyops/scribe/pkg/iojson"
)

func testFlags(t *testing.T) *Flags {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	return &Flags{
		Config: &cfg,
		Exec:   &executil.RecordingExecutor{},
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type registrar interface {
	Register(app *cli.Command) *cli.Command
}

func runApp(t *testing.T, cmd registrar, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:      "scribe",
		Writer:    &buf,
		ErrWriter: &buf,
		// cli.Exit would otherwise end the test binary.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	cmd.Register(app)

	ctx := printer.NewContext(context.Background(), printer.New(&buf))
	err := app.Run(ctx, append([]string{"scribe"}, args...))
	return buf.String(), err
}

func TestAnalyze_JSON(t *testing.T) {
	flags := testFlags(t)
	flags.Config.Analysis.Source = config.SourceFile
	flags.Config.Analysis.File = writeFile(t, "batch.yaml", `
- original_text: ran quickly
  replacement_text: sprinted
  category: adverb
- original_text: galloped
  replacement_text: rode
`)
	doc := writeFile(t, "draft.md", "He ran quickly to the store.")

	out, err := runApp(t, NewAnalyzeCmd(flags), "analyze", "--format", "json", doc)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, doc, report.Document)
	assert.Equal(t, config.SourceFile, report.Source)
	require.Len(t, report.Suggestions, 2)
	assert.True(t, report.Suggestions[0].Anchored)
	assert.Equal(t, "sprinted", report.Suggestions[0].ReplacementText)
	assert.Equal(t, "Adverb", string(report.Suggestions[0].Category))
	assert.False(t, report.Suggestions[1].Anchored)
}

func TestAnalyze_Builtin(t *testing.T) {
	flags := testFlags(t)
	doc := writeFile(t, "draft.md", "It was a very good day.")

	out, err := runApp(t, NewAnalyzeCmd(flags), "analyze", "--format", "json", doc)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotEmpty(t, report.Suggestions)
	assert.Equal(t, "very good", report.Suggestions[0].OriginalText)
}

func TestAnalyze_Command(t *testing.T) {
	flags := testFlags(t)
	flags.Config.Analysis.Source = config.SourceCommand
	flags.Config.Analysis.Command = "lint {{ .Name }}"
	flags.Exec = &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"sh": []byte(`[{"originalText":"ran quickly","replacementText":"sprinted"}]`),
		},
	}
	doc := writeFile(t, "draft.md", "He ran quickly.")

	out, err := runApp(t, NewAnalyzeCmd(flags), "analyze", "--format", "json", doc)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Suggestions, 1)
	assert.True(t, report.Suggestions[0].Anchored)

	rec := flags.Exec.(*executil.RecordingExecutor)
	require.Len(t, rec.Commands, 1)
	assert.Contains(t, rec.Commands[0].Args, "lint draft.md")
}

func TestAnalyze_Markdown(t *testing.T) {
	flags := testFlags(t)
	flags.Config.Analysis.Source = config.SourceFile
	flags.Config.Analysis.File = writeFile(t, "batch.json", `[{"originalText":"ran quickly","replacementText":"sprinted","reasoning":"Stronger verb."}]`)
	doc := writeFile(t, "draft.md", "He ran quickly.")

	out, err := runApp(t, NewAnalyzeCmd(flags), "analyze", "--format", "markdown", doc)
	require.NoError(t, err)
	out = ansi.Strip(out)

	assert.Contains(t, out, "sprinted")
	assert.Contains(t, out, "Stronger verb.")
}

func TestAnalyze_NeedsFile(t *testing.T) {
	_, err := runApp(t, NewAnalyzeCmd(testFlags(t)), "analyze")
	assert.Error(t, err)
}

func TestAnalyze_JSONFailure(t *testing.T) {
	flags := testFlags(t)
	flags.Config.Analysis.Source = config.SourceFile
	flags.Config.Analysis.File = filepath.Join(t.TempDir(), "missing.json")
	doc := writeFile(t, "draft.md", "He ran quickly.")

	out, err := runApp(t, NewAnalyzeCmd(flags), "analyze", "--format", "json", doc)
	require.Error(t, err)

	var got iojson.Error
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.Message)
	assert.Equal(t, doc, got.Data["document"])
}

func TestMarkdownReport(t *testing.T) {
	md := markdownReport(Report{
		Document: "draft.md",
		Source:   "builtin",
		Suggestions: []ReportSuggestion{
			{Anchored: false},
		},
	})

	assert.Contains(t, md, "# draft.md")
	assert.Contains(t, md, "## 1. Other")
	assert.Contains(t, md, "not found in the document")
}

func openHistory(t *testing.T, flags *Flags) *stores.DecisionStore {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	store := stores.NewDecisionStore(database)
	flags.Decisions = store
	return store
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	flags := testFlags(t)
	store := openHistory(t, flags)

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.SaveDecision(ctx, review.Decision{
		ID: "d1", BatchID: "b1", DocumentPath: "draft.md", Category: "Adverb",
		OriginalText: "ran quickly", ReplacementText: "sprinted",
		Outcome: review.OutcomeAccepted, CreatedAt: at,
	}))
	require.NoError(t, store.SaveDecision(ctx, review.Decision{
		ID: "d2", BatchID: "b1", Category: "Word Choice",
		OriginalText: "very good", ReplacementText: "excellent",
		Outcome: review.OutcomeRejected, CreatedAt: at.Add(time.Minute),
	}))

	t.Run("list", func(t *testing.T) {
		out, err := runApp(t, NewHistoryCmd(flags), "history")
		require.NoError(t, err)

		assert.Contains(t, out, "OUTCOME")
		assert.Contains(t, out, "ran quickly")
		assert.Contains(t, out, "[scratch]")
	})

	t.Run("filter by document", func(t *testing.T) {
		out, err := runApp(t, NewHistoryCmd(flags), "history", "--document", "draft.md", "--json")
		require.NoError(t, err)

		var got []review.Decision
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "d1", got[0].ID)
	})

	t.Run("stats", func(t *testing.T) {
		out, err := runApp(t, NewHistoryCmd(flags), "history", "stats")
		require.NoError(t, err)

		assert.Contains(t, out, "accepted  1")
		assert.Contains(t, out, "rejected  1")
		assert.Contains(t, out, "50%")
	})

	t.Run("clear", func(t *testing.T) {
		_, err := runApp(t, NewHistoryCmd(flags), "history", "clear")
		require.NoError(t, err)

		got, err := store.ListDecisions(ctx, "", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestHistory_Disabled(t *testing.T) {
	_, err := runApp(t, NewHistoryCmd(testFlags(t)), "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", shorten("short", 10))
	assert.Equal(t, "a b", shorten("a\n  b", 10))
	assert.Equal(t, "abcdefg...", shorten("abcdefghijklmnop", 10))
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := runApp(t, NewConfigValidateCmd(testFlags(t)), "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
	})

	t.Run("json errors", func(t *testing.T) {
		flags := testFlags(t)
		flags.Config.Theme = "no-such-theme"

		out, err := runApp(t, NewConfigValidateCmd(flags), "config", "validate", "--format", "json")
		require.Error(t, err)

		var got struct {
			Valid  bool         `json:"valid"`
			Errors []fieldIssue `json:"errors"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.False(t, got.Valid)
		require.Len(t, got.Errors, 1)
		assert.Equal(t, "theme", got.Errors[0].Field)
	})
}

func TestEditBuild(t *testing.T) {
	flags := testFlags(t)
	flags.Config.Analysis.RewriteCommand = "rewrite --doc {{ .Name | shq }}"
	flags.Config.Editor.CardWidth = 30

	cmd := NewEditCmd(flags)
	cmd.noSidebar = true

	editor, opts, err := cmd.build("notes/draft.md", "He ran quickly.")
	require.NoError(t, err)
	t.Cleanup(editor.Close)

	assert.Equal(t, "He ran quickly.", editor.PlainText())
	assert.Equal(t, "notes/draft.md", opts.Path)
	assert.NotNil(t, opts.Source)
	assert.NotNil(t, opts.Rewriter)
	assert.Nil(t, opts.Watcher)
	assert.Equal(t, 30, opts.CardWidth)
	assert.False(t, opts.Sidebar)
	assert.True(t, opts.AnalyzeOnStart)

	// Without a database, notification history stays in memory.
	require.NotNil(t, opts.NotifyBus)
	opts.NotifyBus.Infof("test", "hello")
	items, err := opts.NotifyBus.History()
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestReadDocument(t *testing.T) {
	text, err := readDocument("")
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = readDocument(filepath.Join(t.TempDir(), "new.md"))
	require.NoError(t, err)
	assert.Empty(t, text, "a missing file opens an empty document")

	text, err = readDocument(writeFile(t, "a.md", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestStartupWarnings(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Empty(t, startupWarnings(&cfg), "missing rewrite command is not worth a toast")

	cfg.Analysis.Command = "lint"
	warnings := startupWarnings(&cfg)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "command")
}
