package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/scribe/internal/analysis"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/core/suggest"
	"github.com/colonyops/scribe/internal/scribe"
	"github.com/colonyops/scribe/pkg/iojson"
)

const (
	formatAuto     = "auto"
	formatJSON     = "json"
	formatMarkdown = "markdown"

	reportWidth = 100
)

type AnalyzeCmd struct {
	flags  *Flags
	format string
}

// NewAnalyzeCmd creates a new analyze command.
func NewAnalyzeCmd(flags *Flags) *AnalyzeCmd {
	return &AnalyzeCmd{flags: flags}
}

// Register adds the analyze command to the application.
func (cmd *AnalyzeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "analyze",
		Usage:     "Print suggestions for a document without opening the editor",
		ArgsUsage: "FILE",
		Description: `Runs the configured analysis source over FILE and prints the batch.
Each suggestion reports whether its original text was found in the
document, which decides whether the editor would anchor it.

Use - as FILE to read from stdin. Output is a markdown report on a
terminal and JSON otherwise.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (auto, json, markdown)",
				Value:       formatAuto,
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

// Report is the analyze command output.
type Report struct {
	Document    string             `json:"document"`
	Source      string             `json:"source"`
	Suggestions []ReportSuggestion `json:"suggestions"`
}

// ReportSuggestion is a suggestion with its anchoring result.
type ReportSuggestion struct {
	suggest.Suggestion
	Anchored bool `json:"anchored"`
}

func (cmd *AnalyzeCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("analyze needs exactly one file")
	}
	path := c.Args().First()

	text, err := readInput(path, os.Stdin)
	if err != nil {
		return err
	}

	docPath := path
	if path == "-" {
		docPath = ""
	}

	out := c.Root().Writer
	format := cmd.resolveFormat(out)

	report, err := cmd.analyze(ctx, docPath, text)
	if err != nil {
		if format != formatJSON {
			return err
		}
		if werr := iojson.WriteError(c.Root().ErrWriter, err.Error(), map[string]any{"document": path}); werr != nil {
			return werr
		}
		return cli.Exit("", 1)
	}
	if path == "-" {
		report.Document = "stdin"
	}

	switch format {
	case formatMarkdown:
		return writeMarkdown(out, report)
	default:
		return iojson.WriteWith(out, c.Root().ErrWriter, report)
	}
}

// analyze runs the configured source and anchors the batch against the
// document to report which suggestions were found.
func (cmd *AnalyzeCmd) analyze(ctx context.Context, path, text string) (Report, error) {
	cfg := cmd.flags.Config

	source, err := analysis.NewSource(cfg.Analysis, path, cmd.flags.executor())
	if err != nil {
		return Report{}, fmt.Errorf("analysis source: %w", err)
	}

	if cfg.Analysis.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Analysis.Timeout)
		defer cancel()
	}

	sugs, err := source.Produce(ctx, text)
	if err != nil {
		return Report{}, fmt.Errorf("analyze: %w", err)
	}

	editor := scribe.New(text, scribe.Options{Path: path, Width: reportWidth})
	defer editor.Close()

	if err := editor.ApplyBatch(sugs); err != nil {
		return Report{}, fmt.Errorf("anchor suggestions: %w", err)
	}

	missing := make(map[int]bool)
	for _, id := range editor.Missing() {
		missing[id] = true
	}

	report := Report{
		Document:    path,
		Source:      cfg.Analysis.Source,
		Suggestions: make([]ReportSuggestion, 0, len(sugs)),
	}
	for _, s := range editor.Batch().Suggestions {
		report.Suggestions = append(report.Suggestions, ReportSuggestion{
			Suggestion: s,
			Anchored:   !missing[s.ID],
		})
	}
	return report, nil
}

func (cmd *AnalyzeCmd) resolveFormat(w io.Writer) string {
	if cmd.format != formatAuto {
		return cmd.format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return formatMarkdown
	}
	return formatJSON
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

// markdownReport renders the report as markdown.
func markdownReport(r Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Document)
	fmt.Fprintf(&sb, "%d suggestions from the `%s` source.\n\n", len(r.Suggestions), r.Source)

	for _, s := range r.Suggestions {
		category := string(s.Category)
		if category == "" {
			category = string(suggest.CategoryOther)
		}
		fmt.Fprintf(&sb, "## %d. %s\n\n", s.ID+1, category)
		fmt.Fprintf(&sb, "- ~~%s~~ → **%s**\n", s.OriginalText, s.ReplacementText)
		if !s.Anchored {
			sb.WriteString("- _not found in the document_\n")
		}
		if s.Reasoning != "" {
			fmt.Fprintf(&sb, "\n> %s\n", s.Reasoning)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeMarkdown(w io.Writer, r Report) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(reportWidth),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdownReport(r))
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
