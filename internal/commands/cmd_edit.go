package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/analysis"
	"github.com/colonyops/scribe/internal/core/config"
	"github.com/colonyops/scribe/internal/core/logging"
	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/data/stores"
	"github.com/colonyops/scribe/internal/scribe"
	"github.com/colonyops/scribe/internal/tui"
	tuinotify "github.com/colonyops/scribe/internal/tui/notify"
)

// initialWidth lays the document out before the first window size arrives.
const initialWidth = 80

type EditCmd struct {
	flags      *Flags
	appendFile string
	print      bool
	noAnalyze  bool
	noSidebar  bool
}

// NewEditCmd creates the edit command. It is also the root action.
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Flags returns the editor flags for registration on the root command.
// They are local so they do not collide with the edit subcommand's own copy.
func (cmd *EditCmd) Flags() []cli.Flag {
	return cmd.flagSet(true)
}

func (cmd *EditCmd) flagSet(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "append",
			Usage:       "append the contents of `FILE` to the document once the editor starts",
			Local:       local,
			Destination: &cmd.appendFile,
		},
		&cli.BoolFlag{
			Name:        "print",
			Usage:       "print the final plain text to stdout on exit",
			Local:       local,
			Destination: &cmd.print,
		},
		&cli.BoolFlag{
			Name:        "no-analyze",
			Usage:       "do not run analysis when the editor opens",
			Sources:     cli.EnvVars("SCRIBE_NO_ANALYZE"),
			Local:       local,
			Destination: &cmd.noAnalyze,
		},
		&cli.BoolFlag{
			Name:        "no-sidebar",
			Usage:       "start with the suggestion card column hidden",
			Local:       local,
			Destination: &cmd.noSidebar,
		},
	}
}

// Register adds the edit command to the application.
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Open a document in the editor",
		ArgsUsage: "[FILE]",
		Description: `Opens FILE in the editor and analyzes it with the configured source.
Suggestions appear as highlighted spans with a card in the right margin.
Review a card to see the change inline, then accept or reject it.

Documents are never written back. Use --print to get the edited text.

Examples:
  scribe edit draft.md
  scribe edit --print draft.md > revised.md
  scribe edit --append notes.txt draft.md`,
		Flags:  cmd.flagSet(false),
		Action: cmd.run,
	})

	return app
}

// Run executes the editor. Exported for use as default command.
func (cmd *EditCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("edit takes at most one file, got %d", c.Args().Len())
	}
	path := c.Args().First()

	text, err := readDocument(path)
	if err != nil {
		return err
	}

	var appended string
	if cmd.appendFile != "" {
		data, err := os.ReadFile(cmd.appendFile)
		if err != nil {
			return fmt.Errorf("read append file: %w", err)
		}
		appended = string(data)
	}

	editor, opts, err := cmd.build(path, text)
	if err != nil {
		return err
	}
	defer editor.Close()

	ctx = logging.WithDocument(ctx, path)
	log.Info().Ctx(ctx).Int("bytes", len(text)).Msg("opening editor")

	p := tea.NewProgram(tui.New(editor, opts), tea.WithContext(ctx))

	if appended != "" {
		// Send blocks until the program is running.
		go p.Send(tui.AppendTextMsg{Text: appended})
	}

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	if cmd.print {
		model := finalModel.(tui.Model)
		_, err := fmt.Fprintln(c.Root().Writer, model.PlainText())
		return err
	}
	return nil
}

// build creates the editor service and the TUI options for a document.
func (cmd *EditCmd) build(path, text string) (*scribe.Editor, tui.Options, error) {
	cfg := cmd.flags.Config
	ex := cmd.flags.executor()

	source, err := analysis.NewSource(cfg.Analysis, path, ex)
	if err != nil {
		return nil, tui.Options{}, fmt.Errorf("analysis source: %w", err)
	}

	rewriter, err := analysis.NewRewriter(cfg.Analysis, path, ex)
	if err != nil {
		return nil, tui.Options{}, fmt.Errorf("rewriter: %w", err)
	}

	editor := scribe.New(text, scribe.Options{
		Path:      path,
		Width:     initialWidth,
		TabWidth:  cfg.Editor.TabWidth,
		Strict:    cfg.Debug.Strict,
		Decisions: cmd.flags.Decisions,
	})

	var watcher *analysis.Watcher
	if cfg.Analysis.Watch {
		watcher = analysis.NewWatcher(cfg.Analysis.File, logging.Component("analysis"))
	}

	var notifications notify.Store = notify.NewMemoryStore(stores.DefaultNotificationLimit)
	if cmd.flags.Notifications != nil {
		notifications = cmd.flags.Notifications
	}

	opts := tui.Options{
		Path:           path,
		Source:         source,
		Rewriter:       rewriter,
		Watcher:        watcher,
		NotifyBus:      tuinotify.NewBus(notifications),
		Timeout:        cfg.Analysis.Timeout,
		CardWidth:      cfg.Editor.CardWidth,
		MinTextWidth:   cfg.Editor.MinTextWidth,
		Sidebar:        cfg.Editor.Sidebar && !cmd.noSidebar,
		AnalyzeOnStart: !cmd.noAnalyze,
		Warnings:       startupWarnings(cfg),
	}

	return editor, opts, nil
}

// readDocument returns the contents of path. A missing file opens an empty
// document; an empty path is a scratch buffer.
func readDocument(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

// startupWarnings lists config problems worth a toast. A missing rewrite
// command is expected and only reported by config validate.
func startupWarnings(cfg *config.Config) []string {
	var out []string
	for _, w := range cfg.Warnings() {
		if w.Item == "rewrite_command" {
			continue
		}
		out = append(out, fmt.Sprintf("config %s: %s", w.Item, w.Message))
	}
	return out
}
