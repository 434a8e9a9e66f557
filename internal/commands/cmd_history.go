package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/review"
	"github.com/colonyops/scribe/internal/printer"
	"github.com/colonyops/scribe/pkg/iojson"
)

const maxHistoryText = 30

type HistoryCmd struct {
	flags    *Flags
	document string
	limit    int
	asJSON   bool
}

// NewHistoryCmd creates a new history command.
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application.
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "history",
		Usage: "Show accepted and rejected suggestions",
		Description: `Lists review decisions recorded by the editor, newest first.
Only the suggestion and its outcome are stored, never the document.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "document",
				Aliases:     []string{"d"},
				Usage:       "only show decisions for this document path",
				Destination: &cmd.document,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of decisions (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.asJSON,
			},
		},
		Action: cmd.runList,
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Count decisions by outcome",
				Action: cmd.runStats,
			},
			{
				Name:   "clear",
				Usage:  "Delete all recorded decisions",
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) store() (review.Store, error) {
	if cmd.flags.Decisions == nil {
		return nil, fmt.Errorf("decision history is disabled (history.enabled: false)")
	}
	return cmd.flags.Decisions, nil
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	store, err := cmd.store()
	if err != nil {
		return err
	}

	decisions, err := store.ListDecisions(ctx, cmd.document, cmd.limit)
	if err != nil {
		return fmt.Errorf("list decisions: %w", err)
	}

	if cmd.asJSON {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, decisions)
	}

	if len(decisions) == 0 {
		printer.Ctx(ctx).Infof("No decisions recorded")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tOUTCOME\tCATEGORY\tORIGINAL\tREPLACEMENT\tDOCUMENT")

	for _, d := range decisions {
		doc := d.DocumentPath
		if doc == "" {
			doc = "[scratch]"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.CreatedAt.Format("2006-01-02 15:04:05"),
			d.Outcome,
			d.Category,
			shorten(d.OriginalText, maxHistoryText),
			shorten(d.ReplacementText, maxHistoryText),
			doc,
		)
	}

	return w.Flush()
}

func (cmd *HistoryCmd) runStats(ctx context.Context, c *cli.Command) error {
	store, err := cmd.store()
	if err != nil {
		return err
	}

	counts, err := store.CountByOutcome(ctx)
	if err != nil {
		return fmt.Errorf("count decisions: %w", err)
	}

	accepted := counts[review.OutcomeAccepted]
	rejected := counts[review.OutcomeRejected]
	total := accepted + rejected

	p := printer.Ctx(ctx)
	p.Section("Decisions")
	p.Printf("accepted  %d", accepted)
	p.Printf("rejected  %d", rejected)
	if total > 0 {
		p.Printf("rate      %.0f%%", float64(accepted)*100/float64(total))
	}
	return nil
}

func (cmd *HistoryCmd) runClear(ctx context.Context, _ *cli.Command) error {
	store, err := cmd.store()
	if err != nil {
		return err
	}

	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("clear decisions: %w", err)
	}

	printer.Ctx(ctx).Successf("Decision history cleared")
	return nil
}

// shorten collapses whitespace and truncates s to n runes.
func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
