package commands

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/core/config"
	"github.com/colonyops/scribe/internal/printer"
	"github.com/colonyops/scribe/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "scribe config validate [options]",
				Description: "Validates the configuration file, checking that commands resolve, templates parse, glob patterns compile, and the suggestion file is readable.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// fieldIssue is one failed check in JSON output.
type fieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	warnings := cmd.flags.Config.Warnings()

	if cmd.format == "json" {
		return cmd.outputJSON(c, err, warnings)
	}

	return cmd.outputText(printer.Ctx(ctx), err, warnings)
}

func (cmd *ConfigValidateCmd) outputJSON(c *cli.Command, err error, warnings []config.ValidationWarning) error {
	out := struct {
		Valid    bool                       `json:"valid"`
		Errors   []fieldIssue               `json:"errors,omitempty"`
		Warnings []config.ValidationWarning `json:"warnings,omitempty"`
	}{
		Valid:    err == nil,
		Errors:   issues(err),
		Warnings: warnings,
	}

	if werr := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); werr != nil {
		return werr
	}
	if err != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigValidateCmd) outputText(p *printer.Printer, err error, warnings []config.ValidationWarning) error {
	for _, warn := range warnings {
		p.Warnf("%s: %s", warn.Category, warn.Message)
		if warn.Item != "" {
			p.Printf("  Item: %s", warn.Item)
		}
	}

	found := issues(err)
	for _, issue := range found {
		if issue.Field != "" {
			p.Errorf("%s: %s", issue.Field, issue.Message)
			continue
		}
		p.Errorf("%s", issue.Message)
	}

	p.Printf("")
	if err == nil {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%d error(s) found", len(found))
	return cli.Exit("", 1)
}

// issues flattens a validation error into per-field issues.
func issues(err error) []fieldIssue {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []fieldIssue{{Message: err.Error()}}
	}

	out := make([]fieldIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fieldIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}
