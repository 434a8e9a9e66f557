package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/scribe/internal/commands"
	"github.com/colonyops/scribe/internal/core/config"
	"github.com/colonyops/scribe/internal/core/logging"
	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/internal/data/db"
	"github.com/colonyops/scribe/internal/data/stores"
	"github.com/colonyops/scribe/internal/printer"
	"github.com/colonyops/scribe/pkg/executil"
	"github.com/colonyops/scribe/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

// deferredLogLimit caps stderr logs held while a command runs.
const deferredLogLimit = 1 << 20

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "scribe",
		Usage:     "Edit prose with inline AI suggestions",
		UsageText: "scribe [global options] [FILE]\n   scribe [global options] command [command options]",
		Description: `Scribe is a terminal editor that overlays suggestions on your text.

Each suggestion highlights the passage it would change and gets a card in
the right margin. Open a card to see the change as an inline diff, then
accept or reject it. Editing the text keeps every highlight and card in place.

Run 'scribe FILE' to open a document in the editor.
Run 'scribe analyze FILE' to print suggestions without the editor.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SCRIBE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/scribe.log, - for stderr)",
				Sources:     cli.EnvVars("SCRIBE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SCRIBE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SCRIBE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var (
				logger zerolog.Logger
				err    error
			)

			// The editor owns the terminal, so stderr logs wait until exit.
			if flags.LogFile == commands.StderrLog {
				flags.DeferredLog = &utils.DeferredWriter{Limit: deferredLogLimit}
				logger, err = logging.NewWriter(flags.LogLevel, flags.DeferredLog)
			} else {
				logFile := flags.LogFile
				if logFile == "" {
					logFile = filepath.Join(flags.DataDir, "scribe.log")
				}
				logger, logCloser, err = logging.New(flags.LogLevel, logFile)
			}
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			if palette, ok := styles.GetPalette(cfg.Theme); ok {
				styles.SetTheme(palette)
			}

			flags.Exec = &executil.RealExecutor{}
			ctx = printer.NewContext(ctx, printer.New(c.Root().Writer))

			if !cfg.History.Enabled {
				return ctx, nil
			}

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			database, err = stores.OpenWithRecovery(cfg.DataDir, db.DefaultOpenOptions())
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}
			log.Debug().Str("path", cfg.DatabaseFile()).Msg("decision history opened")

			flags.Decisions = stores.NewDecisionStore(database)
			flags.Notifications = stores.NewNotifyStore(database, 0)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			var closeErr error

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					closeErr = err
				}
			}

			if flags.DeferredLog != nil {
				if err := flags.DeferredLog.Flush(os.Stderr); err != nil && closeErr == nil {
					closeErr = err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return closeErr
		},
	}

	editCmd := commands.NewEditCmd(flags)

	app = editCmd.Register(app)
	app = commands.NewAnalyzeCmd(flags).Register(app)
	app = commands.NewHistoryCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register editor flags on root command
	app.Flags = append(app.Flags, editCmd.Flags()...)
	app.ArgsUsage = "[FILE]"

	// Open the editor when no subcommand is provided
	app.Action = editCmd.Run

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
