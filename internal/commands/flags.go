package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/scribe/internal/core/config"
	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/core/review"
	"github.com/colonyops/scribe/pkg/executil"
	"github.com/colonyops/scribe/pkg/utils"
)

// StderrLog is the --log-file value that sends logs to stderr. Lines are
// held until the command exits so they do not tear the editor screen.
const StderrLog = "-"

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Decisions is the review decision log; nil when history is disabled
	Decisions review.Store

	// Notifications keeps the editor's notification history; may be nil
	Notifications notify.Store

	// Exec runs analysis and rewrite commands
	Exec executil.Executor

	// DeferredLog buffers stderr logs while a command runs
	DeferredLog *utils.DeferredWriter
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "scribe", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "scribe")
}

func (f *Flags) executor() executil.Executor {
	if f.Exec != nil {
		return f.Exec
	}
	return &executil.RealExecutor{}
}
