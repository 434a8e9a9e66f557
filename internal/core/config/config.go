// Package config handles configuration loading and validation for scribe.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/scribe/internal/core/styles"
)

// Analysis source kinds.
const (
	SourceBuiltin = "builtin"
	SourceCommand = "command"
	SourceFile    = "file"
)

// Config holds the application configuration.
type Config struct {
	Theme    string         `yaml:"theme"`
	Editor   EditorConfig   `yaml:"editor"`
	Analysis AnalysisConfig `yaml:"analysis"`
	History  HistoryConfig  `yaml:"history"`
	Debug    DebugConfig    `yaml:"debug"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// EditorConfig controls the editor layout.
type EditorConfig struct {
	CardWidth    int  `yaml:"card_width"`     // width of the margin card column
	MinTextWidth int  `yaml:"min_text_width"` // below this the sidebar is hidden
	Sidebar      bool `yaml:"sidebar"`        // show the card column on start
	TabWidth     int  `yaml:"tab_width"`
}

// AnalysisConfig selects where suggestions come from.
type AnalysisConfig struct {
	// Source is one of builtin, command or file.
	Source string `yaml:"source"`
	// Command is a shell command that reads the document on stdin and
	// prints a JSON array of suggestions.
	Command string `yaml:"command"`
	// RewriteCommand rewrites a selection; it reads a JSON request on stdin
	// and prints the replacement text.
	RewriteCommand string `yaml:"rewrite_command"`
	// File is a YAML or JSON suggestion batch.
	File string `yaml:"file"`
	// Watch reloads File whenever it changes.
	Watch   bool          `yaml:"watch"`
	Timeout time.Duration `yaml:"timeout"`
	// Analyzers override Command for documents matching a glob pattern.
	// The first match wins.
	Analyzers []Analyzer `yaml:"analyzers"`
}

// Analyzer binds a document glob to an analysis command.
type Analyzer struct {
	Pattern string `yaml:"pattern"`
	Command string `yaml:"command"`
}

// HistoryConfig controls the decision log.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DebugConfig holds developer switches.
type DebugConfig struct {
	// Strict panics on internal invariant violations instead of logging.
	Strict bool `yaml:"strict"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: styles.DefaultTheme,
		Editor: EditorConfig{
			CardWidth:    36,
			MinTextWidth: 40,
			Sidebar:      true,
			TabWidth:     4,
		},
		Analysis: AnalysisConfig{
			Source:  SourceBuiltin,
			Timeout: 30 * time.Second,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir

			cfg.resolvePaths(filepath.Dir(configPath))
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// resolvePaths makes relative file paths relative to the config directory.
func (c *Config) resolvePaths(dir string) {
	if c.Analysis.File != "" && !filepath.IsAbs(c.Analysis.File) {
		c.Analysis.File = filepath.Join(dir, c.Analysis.File)
	}
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Editor.CardWidth == 0 {
		c.Editor.CardWidth = defaults.Editor.CardWidth
	}
	if c.Editor.MinTextWidth == 0 {
		c.Editor.MinTextWidth = defaults.Editor.MinTextWidth
	}
	if c.Editor.TabWidth == 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Analysis.Source == "" {
		c.Analysis.Source = defaults.Analysis.Source
	}
	if c.Analysis.Timeout == 0 {
		c.Analysis.Timeout = defaults.Analysis.Timeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Editor.CardWidth < 16 {
		return fmt.Errorf("editor.card_width must be at least 16")
	}

	if c.Editor.MinTextWidth < 10 {
		return fmt.Errorf("editor.min_text_width must be at least 10")
	}

	if c.Editor.TabWidth < 1 {
		return fmt.Errorf("editor.tab_width must be at least 1")
	}

	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("analysis.timeout cannot be negative")
	}

	switch c.Analysis.Source {
	case SourceBuiltin:
	case SourceCommand:
		if c.Analysis.Command == "" && len(c.Analysis.Analyzers) == 0 {
			return fmt.Errorf("analysis.command is required when source is %q", SourceCommand)
		}
	case SourceFile:
		if c.Analysis.File == "" {
			return fmt.Errorf("analysis.file is required when source is %q", SourceFile)
		}
	default:
		return fmt.Errorf("analysis.source %q must be one of %s, %s, %s",
			c.Analysis.Source, SourceBuiltin, SourceCommand, SourceFile)
	}

	if c.Analysis.Watch && c.Analysis.Source != SourceFile {
		return fmt.Errorf("analysis.watch requires source %q", SourceFile)
	}

	for i, a := range c.Analysis.Analyzers {
		if a.Pattern == "" || a.Command == "" {
			return fmt.Errorf("analysis.analyzers[%d] needs both pattern and command", i)
		}
	}

	return nil
}

// DatabaseFile returns the path to the SQLite decision log.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "scribe.db")
}
