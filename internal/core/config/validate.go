package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/scribe/internal/core/styles"
	"github.com/colonyops/scribe/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// command resolution, glob patterns, and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("theme", c.Theme, themeExists),
		c.validateCommands(),
		c.validateAnalyzers(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Analysis.Source != SourceCommand && c.Analysis.Command != "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Analysis",
			Item:     "command",
			Message:  fmt.Sprintf("command is ignored while source is %q", c.Analysis.Source),
		})
	}

	if c.Analysis.Source != SourceCommand && len(c.Analysis.Analyzers) > 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Analysis",
			Item:     "analyzers",
			Message:  fmt.Sprintf("analyzers are ignored while source is %q", c.Analysis.Source),
		})
	}

	if c.Analysis.RewriteCommand == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Analysis",
			Item:     "rewrite_command",
			Message:  "no rewrite command; the instruction menu is disabled",
		})
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and the suggestion file.
func (c *Config) validateFileAccess(configPath string) error {
	var suggestionFile error
	if c.Analysis.Source == SourceFile {
		suggestionFile = criterio.Run("analysis.file", c.Analysis.File, fileReadable)
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		suggestionFile,
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// validateCommands checks that every configured command's executable resolves.
func (c *Config) validateCommands() error {
	var errs criterio.FieldErrorsBuilder
	if c.Analysis.Command != "" {
		if err := commandExists(c.Analysis.Command); err != nil {
			errs = errs.Append("analysis.command", err)
		}
	}
	if c.Analysis.RewriteCommand != "" {
		if err := commandExists(c.Analysis.RewriteCommand); err != nil {
			errs = errs.Append("analysis.rewrite_command", err)
		}
	}
	return errs.ToError()
}

// validateAnalyzers checks analyzer glob patterns and commands.
func (c *Config) validateAnalyzers() error {
	var errs criterio.FieldErrorsBuilder
	for i, a := range c.Analysis.Analyzers {
		if !doublestar.ValidatePattern(a.Pattern) {
			errs = errs.Append(fmt.Sprintf("analysis.analyzers[%d].pattern", i), fmt.Errorf("invalid glob %q", a.Pattern))
		}
		if err := commandExists(a.Command); err != nil {
			errs = errs.Append(fmt.Sprintf("analysis.analyzers[%d].command", i), err)
		}
	}
	return errs.ToError()
}

// commandExists validates that a command template parses and that the first
// word of the shell command is executable.
func commandExists(cmd string) error {
	if err := tmpl.Check(cmd); err != nil {
		return err
	}
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return fmt.Errorf("command is empty")
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		return fmt.Errorf("executable not found: %s", fields[0])
	}
	return nil
}

func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q, available: %s", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func fileReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read: %w", err)
	}
	return f.Close()
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
