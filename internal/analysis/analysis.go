// Package analysis provides the suggestion sources and the selection
// rewriter used by the editor.
package analysis

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/scribe/internal/core/config"
	"github.com/colonyops/scribe/internal/core/suggest"
	"github.com/colonyops/scribe/pkg/executil"
	"github.com/colonyops/scribe/pkg/tmpl"
)

// NewSource builds the suggestion source configured for the document at
// path.
func NewSource(cfg config.AnalysisConfig, path string, ex executil.Executor) (suggest.Source, error) {
	switch cfg.Source {
	case config.SourceBuiltin, "":
		return NewBuiltin(), nil
	case config.SourceCommand:
		script := CommandFor(cfg, path)
		if script == "" {
			return nil, fmt.Errorf("no analysis command for %q", path)
		}
		script, err := renderCommand(script, path)
		if err != nil {
			return nil, fmt.Errorf("analysis command: %w", err)
		}
		return &Command{Exec: ex, Script: script, Timeout: cfg.Timeout}, nil
	case config.SourceFile:
		return &File{Path: cfg.File}, nil
	default:
		return nil, fmt.Errorf("unknown analysis source %q", cfg.Source)
	}
}

// NewRewriter returns the configured selection rewriter, or nil when none
// is configured.
func NewRewriter(cfg config.AnalysisConfig, path string, ex executil.Executor) (suggest.Rewriter, error) {
	if cfg.RewriteCommand == "" {
		return nil, nil
	}
	script, err := renderCommand(cfg.RewriteCommand, path)
	if err != nil {
		return nil, fmt.Errorf("rewrite command: %w", err)
	}
	return &CommandRewriter{Exec: ex, Script: script, Timeout: cfg.Timeout}, nil
}

// renderCommand expands {{ .Path }} style actions in a configured command.
// Commands without actions are returned as is.
func renderCommand(script, path string) (string, error) {
	if !tmpl.IsTemplate(script) {
		return script, nil
	}
	return tmpl.Render(script, tmpl.NewDocumentData(path))
}

// CommandFor returns the analysis command for the document at path. The
// first analyzer whose pattern matches wins; patterns without a slash also
// match against the base name.
func CommandFor(cfg config.AnalysisConfig, path string) string {
	if path != "" {
		slashed := filepath.ToSlash(path)
		for _, a := range cfg.Analyzers {
			if matchPattern(a.Pattern, slashed) {
				return a.Command
			}
		}
	}
	return cfg.Command
}

func matchPattern(pattern, path string) bool {
	if ok, _ := doublestar.Match(pattern, path); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, filepath.Base(path))
		return ok
	}
	return false
}
