package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, "tokyo-night", cfg.Theme)
	assert.Equal(t, 36, cfg.Editor.CardWidth)
	assert.True(t, cfg.Editor.Sidebar)
	assert.Equal(t, SourceBuiltin, cfg.Analysis.Source)
	assert.Equal(t, 30*time.Second, cfg.Analysis.Timeout)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(dataDir, "scribe.db"), cfg.DatabaseFile())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, cfg.Analysis.Source)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
theme: gruvbox
editor:
  card_width: 40
  sidebar: false
analysis:
  source: file
  file: suggestions.yaml
  watch: true
  timeout: 5s
history:
  enabled: false
debug:
  strict: true
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, 40, cfg.Editor.CardWidth)
	assert.False(t, cfg.Editor.Sidebar)
	assert.Equal(t, 40, cfg.Editor.MinTextWidth, "unset values keep defaults")
	assert.Equal(t, SourceFile, cfg.Analysis.Source)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "suggestions.yaml"), cfg.Analysis.File)
	assert.True(t, cfg.Analysis.Watch)
	assert.Equal(t, 5*time.Second, cfg.Analysis.Timeout)
	assert.False(t, cfg.History.Enabled)
	assert.True(t, cfg.Debug.Strict)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "theme: [unterminated")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: "data directory"},
		{name: "narrow cards", mutate: func(c *Config) { c.Editor.CardWidth = 4 }, wantErr: "card_width"},
		{name: "unknown source", mutate: func(c *Config) { c.Analysis.Source = "magic" }, wantErr: "analysis.source"},
		{
			name:    "command source without command",
			mutate:  func(c *Config) { c.Analysis.Source = SourceCommand },
			wantErr: "analysis.command is required",
		},
		{
			name: "command source with analyzers only",
			mutate: func(c *Config) {
				c.Analysis.Source = SourceCommand
				c.Analysis.Analyzers = []Analyzer{{Pattern: "**/*.md", Command: "cat"}}
			},
		},
		{
			name:    "file source without file",
			mutate:  func(c *Config) { c.Analysis.Source = SourceFile },
			wantErr: "analysis.file is required",
		},
		{
			name:    "watch without file source",
			mutate:  func(c *Config) { c.Analysis.Watch = true },
			wantErr: "analysis.watch",
		},
		{
			name: "analyzer missing command",
			mutate: func(c *Config) {
				c.Analysis.Analyzers = []Analyzer{{Pattern: "*.md"}}
			},
			wantErr: "analyzers[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
