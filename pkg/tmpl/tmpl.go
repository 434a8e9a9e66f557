// Package tmpl renders the shell command templates found in the config.
package tmpl

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

// shellQuote returns a shell-safe quoted string. It wraps the string in single
// quotes and escapes any existing single quotes using the '\" technique.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

// trimExt drops the extension from a file name.
func trimExt(s string) string {
	return strings.TrimSuffix(s, filepath.Ext(s))
}

var funcs = template.FuncMap{
	"shq":     shellQuote,
	"join":    strings.Join,
	"base":    filepath.Base,
	"dir":     filepath.Dir,
	"ext":     filepath.Ext,
	"trimExt": trimExt,
	"default": func(def, s string) string {
		if s == "" {
			return def
		}
		return s
	},
}

// DocumentData is the data available to analysis and rewrite command
// templates.
type DocumentData struct {
	Path string // path of the edited document, empty for scratch buffers
	Name string // base name of Path
}

// NewDocumentData builds template data for the document at path.
func NewDocumentData(path string) DocumentData {
	d := DocumentData{Path: path}
	if path != "" {
		d.Name = filepath.Base(path)
	}
	return d
}

// IsTemplate reports whether s contains template actions.
func IsTemplate(s string) bool {
	return strings.Contains(s, "{{")
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - shq: Shell-quote a string for safe use in shell commands
//   - join: Join string slice with separator (e.g., join .Args " ")
//   - base, dir, ext, trimExt: path helpers (e.g., {{ .Path | trimExt }})
//   - default: fallback for empty values (e.g., {{ .Name | default "draft" }})
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// Check parses tmpl without executing it.
func Check(tmpl string) error {
	if _, err := template.New("").Funcs(funcs).Parse(tmpl); err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	return nil
}
