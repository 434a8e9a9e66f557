package analysis

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/scribe/internal/core/suggest"
)

// Format is the encoding of a suggestion batch.
type Format string

// Supported batch formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks a format from a file extension. Anything that is not
// YAML is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ErrNoOriginalText is returned for a suggestion without the text it
// would replace. Such a suggestion can never be anchored.
var ErrNoOriginalText = errors.New("suggestion has no original text")

// wireSuggestion is the collaborator encoding of a suggestion. Keys are
// accepted in camelCase and snake_case in both formats.
type wireSuggestion struct {
	OriginalText         string `json:"originalText"     yaml:"originalText"`
	OriginalTextSnake    string `json:"original_text"    yaml:"original_text"`
	ReplacementText      string `json:"replacementText"  yaml:"replacementText"`
	ReplacementTextSnake string `json:"replacement_text" yaml:"replacement_text"`
	Reasoning            string `json:"reasoning"        yaml:"reasoning"`
	Category             string `json:"category"         yaml:"category"`
}

func (w wireSuggestion) suggestion() suggest.Suggestion {
	return suggest.Suggestion{
		OriginalText:    cmp.Or(w.OriginalText, w.OriginalTextSnake),
		ReplacementText: cmp.Or(w.ReplacementText, w.ReplacementTextSnake),
		Reasoning:       w.Reasoning,
		Category:        suggest.Category(w.Category),
	}
}

// batchFile is the object form of a batch. A bare list of suggestions is
// accepted as well.
type batchFile struct {
	Suggestions []wireSuggestion `json:"suggestions" yaml:"suggestions"`
}

// Decode parses a suggestion batch. Empty input is an empty batch. An entry
// without original text fails the whole batch.
func Decode(data []byte, format Format) ([]suggest.Suggestion, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var unmarshal func([]byte, any) error
	switch format {
	case FormatJSON:
		unmarshal = json.Unmarshal
	case FormatYAML:
		unmarshal = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	var list []wireSuggestion
	if listErr := unmarshal(data, &list); listErr != nil {
		var obj batchFile
		if err := unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("decode %s suggestions: %w", format, listErr)
		}
		list = obj.Suggestions
	}

	out := make([]suggest.Suggestion, 0, len(list))
	for i, w := range list {
		s := w.suggestion()
		if s.OriginalText == "" {
			return nil, fmt.Errorf("decode %s suggestions: entry %d: %w", format, i, ErrNoOriginalText)
		}
		out = append(out, s)
	}
	return out, nil
}
