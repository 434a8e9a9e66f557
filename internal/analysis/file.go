package analysis

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/scribe/internal/core/suggest"
)

// File reads a prepared batch from disk. The document text is ignored;
// the batch is taken as is.
type File struct {
	Path string
}

// Produce loads the batch file.
func (f *File) Produce(ctx context.Context, _ string) ([]suggest.Suggestion, error) {
	return LoadFile(f.Path)
}

// LoadFile reads and decodes a batch file, choosing the format from its
// extension.
func LoadFile(path string) ([]suggest.Suggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suggestion file: %w", err)
	}

	sugs, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sugs, nil
}
