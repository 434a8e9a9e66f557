package logging

import "context"

type contextKey string

const (
	documentKey contextKey = "document"
	batchIDKey  contextKey = "batch_id"
)

// WithDocument adds the path of the document being edited to the context.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey, path)
}

// WithBatchID adds a suggestion batch ID to the context.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey, batchID)
}

// GetDocument retrieves the document path from the context.
// Returns empty string if not present.
func GetDocument(ctx context.Context) string {
	if p, ok := ctx.Value(documentKey).(string); ok {
		return p
	}
	return ""
}

// GetBatchID retrieves the batch ID from the context.
// Returns empty string if not present.
func GetBatchID(ctx context.Context) string {
	if id, ok := ctx.Value(batchIDKey).(string); ok {
		return id
	}
	return ""
}
