package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the document path and batch ID from the event context
// onto log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if doc := GetDocument(ctx); doc != "" {
		e.Str("document", doc)
	}

	if id := GetBatchID(ctx); id != "" {
		e.Str("batch_id", id)
	}
}
