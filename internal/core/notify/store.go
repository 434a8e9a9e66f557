// Package notify defines the messages the editor raises for the user:
// failed or empty analysis runs, rewrite outcomes and edit errors. They
// surface as toasts and are kept in a short history that the notification
// modal lists.
package notify

import (
	"context"
	"time"
)

// Level is how loudly a notification is shown. Errors stay on screen longer
// than info and warning toasts.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Subsystems that raise notifications.
const (
	SourceAnalysis = "analysis" // suggestion runs and batch reloads
	SourceRewrite  = "rewrite"  // selection rewrites
	SourceEditor   = "editor"   // edits, review decisions and startup warnings
)

// Notification is one message shown to the user. Repeats with the same
// Level and Message fold into a single toast.
type Notification struct {
	ID        int64
	Level     Level
	Source    string
	Message   string
	CreatedAt time.Time
}

// Store keeps notification history across editor sessions. List returns the
// newest first.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
