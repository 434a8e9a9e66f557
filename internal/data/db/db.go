package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New returns queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries holds the typed statements used by the stores.
type Queries struct {
	db DBTX
}

// WithTx returns a copy of q that runs inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Decision is a row of the decisions table.
type Decision struct {
	ID              string
	BatchID         string
	DocumentPath    string
	SuggestionID    int64
	Category        string
	OriginalText    string
	ReplacementText string
	Outcome         string
	CreatedAt       int64
}

// Notification is a row of the notifications table.
type Notification struct {
	ID        int64
	Level     string
	Source    string
	Message   string
	CreatedAt int64
}
