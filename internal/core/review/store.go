package review

import (
	"context"
	"time"
)

// Outcome records how a suggestion was resolved.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
)

// Decision is a single accept or reject made by the user.
type Decision struct {
	ID              string
	BatchID         string
	DocumentPath    string // empty for unsaved buffers
	SuggestionID    int
	Category        string
	OriginalText    string
	ReplacementText string
	Outcome         Outcome
	CreatedAt       time.Time
}

// OutcomeFor maps a terminal state to its outcome.
func OutcomeFor(s State) (Outcome, bool) {
	switch s {
	case Accepted:
		return OutcomeAccepted, true
	case Rejected:
		return OutcomeRejected, true
	default:
		return "", false
	}
}

// Store persists review decisions. Documents themselves are never stored.
type Store interface {
	// SaveDecision appends a decision to the log.
	SaveDecision(ctx context.Context, d Decision) error

	// ListDecisions returns decisions newest first. An empty documentPath
	// lists decisions for every document. limit <= 0 means no limit.
	ListDecisions(ctx context.Context, documentPath string, limit int) ([]Decision, error)

	// CountByOutcome returns decision counts keyed by outcome.
	CountByOutcome(ctx context.Context) (map[Outcome]int, error)

	// Clear removes all decisions.
	Clear(ctx context.Context) error
}
