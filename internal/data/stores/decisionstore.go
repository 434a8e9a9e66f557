package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/scribe/internal/core/review"
	"github.com/colonyops/scribe/internal/data/db"
)

// DecisionStore implements review.Store using SQLite.
type DecisionStore struct {
	db *db.DB
}

var _ review.Store = (*DecisionStore)(nil)

// NewDecisionStore creates a new SQLite-backed decision store.
func NewDecisionStore(db *db.DB) *DecisionStore {
	return &DecisionStore{db: db}
}

// SaveDecision appends a decision to the log.
func (s *DecisionStore) SaveDecision(ctx context.Context, d review.Decision) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	err := retryBusy(ctx, func() error {
		return s.db.Queries().InsertDecision(ctx, db.Decision{
			ID:              d.ID,
			BatchID:         d.BatchID,
			DocumentPath:    d.DocumentPath,
			SuggestionID:    int64(d.SuggestionID),
			Category:        d.Category,
			OriginalText:    d.OriginalText,
			ReplacementText: d.ReplacementText,
			Outcome:         string(d.Outcome),
			CreatedAt:       d.CreatedAt.UnixNano(),
		})
	})
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// ListDecisions returns decisions newest first.
func (s *DecisionStore) ListDecisions(ctx context.Context, documentPath string, limit int) ([]review.Decision, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Queries().ListDecisions(ctx, db.ListDecisionsParams{
		DocumentPath: documentPath,
		Limit:        int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}

	out := make([]review.Decision, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToDecision(row))
	}
	return out, nil
}

// CountByOutcome returns decision counts keyed by outcome.
func (s *DecisionStore) CountByOutcome(ctx context.Context) (map[review.Outcome]int, error) {
	rows, err := s.db.Queries().CountDecisionsByOutcome(ctx)
	if err != nil {
		return nil, fmt.Errorf("count decisions: %w", err)
	}

	counts := make(map[review.Outcome]int, len(rows))
	for _, row := range rows {
		counts[review.Outcome(row.Outcome)] = int(row.Count)
	}
	return counts, nil
}

// Clear removes all decisions.
func (s *DecisionStore) Clear(ctx context.Context) error {
	if err := s.db.Queries().DeleteAllDecisions(ctx); err != nil {
		return fmt.Errorf("clear decisions: %w", err)
	}
	return nil
}

func rowToDecision(row db.Decision) review.Decision {
	return review.Decision{
		ID:              row.ID,
		BatchID:         row.BatchID,
		DocumentPath:    row.DocumentPath,
		SuggestionID:    int(row.SuggestionID),
		Category:        row.Category,
		OriginalText:    row.OriginalText,
		ReplacementText: row.ReplacementText,
		Outcome:         review.Outcome(row.Outcome),
		CreatedAt:       time.Unix(0, row.CreatedAt),
	}
}
