package db

import "context"

const insertDecision = `
INSERT INTO decisions (
    id, batch_id, document_path, suggestion_id, category,
    original_text, replacement_text, outcome, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertDecision appends a decision row.
func (q *Queries) InsertDecision(ctx context.Context, arg Decision) error {
	_, err := q.db.ExecContext(ctx, insertDecision,
		arg.ID,
		arg.BatchID,
		arg.DocumentPath,
		arg.SuggestionID,
		arg.Category,
		arg.OriginalText,
		arg.ReplacementText,
		arg.Outcome,
		arg.CreatedAt,
	)
	return err
}

const listDecisions = `
SELECT id, batch_id, document_path, suggestion_id, category,
       original_text, replacement_text, outcome, created_at
FROM decisions
WHERE (?1 = '' OR document_path = ?1)
ORDER BY created_at DESC, rowid DESC
LIMIT ?2
`

// ListDecisionsParams filters ListDecisions. A negative Limit returns every
// row.
type ListDecisionsParams struct {
	DocumentPath string
	Limit        int64
}

// ListDecisions returns decisions newest first.
func (q *Queries) ListDecisions(ctx context.Context, arg ListDecisionsParams) ([]Decision, error) {
	rows, err := q.db.QueryContext(ctx, listDecisions, arg.DocumentPath, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Decision
	for rows.Next() {
		var i Decision
		if err := rows.Scan(
			&i.ID,
			&i.BatchID,
			&i.DocumentPath,
			&i.SuggestionID,
			&i.Category,
			&i.OriginalText,
			&i.ReplacementText,
			&i.Outcome,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countDecisionsByOutcome = `
SELECT outcome, COUNT(*) FROM decisions GROUP BY outcome
`

// CountDecisionsByOutcomeRow is one group of CountDecisionsByOutcome.
type CountDecisionsByOutcomeRow struct {
	Outcome string
	Count   int64
}

// CountDecisionsByOutcome groups decisions by outcome.
func (q *Queries) CountDecisionsByOutcome(ctx context.Context) ([]CountDecisionsByOutcomeRow, error) {
	rows, err := q.db.QueryContext(ctx, countDecisionsByOutcome)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []CountDecisionsByOutcomeRow
	for rows.Next() {
		var i CountDecisionsByOutcomeRow
		if err := rows.Scan(&i.Outcome, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllDecisions = `DELETE FROM decisions`

// DeleteAllDecisions empties the decisions table.
func (q *Queries) DeleteAllDecisions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllDecisions)
	return err
}
