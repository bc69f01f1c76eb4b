package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

type transfers struct {
	s *Store
}

func (r *transfers) Active(ctx context.Context) ([]*model.RecurringTransfer, error) {
	query := `
		SELECT id, source_id, destination_id, amount::text, description, cadence, last_run
		FROM recurring_transfers
		ORDER BY id
	`
	rows, err := r.s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying transfers: %w", err)
	}
	defer rows.Close()

	var out []*model.RecurringTransfer
	for rows.Next() {
		var (
			t       model.RecurringTransfer
			amt     string
			cadence string
		)
		if err := rows.Scan(&t.ID, &t.SourceID, &t.DestinationID, &amt, &t.Description, &cadence, &t.LastRun); err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amt); err != nil {
			return nil, fmt.Errorf("parsing transfer amount %q: %w", amt, err)
		}
		t.Cadence = model.Cadence(cadence)
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *transfers) Update(ctx context.Context, t *model.RecurringTransfer) error {
	r.s.queue(`
		UPDATE recurring_transfers
		SET source_id = $2, destination_id = $3, amount = $4, description = $5, cadence = $6, last_run = $7
		WHERE id = $1`,
		t.ID, t.SourceID, t.DestinationID, t.Amount.String(), t.Description, string(t.Cadence), t.LastRun,
	)
	return nil
}
