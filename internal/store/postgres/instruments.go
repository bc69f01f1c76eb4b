package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

type instruments struct {
	s *Store
}

func (r *instruments) Get(ctx context.Context, id uuid.UUID) (*model.Instrument, error) {
	var (
		inst model.Instrument
		bal  string
	)
	err := r.s.pool.QueryRow(ctx,
		`SELECT id, name, format, balance::text FROM instruments WHERE id = $1`, id,
	).Scan(&inst.ID, &inst.Name, &inst.Format, &bal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("instrument %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying instrument: %w", err)
	}
	if inst.Balance, err = decimal.NewFromString(bal); err != nil {
		return nil, fmt.Errorf("parsing balance %q: %w", bal, err)
	}
	return &inst, nil
}

func (r *instruments) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	r.s.queue(`UPDATE instruments SET balance = $2 WHERE id = $1`, id, balance.String())
	return nil
}
