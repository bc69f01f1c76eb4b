package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

type transactions struct {
	s *Store
}

func (r *transactions) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	query := `
		SELECT id, account_id, amount::text, description, time, direction, group_id, notes, reference
		FROM transactions
		WHERE id = $1
	`
	txn, err := scanTransaction(r.s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadSplits(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *transactions) ForAccount(ctx context.Context, accountID uuid.UUID) ([]*model.Transaction, error) {
	query := `
		SELECT id, account_id, amount::text, description, time, direction, group_id, notes, reference
		FROM transactions
		WHERE account_id = $1
		ORDER BY time, id
	`
	rows, err := r.s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []*model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	for _, txn := range txns {
		if err := r.loadSplits(ctx, txn); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

func (r *transactions) Create(ctx context.Context, txn *model.Transaction) error {
	r.s.queue(`
		INSERT INTO transactions (id, account_id, amount, description, time, direction, group_id, notes, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txn.ID, txn.AccountID, txn.Amount.String(), txn.Description, txn.Time,
		string(txn.Direction), txn.GroupID, txn.Notes, txn.Reference,
	)
	r.queueSplits(txn)
	return nil
}

func (r *transactions) Update(ctx context.Context, txn *model.Transaction) error {
	r.s.queue(`
		UPDATE transactions
		SET amount = $2, description = $3, time = $4, direction = $5, group_id = $6, notes = $7, reference = $8
		WHERE id = $1`,
		txn.ID, txn.Amount.String(), txn.Description, txn.Time,
		string(txn.Direction), txn.GroupID, txn.Notes, txn.Reference,
	)
	// Splits are replaced wholesale; cascades clear tags and offsets.
	r.s.queue(`DELETE FROM splits WHERE transaction_id = $1`, txn.ID)
	r.queueSplits(txn)
	return nil
}

func (r *transactions) ReferenceExists(ctx context.Context, accountID uuid.UUID, reference string) (bool, error) {
	var exists bool
	err := r.s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE account_id = $1 AND reference = $2)`,
		accountID, reference,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking reference: %w", err)
	}
	return exists, nil
}

func (r *transactions) queueSplits(txn *model.Transaction) {
	for _, s := range txn.Splits {
		r.s.queue(`INSERT INTO splits (id, transaction_id, amount) VALUES ($1, $2, $3)`,
			s.ID, txn.ID, s.Amount.String())
		for _, tag := range s.Tags {
			r.s.queue(`INSERT INTO split_tags (split_id, tag_id, tag_name) VALUES ($1, $2, $3)`,
				s.ID, tag.ID, tag.Name)
		}
		for _, o := range s.Offsets {
			r.s.queue(`INSERT INTO offsets (split_id, offset_transaction_id, amount) VALUES ($1, $2, $3)`,
				s.ID, o.TransactionID, o.Amount.String())
		}
	}
}

func (r *transactions) loadSplits(ctx context.Context, txn *model.Transaction) error {
	rows, err := r.s.pool.Query(ctx,
		`SELECT id, amount::text FROM splits WHERE transaction_id = $1 ORDER BY id`, txn.ID)
	if err != nil {
		return fmt.Errorf("querying splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s   model.Split
			amt string
		)
		if err := rows.Scan(&s.ID, &amt); err != nil {
			return fmt.Errorf("scanning split: %w", err)
		}
		if s.Amount, err = decimal.NewFromString(amt); err != nil {
			return fmt.Errorf("parsing split amount %q: %w", amt, err)
		}
		txn.Splits = append(txn.Splits, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading splits: %w", err)
	}

	for i := range txn.Splits {
		if err := r.loadSplitDetail(ctx, &txn.Splits[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *transactions) loadSplitDetail(ctx context.Context, s *model.Split) error {
	tagRows, err := r.s.pool.Query(ctx,
		`SELECT tag_id, tag_name FROM split_tags WHERE split_id = $1 ORDER BY tag_id`, s.ID)
	if err != nil {
		return fmt.Errorf("querying split tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag model.Tag
		if err := tagRows.Scan(&tag.ID, &tag.Name); err != nil {
			return fmt.Errorf("scanning split tag: %w", err)
		}
		s.Tags = append(s.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("reading split tags: %w", err)
	}

	offRows, err := r.s.pool.Query(ctx,
		`SELECT offset_transaction_id, amount::text FROM offsets WHERE split_id = $1`, s.ID)
	if err != nil {
		return fmt.Errorf("querying offsets: %w", err)
	}
	defer offRows.Close()
	for offRows.Next() {
		var (
			o   model.Offset
			amt string
		)
		if err := offRows.Scan(&o.TransactionID, &amt); err != nil {
			return fmt.Errorf("scanning offset: %w", err)
		}
		if o.Amount, err = decimal.NewFromString(amt); err != nil {
			return fmt.Errorf("parsing offset amount %q: %w", amt, err)
		}
		s.Offsets = append(s.Offsets, o)
	}
	return offRows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn       model.Transaction
		amt       string
		direction string
		t         time.Time
	)
	err := row.Scan(&txn.ID, &txn.AccountID, &amt, &txn.Description, &t,
		&direction, &txn.GroupID, &txn.Notes, &txn.Reference)
	if err != nil {
		return nil, err
	}
	if txn.Amount, err = decimal.NewFromString(amt); err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", amt, err)
	}
	txn.Time = t
	txn.Direction = model.Direction(direction)
	return &txn, nil
}
