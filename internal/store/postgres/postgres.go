// Package postgres is a pgx-backed store.Store. Reads go straight to the
// pool; writes are queued into a batch and applied transactionally on
// Commit.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tally-dev/tally/internal/store"
)

//go:embed schema.sql
var schema string

// Store implements store.Store on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool

	mu    sync.Mutex
	batch *pgx.Batch
}

// Connect opens a pool and verifies the connection.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Transactions returns the transaction repository.
func (s *Store) Transactions() store.Transactions { return &transactions{s} }

// Instruments returns the instrument repository.
func (s *Store) Instruments() store.Instruments { return &instruments{s} }

// Rules returns the rule repository.
func (s *Store) Rules() store.Rules { return &rules{s} }

// RecurringTransfers returns the recurring transfer repository.
func (s *Store) RecurringTransfers() store.RecurringTransfers { return &transfers{s} }

// queue buffers a write for the next Commit.
func (s *Store) queue(sql string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch == nil {
		s.batch = &pgx.Batch{}
	}
	s.batch.Queue(sql, args...)
}

// Rollback drops all buffered writes without touching the database.
func (s *Store) Rollback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = nil
	return nil
}

// Commit sends all buffered writes in a single transaction. With nothing
// buffered it is a no-op.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	batch := s.batch
	s.batch = nil
	s.mu.Unlock()

	if batch == nil || batch.Len() == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning commit: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("sending batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}
