// Package store defines the persistence and collaborator interfaces the
// engine depends on. Implementations live in subpackages.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyExists is returned when creating an entity that exists.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Transactions is the transaction repository. Create and Update persist the
// full aggregate including splits and offsets.
type Transactions interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	ForAccount(ctx context.Context, accountID uuid.UUID) ([]*model.Transaction, error)
	Create(ctx context.Context, txn *model.Transaction) error
	Update(ctx context.Context, txn *model.Transaction) error
	ReferenceExists(ctx context.Context, accountID uuid.UUID, reference string) (bool, error)
}

// Instruments looks up balance-bearing entities.
type Instruments interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Instrument, error)
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

// Rules looks up classification rules by owning account.
type Rules interface {
	ForAccount(ctx context.Context, accountID uuid.UUID) ([]model.Rule, error)
}

// RecurringTransfers lists and updates standing transfers.
type RecurringTransfers interface {
	Active(ctx context.Context) ([]*model.RecurringTransfer, error)
	Update(ctx context.Context, t *model.RecurringTransfer) error
}

// Store aggregates the repositories behind a unit of work. Writes become
// visible to other readers after Commit; a Store with nothing pending
// commits as a no-op. Rollback drops writes queued since the last Commit so
// a failed operation cannot leak them into a later one.
type Store interface {
	Transactions() Transactions
	Instruments() Instruments
	Rules() Rules
	RecurringTransfers() RecurringTransfers
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PermissionChecker asserts a user may act on an account. Implementations
// return an error on unauthorized access.
type PermissionChecker interface {
	AssertAccount(ctx context.Context, userID, accountID uuid.UUID) error
}

// CurrencyConverter converts an amount between currencies. The engine never
// calls it; it exists for presentation-layer collaborators.
type CurrencyConverter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}
