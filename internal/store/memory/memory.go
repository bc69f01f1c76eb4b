// Package memory is an in-process store.Store used by tests and the default
// CLI configuration. Writes apply immediately; Commit is a no-op.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Store implements store.Store with mutex-guarded maps.
type Store struct {
	mu          sync.RWMutex
	txns        map[uuid.UUID]*model.Transaction
	txnOrder    []uuid.UUID
	instruments map[uuid.UUID]*model.Instrument
	rules       map[uuid.UUID][]model.Rule
	transfers   map[uuid.UUID]*model.RecurringTransfer
	transferIDs []uuid.UUID
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		txns:        make(map[uuid.UUID]*model.Transaction),
		instruments: make(map[uuid.UUID]*model.Instrument),
		rules:       make(map[uuid.UUID][]model.Rule),
		transfers:   make(map[uuid.UUID]*model.RecurringTransfer),
	}
}

// Transactions returns the transaction repository.
func (s *Store) Transactions() store.Transactions { return (*transactions)(s) }

// Instruments returns the instrument repository.
func (s *Store) Instruments() store.Instruments { return (*instruments)(s) }

// Rules returns the rule repository.
func (s *Store) Rules() store.Rules { return (*rulesRepo)(s) }

// RecurringTransfers returns the recurring transfer repository.
func (s *Store) RecurringTransfers() store.RecurringTransfers { return (*transfers)(s) }

// Commit is a no-op; writes are visible immediately.
func (s *Store) Commit(ctx context.Context) error { return nil }

// Rollback is a no-op; writes are never buffered.
func (s *Store) Rollback(ctx context.Context) error { return nil }

// AddInstrument seeds an instrument.
func (s *Store) AddInstrument(inst *model.Instrument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instruments[inst.ID] = inst
}

// AddRule seeds a classification rule.
func (s *Store) AddRule(rule model.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.AccountID] = append(s.rules[rule.AccountID], rule)
}

// AddTransfer seeds a recurring transfer.
func (s *Store) AddTransfer(t *model.RecurringTransfer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[t.ID]; !ok {
		s.transferIDs = append(s.transferIDs, t.ID)
	}
	s.transfers[t.ID] = t
}

// copyTxn clones a transaction deeply enough that callers cannot mutate
// stored splits, tags or offsets without Update.
func copyTxn(txn *model.Transaction) *model.Transaction {
	cp := *txn
	cp.Splits = make([]model.Split, len(txn.Splits))
	for i, s := range txn.Splits {
		cp.Splits[i] = s
		cp.Splits[i].Tags = append([]model.Tag(nil), s.Tags...)
		cp.Splits[i].Offsets = append([]model.Offset(nil), s.Offsets...)
	}
	return &cp
}

type transactions Store

func (s *transactions) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.txns[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return copyTxn(txn), nil
}

func (s *transactions) ForAccount(ctx context.Context, accountID uuid.UUID) ([]*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Transaction
	for _, id := range s.txnOrder {
		if s.txns[id].AccountID == accountID {
			out = append(out, copyTxn(s.txns[id]))
		}
	}
	return out, nil
}

func (s *transactions) Create(ctx context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[txn.ID]; ok {
		return fmt.Errorf("transaction %s: %w", txn.ID, store.ErrAlreadyExists)
	}
	s.txns[txn.ID] = copyTxn(txn)
	s.txnOrder = append(s.txnOrder, txn.ID)
	return nil
}

func (s *transactions) Update(ctx context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[txn.ID]; !ok {
		return fmt.Errorf("transaction %s: %w", txn.ID, store.ErrNotFound)
	}
	s.txns[txn.ID] = copyTxn(txn)
	return nil
}

func (s *transactions) ReferenceExists(ctx context.Context, accountID uuid.UUID, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.txns {
		if txn.AccountID == accountID && txn.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

type instruments Store

func (s *instruments) Get(ctx context.Context, id uuid.UUID) (*model.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instruments[id]
	if !ok {
		return nil, fmt.Errorf("instrument %s: %w", id, store.ErrNotFound)
	}
	cp := *inst
	return &cp, nil
}

func (s *instruments) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instruments[id]
	if !ok {
		return fmt.Errorf("instrument %s: %w", id, store.ErrNotFound)
	}
	inst.Balance = balance
	return nil
}

type rulesRepo Store

func (s *rulesRepo) ForAccount(ctx context.Context, accountID uuid.UUID) ([]model.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Rule(nil), s.rules[accountID]...), nil
}

type transfers Store

func (s *transfers) Active(ctx context.Context) ([]*model.RecurringTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.RecurringTransfer, 0, len(s.transferIDs))
	for _, id := range s.transferIDs {
		cp := *s.transfers[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *transfers) Update(ctx context.Context, t *model.RecurringTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[t.ID]; !ok {
		return fmt.Errorf("transfer %s: %w", t.ID, store.ErrNotFound)
	}
	cp := *t
	s.transfers[t.ID] = &cp
	return nil
}
