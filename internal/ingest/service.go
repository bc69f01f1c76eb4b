// Package ingest turns raw statement exports into reconciled, auto-tagged
// ledger entries, and re-applies classification rules to existing ones.
package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/ref"
	"github.com/tally-dev/tally/internal/rules"
	"github.com/tally-dev/tally/internal/splits"
	"github.com/tally-dev/tally/internal/store"
)

// ImportRequest asks for a statement export to be imported into an account.
type ImportRequest struct {
	InstrumentID uuid.UUID
	AccountID    uuid.UUID
	UserID       uuid.UUID
	Data         []byte
}

// ReprocessRequest asks for an account's transactions to be re-classified.
type ReprocessRequest struct {
	InstrumentID uuid.UUID
	AccountID    uuid.UUID
}

// RunRulesRequest asks for classification rules to be re-run on an account.
type RunRulesRequest struct {
	AccountID uuid.UUID
}

// ImportSummary reports what an import did.
type ImportSummary struct {
	Imported   int
	Duplicates int
}

// Service composes parser, rule engine, store and balance reconciliation.
type Service struct {
	parsers *importer.Registry
	store   store.Store
	perms   store.PermissionChecker // nil disables permission checks
	log     zerolog.Logger
}

// NewService creates an ingest Service. perms may be nil.
func NewService(parsers *importer.Registry, s store.Store, perms store.PermissionChecker, log zerolog.Logger) *Service {
	return &Service{parsers: parsers, store: s, perms: perms, log: log}
}

// Import parses the export, classifies each row, persists the transactions
// and reconciles the instrument balance. Rows whose reference already exists
// on the account are counted as duplicates and skipped. On failure any
// uncommitted writes are discarded.
func (s *Service) Import(ctx context.Context, req ImportRequest) (ImportSummary, error) {
	summary, err := s.runImport(ctx, req)
	if err != nil {
		s.discard(ctx)
	}
	return summary, err
}

func (s *Service) runImport(ctx context.Context, req ImportRequest) (ImportSummary, error) {
	var summary ImportSummary

	if s.perms != nil {
		if err := s.perms.AssertAccount(ctx, req.UserID, req.AccountID); err != nil {
			return summary, fmt.Errorf("checking account access: %w", err)
		}
	}

	inst, err := s.store.Instruments().Get(ctx, req.InstrumentID)
	if err != nil {
		return summary, fmt.Errorf("loading instrument: %w", err)
	}

	parser := s.parsers.Get(inst.Format)
	if parser == nil {
		return summary, fmt.Errorf("no parser registered for format %q", inst.Format)
	}

	result, err := parser.Parse(bytes.NewReader(req.Data))
	if err != nil {
		return summary, fmt.Errorf("parsing statement: %w", err)
	}

	accountRules, err := s.store.Rules().ForAccount(ctx, req.AccountID)
	if err != nil {
		return summary, fmt.Errorf("loading rules: %w", err)
	}

	txns := s.store.Transactions()
	for _, rec := range result.Records {
		reference := ref.Make(inst.Format, rec.Time, rec.Description, signedAmount(rec))

		exists, err := txns.ReferenceExists(ctx, req.AccountID, reference)
		if err != nil {
			return summary, fmt.Errorf("checking reference: %w", err)
		}
		if exists {
			summary.Duplicates++
			s.log.Debug().Str("reference", reference).Msg("skipping duplicate row")
			continue
		}

		txn := &model.Transaction{
			ID:          uuid.New(),
			AccountID:   req.AccountID,
			Amount:      signedAmount(rec),
			Description: rec.Description,
			Time:        rec.Time,
			Direction:   rec.Direction,
			Reference:   reference,
		}

		if tags := rules.Match(accountRules, rec.Description); len(tags) > 0 {
			splits.AddOrUpdateSplit(txn, tags)
		}

		if err := txns.Create(ctx, txn); err != nil {
			return summary, fmt.Errorf("creating transaction: %w", err)
		}
		summary.Imported++
	}

	if err := s.reconcileBalance(ctx, inst, req.AccountID, result.EndBalance); err != nil {
		return summary, err
	}

	s.log.Info().
		Stringer("instrument", inst.ID).
		Int("imported", summary.Imported).
		Int("duplicates", summary.Duplicates).
		Msg("statement imported")
	return summary, nil
}

// reconcileBalance applies the instrument balance using one of two
// strategies. An authoritative ending balance is applied in the same batch
// as the new transactions. Without one, the transactions are committed
// first, then reloaded, and the balance recomputed as their sum in a second
// save. That second strategy leaves a brief window where the stored balance
// is stale relative to the transactions.
func (s *Service) reconcileBalance(ctx context.Context, inst *model.Instrument, accountID uuid.UUID, endBalance decimal.NullDecimal) error {
	if endBalance.Valid {
		if err := s.store.Instruments().SetBalance(ctx, inst.ID, endBalance.Decimal); err != nil {
			return fmt.Errorf("setting balance: %w", err)
		}
		if err := s.store.Commit(ctx); err != nil {
			return fmt.Errorf("committing import: %w", err)
		}
		return nil
	}

	if err := s.store.Commit(ctx); err != nil {
		return fmt.Errorf("committing transactions: %w", err)
	}

	all, err := s.store.Transactions().ForAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("reloading transactions: %w", err)
	}
	balance := decimal.Zero
	for _, txn := range all {
		balance = balance.Add(txn.Amount)
	}

	if err := s.store.Instruments().SetBalance(ctx, inst.ID, balance); err != nil {
		return fmt.Errorf("setting balance: %w", err)
	}
	if err := s.store.Commit(ctx); err != nil {
		return fmt.Errorf("committing balance: %w", err)
	}
	return nil
}

// Reprocess re-applies the account's rules to its existing transactions.
func (s *Service) Reprocess(ctx context.Context, req ReprocessRequest) error {
	return s.RunRules(ctx, RunRulesRequest{AccountID: req.AccountID})
}

// RunRules re-runs classification over every transaction on the account.
// Transactions matching no rule are left untouched; classification is
// idempotent for the rest. On failure any uncommitted writes are discarded.
func (s *Service) RunRules(ctx context.Context, req RunRulesRequest) error {
	if err := s.runRules(ctx, req); err != nil {
		s.discard(ctx)
		return err
	}
	return nil
}

func (s *Service) runRules(ctx context.Context, req RunRulesRequest) error {
	accountRules, err := s.store.Rules().ForAccount(ctx, req.AccountID)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	txns, err := s.store.Transactions().ForAccount(ctx, req.AccountID)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	updated := 0
	for _, txn := range txns {
		tags := rules.Match(accountRules, txn.Description)
		if len(tags) == 0 {
			continue
		}
		splits.AddOrUpdateSplit(txn, tags)
		if err := s.store.Transactions().Update(ctx, txn); err != nil {
			return fmt.Errorf("updating transaction %s: %w", txn.ID, err)
		}
		updated++
	}

	if err := s.store.Commit(ctx); err != nil {
		return fmt.Errorf("committing rule run: %w", err)
	}

	s.log.Info().Stringer("account", req.AccountID).Int("updated", updated).Msg("rules re-run")
	return nil
}

// discard drops writes queued by a failed operation so they cannot ride
// along with a later Commit.
func (s *Service) discard(ctx context.Context) {
	if err := s.store.Rollback(ctx); err != nil {
		s.log.Error().Err(err).Msg("discarding pending writes failed")
	}
}

// signedAmount converts a statement record to a signed ledger amount.
func signedAmount(rec model.StatementRecord) decimal.Decimal {
	if rec.Direction == model.DirectionDebit {
		return rec.Amount.Neg()
	}
	return rec.Amount
}
