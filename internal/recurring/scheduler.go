package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Scheduler scans active recurring transfers and executes the due ones.
// It is driven by an external time-based trigger; correctness of the due
// check does not depend on when the trigger fires.
type Scheduler struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewScheduler creates a Scheduler. now may be nil, in which case time.Now
// is used.
func NewScheduler(s store.Store, log zerolog.Logger, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{store: s, log: log, now: now}
}

// ProcessDue evaluates every active transfer and executes those that are
// due. A failure executing one transfer is logged and does not block the
// others. An unsupported cadence is a configuration error and aborts the
// scan.
func (s *Scheduler) ProcessDue(ctx context.Context) error {
	transfers, err := s.store.RecurringTransfers().Active(ctx)
	if err != nil {
		return fmt.Errorf("listing recurring transfers: %w", err)
	}

	now := s.now()
	for _, t := range transfers {
		due, err := IsDue(t.LastRun, now, t.Cadence)
		if err != nil {
			return fmt.Errorf("transfer %s: %w", t.ID, err)
		}
		if !due {
			continue
		}
		if err := s.execute(ctx, t, now); err != nil {
			// Drop the failed transfer's queued legs so they cannot ride
			// along with the next one's Commit.
			if rbErr := s.store.Rollback(ctx); rbErr != nil {
				s.log.Error().Err(rbErr).Stringer("transfer", t.ID).Msg("discarding pending writes failed")
			}
			s.log.Error().Err(err).Stringer("transfer", t.ID).Msg("recurring transfer failed")
		}
	}
	return nil
}

// execute creates the two legs of the transfer under a fresh group id, then
// records the run. LastRun moves only on success.
func (s *Scheduler) execute(ctx context.Context, t *model.RecurringTransfer, now time.Time) error {
	group := uuid.New()

	debit := &model.Transaction{
		ID:          uuid.New(),
		AccountID:   t.SourceID,
		Amount:      t.Amount.Neg(),
		Description: t.Description,
		Time:        now,
		Direction:   model.DirectionDebit,
		GroupID:     &group,
	}
	credit := &model.Transaction{
		ID:          uuid.New(),
		AccountID:   t.DestinationID,
		Amount:      t.Amount,
		Description: t.Description,
		Time:        now,
		Direction:   model.DirectionCredit,
		GroupID:     &group,
	}

	txns := s.store.Transactions()
	if err := txns.Create(ctx, debit); err != nil {
		return fmt.Errorf("creating debit leg: %w", err)
	}
	if err := txns.Create(ctx, credit); err != nil {
		return fmt.Errorf("creating credit leg: %w", err)
	}

	t.LastRun = &now
	if err := s.store.RecurringTransfers().Update(ctx, t); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	if err := s.store.Commit(ctx); err != nil {
		return fmt.Errorf("committing transfer: %w", err)
	}

	s.log.Info().Stringer("transfer", t.ID).Str("amount", t.Amount.String()).Msg("recurring transfer executed")
	return nil
}
