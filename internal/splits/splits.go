// Package splits maintains the split and offset structure on a transaction:
// which portions of it are categorized, and which other transactions refund
// parts of it.
package splits

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

var (
	// ErrTagExists is returned when adding a tag already on the split.
	ErrTagExists = errors.New("splits: tag already exists")
	// ErrTagNotFound is returned when removing a tag not on the split.
	ErrTagNotFound = errors.New("splits: tag not found")
	// ErrSplitNotFound is returned when a split id does not exist on the
	// transaction.
	ErrSplitNotFound = errors.New("splits: split not found")
	// ErrOverAllocated is returned when split amounts would exceed the
	// transaction amount, or offset amounts the split amount.
	ErrOverAllocated = errors.New("splits: over-allocated")
)

// AddOrUpdateSplit classifies a transaction. If the transaction has no split,
// one is created covering the full transaction amount with the given tags.
// Otherwise only the tag set of the existing split is replaced; its amount is
// preserved. Applying the same tags twice is a no-op, so classification is
// idempotent.
func AddOrUpdateSplit(txn *model.Transaction, tags []model.Tag) {
	if len(txn.Splits) == 0 {
		txn.Splits = append(txn.Splits, model.Split{
			ID:     uuid.New(),
			Amount: txn.Amount.Abs(),
			Tags:   dedupe(tags),
		})
		return
	}
	txn.Splits[0].Tags = dedupe(tags)
}

// AddSplit appends a new split with an explicit amount. The sum of split
// amounts must not exceed the transaction's absolute amount.
func AddSplit(txn *model.Transaction, amount decimal.Decimal, tags []model.Tag) (*model.Split, error) {
	if txn.SplitTotal().Add(amount).GreaterThan(txn.Amount.Abs()) {
		return nil, fmt.Errorf("%w: splits %s + %s exceed transaction %s",
			ErrOverAllocated, txn.SplitTotal(), amount, txn.Amount.Abs())
	}
	txn.Splits = append(txn.Splits, model.Split{
		ID:     uuid.New(),
		Amount: amount,
		Tags:   dedupe(tags),
	})
	return &txn.Splits[len(txn.Splits)-1], nil
}

// RemoveSplit deletes a split by id. Splits are never deleted implicitly; an
// empty tag set leaves the split in place.
func RemoveSplit(txn *model.Transaction, splitID uuid.UUID) error {
	for i, s := range txn.Splits {
		if s.ID == splitID {
			txn.Splits = append(txn.Splits[:i], txn.Splits[i+1:]...)
			return nil
		}
	}
	return ErrSplitNotFound
}

// AddTag adds a tag to the split's tag set. Adding a tag already present is
// an error, not a silent no-op.
func AddTag(s *model.Split, tag model.Tag) error {
	for _, t := range s.Tags {
		if t.ID == tag.ID {
			return fmt.Errorf("%w: tag %d", ErrTagExists, tag.ID)
		}
	}
	s.Tags = append(s.Tags, tag)
	return nil
}

// RemoveTag removes a tag from the split's tag set. Removing the last tag
// does not delete the split.
func RemoveTag(s *model.Split, tag model.Tag) error {
	for i, t := range s.Tags {
		if t.ID == tag.ID {
			s.Tags = append(s.Tags[:i], s.Tags[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: tag %d", ErrTagNotFound, tag.ID)
}

// dedupe drops duplicate tags by id, preserving first-seen order.
func dedupe(tags []model.Tag) []model.Tag {
	seen := make(map[int]bool, len(tags))
	var out []model.Tag
	for _, t := range tags {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
