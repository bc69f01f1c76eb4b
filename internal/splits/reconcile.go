package splits

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// OffsetDiff is the three-way difference between a split's current offsets
// and a desired set, keyed by offsetting transaction id. The three sets are
// disjoint.
type OffsetDiff struct {
	Remove []model.Offset
	Add    []model.Offset
	Update []model.Offset // amount changes only
}

// ReconcileOffsets computes the diff between current and desired offsets.
// It is a pure function: current offsets absent from desired go to Remove,
// desired offsets absent from current go to Add, and offsets present in both
// go to Update carrying the desired amount.
func ReconcileOffsets(current, desired []model.Offset) OffsetDiff {
	currentByID := make(map[uuid.UUID]model.Offset, len(current))
	for _, o := range current {
		currentByID[o.TransactionID] = o
	}
	desiredByID := make(map[uuid.UUID]model.Offset, len(desired))
	for _, o := range desired {
		desiredByID[o.TransactionID] = o
	}

	var diff OffsetDiff
	for _, o := range current {
		if _, ok := desiredByID[o.TransactionID]; !ok {
			diff.Remove = append(diff.Remove, o)
		}
	}
	for _, o := range desired {
		if _, ok := currentByID[o.TransactionID]; !ok {
			diff.Add = append(diff.Add, o)
		} else {
			diff.Update = append(diff.Update, o)
		}
	}
	return diff
}

// ApplyOffsets reconciles a split's offsets against a desired set, applying
// removals, then additions, then amount updates. The resulting offset total
// must not exceed the split amount.
func ApplyOffsets(s *model.Split, desired []model.Offset) error {
	total := decimal.Zero
	for _, o := range desired {
		total = total.Add(o.Amount)
	}
	if total.GreaterThan(s.Amount) {
		return fmt.Errorf("%w: offsets %s exceed split %s", ErrOverAllocated, total, s.Amount)
	}

	diff := ReconcileOffsets(s.Offsets, desired)

	for _, o := range diff.Remove {
		for i, cur := range s.Offsets {
			if cur.TransactionID == o.TransactionID {
				s.Offsets = append(s.Offsets[:i], s.Offsets[i+1:]...)
				break
			}
		}
	}
	s.Offsets = append(s.Offsets, diff.Add...)
	for _, o := range diff.Update {
		for i := range s.Offsets {
			if s.Offsets[i].TransactionID == o.TransactionID {
				s.Offsets[i].Amount = o.Amount
				break
			}
		}
	}
	return nil
}
