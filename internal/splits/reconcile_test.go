package splits

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestReconcileOffsets_ThreeWayPartition(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	current := []model.Offset{
		{TransactionID: a, Amount: dec("10")},
		{TransactionID: b, Amount: dec("20")},
	}
	desired := []model.Offset{
		{TransactionID: b, Amount: dec("25")},
		{TransactionID: c, Amount: dec("5")},
	}

	diff := ReconcileOffsets(current, desired)

	require.Len(t, diff.Remove, 1)
	assert.Equal(t, a, diff.Remove[0].TransactionID)

	require.Len(t, diff.Add, 1)
	assert.Equal(t, c, diff.Add[0].TransactionID)
	assert.True(t, diff.Add[0].Amount.Equal(dec("5")))

	require.Len(t, diff.Update, 1)
	assert.Equal(t, b, diff.Update[0].TransactionID)
	assert.True(t, diff.Update[0].Amount.Equal(dec("25")))
}

func TestReconcileOffsets_Empty(t *testing.T) {
	diff := ReconcileOffsets(nil, nil)
	assert.Empty(t, diff.Remove)
	assert.Empty(t, diff.Add)
	assert.Empty(t, diff.Update)
}

func TestReconcileOffsets_IsPure(t *testing.T) {
	a := uuid.New()
	current := []model.Offset{{TransactionID: a, Amount: dec("10")}}

	ReconcileOffsets(current, nil)
	assert.Len(t, current, 1, "inputs are not mutated")
}

func TestApplyOffsets(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	s := &model.Split{
		Amount: dec("100"),
		Offsets: []model.Offset{
			{TransactionID: a, Amount: dec("10")},
			{TransactionID: b, Amount: dec("20")},
		},
	}

	desired := []model.Offset{
		{TransactionID: b, Amount: dec("25")},
		{TransactionID: c, Amount: dec("5")},
	}
	require.NoError(t, ApplyOffsets(s, desired))

	require.Len(t, s.Offsets, 2)
	byID := map[uuid.UUID]model.Offset{}
	for _, o := range s.Offsets {
		byID[o.TransactionID] = o
	}
	assert.NotContains(t, byID, a)
	assert.True(t, byID[b].Amount.Equal(dec("25")))
	assert.True(t, byID[c].Amount.Equal(dec("5")))
}

func TestApplyOffsets_OverAllocationRejected(t *testing.T) {
	s := &model.Split{Amount: dec("10")}

	err := ApplyOffsets(s, []model.Offset{{TransactionID: uuid.New(), Amount: dec("15")}})
	require.ErrorIs(t, err, ErrOverAllocated)
	assert.Empty(t, s.Offsets, "nothing applied on failure")
}
