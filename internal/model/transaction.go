package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction classifies which side of the ledger a transaction sits on.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Transaction is a single ledger entry on an account. Amount is signed:
// negative for debits, positive for credits. GroupID links the two legs of
// an internal transfer.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Description string
	Time        time.Time
	Direction   Direction
	GroupID     *uuid.UUID
	Notes       string
	Reference   string
	Splits      []Split
}

// Split is the categorized portion of a transaction. A transaction with no
// splits is fully unclassified.
type Split struct {
	ID      uuid.UUID
	Amount  decimal.Decimal // always positive
	Tags    []Tag
	Offsets []Offset
}

// Offset links a split to another transaction that reimburses part of it.
type Offset struct {
	TransactionID uuid.UUID // the offsetting (refund) transaction
	Amount        decimal.Decimal
}

// SplitTotal returns the sum of all split amounts on the transaction.
func (t *Transaction) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

// OffsetTotal returns the sum of all offset amounts against the split.
func (s *Split) OffsetTotal() decimal.Decimal {
	total := decimal.Zero
	for _, o := range s.Offsets {
		total = total.Add(o.Amount)
	}
	return total
}
