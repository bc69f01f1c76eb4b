package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Instrument is any balance-bearing entity: a bank account, stock holding,
// asset or utility account. Format names the statement parser used to import
// its exports.
type Instrument struct {
	ID      uuid.UUID
	Name    string
	Format  string
	Balance decimal.Decimal
}

// VirtualAccount is a sub-ledger within an instrument used to earmark funds
// without a separate external account.
type VirtualAccount struct {
	ID           uuid.UUID
	InstrumentID uuid.UUID
	Name         string
	Balance      decimal.Decimal
}

// StatementRecord is one normalized row parsed from a bank statement export.
// Amount is the positive magnitude; Direction carries the sign.
type StatementRecord struct {
	Time        time.Time
	Description string
	Amount      decimal.Decimal
	Direction   Direction
	Balance     decimal.Decimal
}
