package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cadence is the recurrence period of a recurring transfer.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// RecurringTransfer is a standing internal transfer between two virtual
// accounts. LastRun is nil until the first successful execution.
type RecurringTransfer struct {
	ID            uuid.UUID
	SourceID      uuid.UUID // source virtual account
	DestinationID uuid.UUID // destination virtual account
	Amount        decimal.Decimal // always positive
	Description   string
	Cadence       Cadence
	LastRun       *time.Time
}
