package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// CBAParser parses CBA transaction CSV exports: no header row,
// Date,Amount,Description,Balance with a signed amount column.
type CBAParser struct {
	log zerolog.Logger
}

const (
	cbaDateFormat = "02/01/2006"
	cbaNumFields  = 4
	cbaColDate    = 0
	cbaColAmount  = 1
	cbaColDesc    = 2
	cbaColBalance = 3
)

// NewCBAParser creates a CBAParser that logs skipped rows to log.
func NewCBAParser(log zerolog.Logger) *CBAParser {
	return &CBAParser{log: log}
}

// Format returns the parser name.
func (p *CBAParser) Format() string { return "cba" }

// Parse reads a CBA CSV. Direction is derived from the amount's sign.
func (p *CBAParser) Parse(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var result ParseResult
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		row++
		if err != nil {
			p.log.Warn().Int("row", row).Err(err).Msg("skipping unreadable row")
			continue
		}

		record, reason := parseCBARow(rec)
		if reason != "" {
			p.log.Warn().Int("row", row).Str("reason", reason).Msg("skipping statement row")
			continue
		}

		if !result.EndBalance.Valid {
			result.EndBalance = decimal.NewNullDecimal(record.Balance)
		}
		result.Records = append(result.Records, record)
	}
}

func parseCBARow(rec []string) (model.StatementRecord, string) {
	if len(rec) != cbaNumFields {
		return model.StatementRecord{}, "wrong column count"
	}

	date, err := time.Parse(cbaDateFormat, rec[cbaColDate])
	if err != nil {
		return model.StatementRecord{}, "bad date"
	}

	desc := rec[cbaColDesc]
	if desc == "" {
		return model.StatementRecord{}, "empty description"
	}

	amount, err := decimal.NewFromString(rec[cbaColAmount])
	if err != nil {
		return model.StatementRecord{}, "bad amount"
	}

	balance, err := decimal.NewFromString(rec[cbaColBalance])
	if err != nil {
		return model.StatementRecord{}, "bad balance"
	}

	direction := model.DirectionCredit
	if amount.IsNegative() {
		direction = model.DirectionDebit
	}

	return model.StatementRecord{
		Time:        date,
		Description: desc,
		Amount:      amount.Abs(),
		Direction:   direction,
		Balance:     balance,
	}, ""
}
