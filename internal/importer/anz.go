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

// ANZParser parses ANZ transaction CSV exports: one header row, then
// Date,Description,Credit,Debit,Balance with dd/MM/yyyy dates and exactly
// one of Credit/Debit populated per row.
type ANZParser struct {
	log zerolog.Logger
}

const (
	anzDateFormat = "02/01/2006"
	anzNumFields  = 5
	anzColDate    = 0
	anzColDesc    = 1
	anzColCredit  = 2
	anzColDebit   = 3
	anzColBalance = 4
)

// NewANZParser creates an ANZParser that logs skipped rows to log.
func NewANZParser(log zerolog.Logger) *ANZParser {
	return &ANZParser{log: log}
}

// Format returns the parser name.
func (p *ANZParser) Format() string { return "anz" }

// Parse reads an ANZ CSV. Malformed rows are skipped with a warning; the
// ending balance is taken from the first valid row. Zero valid rows is not
// an error.
func (p *ANZParser) Parse(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // width checked per row so a bad row cannot abort the file

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
		if row == 1 {
			continue // header
		}

		record, reason := parseANZRow(rec)
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

// parseANZRow validates a data row in order: column count, date, description,
// exactly one of credit/debit, numeric amount and balance. A non-empty reason
// means the row must be skipped.
func parseANZRow(rec []string) (model.StatementRecord, string) {
	if len(rec) != anzNumFields {
		return model.StatementRecord{}, "wrong column count"
	}

	date, err := time.Parse(anzDateFormat, rec[anzColDate])
	if err != nil {
		return model.StatementRecord{}, "bad date"
	}

	desc := rec[anzColDesc]
	if desc == "" {
		return model.StatementRecord{}, "empty description"
	}

	credit, debit := rec[anzColCredit], rec[anzColDebit]
	if (credit == "") == (debit == "") {
		return model.StatementRecord{}, "need exactly one of credit or debit"
	}

	direction := model.DirectionDebit
	raw := debit
	if credit != "" {
		direction = model.DirectionCredit
		raw = credit
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.StatementRecord{}, "bad amount"
	}

	balance, err := decimal.NewFromString(rec[anzColBalance])
	if err != nil {
		return model.StatementRecord{}, "bad balance"
	}

	return model.StatementRecord{
		Time:        date,
		Description: desc,
		Amount:      amount.Abs(),
		Direction:   direction,
		Balance:     balance,
	}, ""
}
