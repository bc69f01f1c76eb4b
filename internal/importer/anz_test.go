package importer

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestANZParser_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/anz_statement.csv")
	require.NoError(t, err)

	p := NewANZParser(zerolog.Nop())
	result, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	// 10 data rows, 2 malformed (bad date, empty description).
	assert.Len(t, result.Records, 8)

	first := result.Records[0]
	assert.Equal(t, "GITHUB PRO SUBSCRIPTION", first.Description)
	assert.Equal(t, model.DirectionDebit, first.Direction)
	assert.Equal(t, "4.00", first.Amount.StringFixed(2))
	assert.Equal(t, 2025, first.Time.Year())
	assert.Equal(t, 1, int(first.Time.Month()))
	assert.Equal(t, 15, first.Time.Day())
}

func TestANZParser_DirectionFollowsCreditColumn(t *testing.T) {
	data, err := os.ReadFile("../../testdata/anz_statement.csv")
	require.NoError(t, err)

	p := NewANZParser(zerolog.Nop())
	result, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	credits := 0
	for _, rec := range result.Records {
		if rec.Direction == model.DirectionCredit {
			credits++
		}
		assert.True(t, rec.Amount.IsPositive(), "record amounts are magnitudes")
	}
	assert.Equal(t, 3, credits, "salary, refund and transfer rows")
}

func TestANZParser_EndBalanceFromFirstValidRow(t *testing.T) {
	data, err := os.ReadFile("../../testdata/anz_statement.csv")
	require.NoError(t, err)

	p := NewANZParser(zerolog.Nop())
	result, err := p.Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	require.True(t, result.EndBalance.Valid)
	assert.Equal(t, "1250.55", result.EndBalance.Decimal.StringFixed(2))
}

func TestANZParser_SkipsMalformedRows(t *testing.T) {
	csv := "Date,Description,Credit,Debit,Balance\n" +
		"15/01/2025,BOTH POPULATED,5.00,5.00,100.00\n" +
		"15/01/2025,NEITHER POPULATED,,,100.00\n" +
		"15/01/2025,SHORT ROW,5.00\n" +
		"15/01/2025,BAD AMOUNT,x,,100.00\n" +
		"15/01/2025,BAD BALANCE,5.00,,nope\n" +
		"15/01/2025,GOOD ROW,5.00,,100.00\n"

	p := NewANZParser(zerolog.Nop())
	result, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "GOOD ROW", result.Records[0].Description)
	assert.Equal(t, model.DirectionCredit, result.Records[0].Direction)
}

func TestANZParser_HeaderOnly(t *testing.T) {
	p := NewANZParser(zerolog.Nop())
	result, err := p.Parse(strings.NewReader("Date,Description,Credit,Debit,Balance\n"))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.False(t, result.EndBalance.Valid)
}

func TestANZParser_AllRowsBadIsNotAnError(t *testing.T) {
	csv := "Date,Description,Credit,Debit,Balance\n" +
		"bad,BAD,5.00,,100.00\n" +
		"worse,WORSE,,,\n"

	p := NewANZParser(zerolog.Nop())
	result, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
}
