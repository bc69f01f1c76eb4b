package ref

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("-4.00")

	got := Make("anz", date, "GITHUB *PRO SUBSCRIPTION", amount)
	assert.Equal(t, "anz_20250103_GITHUBPROS_-400", got)
}

func TestMake_Deterministic(t *testing.T) {
	date := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("86.20")

	a := Make("cba", date, "WOOLWORTHS METRO", amount)
	b := Make("cba", date, "WOOLWORTHS METRO", amount)
	assert.Equal(t, a, b)
}

func TestMake_DiffersByAmount(t *testing.T) {
	date := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	a := Make("cba", date, "COFFEE", decimal.RequireFromString("5.50"))
	b := Make("cba", date, "COFFEE", decimal.RequireFromString("5.51"))
	assert.NotEqual(t, a, b)
}
