// Package ref builds deterministic external references for imported
// statement rows, used to detect rows already present on an account.
package ref

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const maxDescLen = 10

// Make returns a reference like "anz_20250103_GITHUB_-400" for a statement
// row. The same row always yields the same reference, so re-importing an
// overlapping export is detectable.
func Make(format string, date time.Time, desc string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s_%s_%s_%s",
		format,
		date.Format("20060102"),
		descPrefix(desc),
		amount.Mul(decimal.NewFromInt(100)).Truncate(0).String(),
	)
}

// descPrefix keeps only alphanumerics and truncates.
func descPrefix(desc string) string {
	s := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(s) > maxDescLen {
		s = s[:maxDescLen]
	}
	return s
}
