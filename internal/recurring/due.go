// Package recurring evaluates and executes standing internal transfers.
package recurring

import (
	"fmt"
	"time"

	"github.com/tally-dev/tally/internal/model"
)

const day = 24 * time.Hour

// IsDue reports whether a transfer with the given cadence is due at now.
// A transfer that has never run is always due. The monthly rule tolerates
// calendars where the exact day-of-month does not exist: a transfer last run
// on the 31st comes due on the 28th or 29th of a shorter February.
// An unrecognized cadence is a configuration error and returns an error.
func IsDue(lastRun *time.Time, now time.Time, cadence model.Cadence) (bool, error) {
	if lastRun == nil {
		return true, nil
	}
	elapsed := now.Sub(*lastRun)

	switch cadence {
	case model.CadenceDaily:
		return elapsed >= day, nil
	case model.CadenceWeekly:
		return elapsed >= 7*day, nil
	case model.CadenceMonthly:
		if elapsed < 28*day {
			return false, nil
		}
		return now.Day() == lastRun.Day() || daysInMonth(now) < lastRun.Day(), nil
	default:
		return false, fmt.Errorf("unsupported cadence %q", cadence)
	}
}

// daysInMonth returns the number of days in t's month.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
