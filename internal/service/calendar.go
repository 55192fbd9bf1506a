package service

import (
	"time"

	"github.com/shopspring/decimal"
)

const monthKeyLayout = "2006-01"

var hundred = decimal.NewFromInt(100)

// monthKey formats t as YYYY-MM
func monthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// subMonths moves t back n calendar months, clamping the day to the
// length of the target month (Mar 31 - 1 month = Feb 28).
func subMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// roundHalfUp rounds to the nearest integer, halves towards +Inf
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(decimal.NewFromFloat(0.5)).Floor()
}

// percent returns round(100 * part / whole). whole must not be zero.
func percent(part, whole decimal.Decimal) int {
	return int(roundHalfUp(part.Mul(hundred).Div(whole)).IntPart())
}
