// Package calendar provides pure date-range helpers used by the trend
// aggregations: dense gap-filling of sparse date-keyed sequences and
// month-boundary computation.
package calendar

import (
	"time"

	"github.com/airatk/budget-api/internal/core"
)

// FillMissingDates expands a sparse ascending date-keyed sequence into a dense
// one covering every day of [first, last], inserting def for absent dates.
// The result always holds DayCount(first, last) entries in ascending order.
//
// Callers guarantee first <= last and that every sparse entry falls inside the
// range; the function performs no validation of that precondition.
func FillMissingDates[V any](sparse []core.DatedValue[V], def V, first, last core.Date) []core.DatedValue[V] {
	byDate := make(map[string]V, len(sparse))
	for _, dv := range sparse {
		byDate[dv.Date.String()] = dv.Value
	}

	dense := make([]core.DatedValue[V], 0, DayCount(first, last))
	for d := first; !d.After(last.Time); d = d.Next() {
		value, ok := byDate[d.String()]
		if !ok {
			value = def
		}
		dense = append(dense, core.DatedValue[V]{Date: d, Value: value})
	}
	return dense
}

// DayCount returns the inclusive number of days between first and last.
func DayCount(first, last core.Date) int {
	return int(last.Sub(first.Time)/(24*time.Hour)) + 1
}

// MonthBoundaries returns the first and last calendar day of t's month.
func MonthBoundaries(t time.Time) (core.Date, core.Date) {
	first := core.NewDate(t.Year(), int(t.Month()), 1)
	last := core.Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}
