package core

// Period identifies a calendar month in which a user has transactions.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// DatedValue pairs a calendar date with a value. Sequences of DatedValue are
// keyed by date, unique per date, and may be sparse when they come straight
// from the aggregator.
type DatedValue[V any] struct {
	Date  Date
	Value V
}

// DayStat carries a single day's transaction sum next to the historical
// average sum for that day-of-month.
type DayStat struct {
	Current Money
	Average Money
}

// TrendPoint is one entry of the current-month running trend. Both amounts
// are cumulative, so each is non-decreasing across the series.
type TrendPoint struct {
	Date          Date  `json:"date"`
	CurrentAmount Money `json:"current_amount"`
	AverageAmount Money `json:"average_amount"`
}

// DailyAmount is one entry of the last-n-days highlight series.
type DailyAmount struct {
	Date   Date  `json:"date"`
	Amount Money `json:"amount"`
}

// PeriodSummary packages income and outcome totals for one period kind.
type PeriodSummary struct {
	Period   PeriodKind `json:"period"`
	Incomes  Money      `json:"incomes"`
	Outcomes Money      `json:"outcomes"`
}

// MarshalJSON renders Date as a YYYY-MM-DD string inside trend payloads.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
