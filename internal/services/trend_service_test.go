package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/airatk/budget-api/internal/core"
)

type fakeAggregator struct {
	periods    []core.Period
	sums       map[string]int64 // keyed by "<type>/<kind>"
	sumsByDate []core.DatedValue[core.Money]
	statistics []core.DatedValue[core.DayStat]
	err        error
}

func (f *fakeAggregator) TransactionPeriods(_ context.Context, _ int64) ([]core.Period, error) {
	return f.periods, f.err
}

func (f *fakeAggregator) TransactionsSumForPeriod(_ context.Context, _ int64, transactionType core.TransactionType, periodKind core.PeriodKind, _ time.Time) (core.Money, error) {
	if f.err != nil {
		return core.Money{}, f.err
	}
	return core.Money{Cents: f.sums[string(transactionType)+"/"+string(periodKind)]}, nil
}

func (f *fakeAggregator) TransactionSumsByDate(_ context.Context, _ int64, _ core.TransactionType, _, _ core.Date) ([]core.DatedValue[core.Money], error) {
	return f.sumsByDate, f.err
}

func (f *fakeAggregator) CurrentMonthStatistics(_ context.Context, _ int64, _ core.TransactionType, _ time.Time) ([]core.DatedValue[core.DayStat], error) {
	return f.statistics, f.err
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func TestLastNDays(t *testing.T) {
	aggregator := &fakeAggregator{
		sumsByDate: []core.DatedValue[core.Money]{
			{Date: core.NewDate(2023, 6, 1), Value: core.Money{Cents: 10}},
			{Date: core.NewDate(2023, 6, 3), Value: core.Money{Cents: 5}},
		},
	}
	s := NewTrendService(aggregator)
	s.now = fixedClock(2023, time.June, 3)

	series, err := s.LastNDays(context.Background(), 1, core.TransactionOutcome, 3)
	if err != nil {
		t.Fatalf("last n days: %v", err)
	}

	want := []core.DailyAmount{
		{Date: core.NewDate(2023, 6, 1), Amount: core.Money{Cents: 10}},
		{Date: core.NewDate(2023, 6, 2), Amount: core.Money{Cents: 0}},
		{Date: core.NewDate(2023, 6, 3), Amount: core.Money{Cents: 5}},
	}
	if len(series) != len(want) {
		t.Fatalf("got %d entries, want %d", len(series), len(want))
	}
	for i := range want {
		if !series[i].Date.Equal(want[i].Date.Time) || series[i].Amount != want[i].Amount {
			t.Errorf("entry %d = %+v, want %+v", i, series[i], want[i])
		}
	}
}

func TestLastNDaysEmptyStore(t *testing.T) {
	s := NewTrendService(&fakeAggregator{})
	s.now = fixedClock(2023, time.June, 10)

	series, err := s.LastNDays(context.Background(), 1, core.TransactionIncome, 7)
	if err != nil {
		t.Fatalf("last n days: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("got %d entries, want 7", len(series))
	}
	for i, entry := range series {
		if entry.Amount.Cents != 0 {
			t.Errorf("entry %d amount = %d, want 0", i, entry.Amount.Cents)
		}
	}
	if !series[0].Date.Equal(core.NewDate(2023, 6, 4).Time) {
		t.Errorf("first date = %v, want 2023-06-04", series[0].Date)
	}
}

func TestCurrentMonthTrend(t *testing.T) {
	aggregator := &fakeAggregator{
		statistics: []core.DatedValue[core.DayStat]{
			{Date: core.NewDate(2023, 6, 5), Value: core.DayStat{
				Current: core.Money{Cents: 20},
				Average: core.Money{Cents: 20},
			}},
		},
	}
	s := NewTrendService(aggregator)
	s.now = fixedClock(2023, time.June, 15)

	trend, err := s.CurrentMonthTrend(context.Background(), 1, core.TransactionOutcome)
	if err != nil {
		t.Fatalf("current month trend: %v", err)
	}

	if len(trend) != 30 {
		t.Fatalf("got %d points, want 30 for June", len(trend))
	}
	for i := 0; i < 4; i++ {
		if trend[i].CurrentAmount.Cents != 0 {
			t.Errorf("day %d current = %d, want 0", i+1, trend[i].CurrentAmount.Cents)
		}
	}
	for i := 4; i < 30; i++ {
		if trend[i].CurrentAmount.Cents != 20 {
			t.Errorf("day %d current = %d, want 20", i+1, trend[i].CurrentAmount.Cents)
		}
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].Date.Before(trend[i-1].Date.Time) || trend[i].Date.Equal(trend[i-1].Date.Time) {
			t.Fatalf("dates not strictly ascending at %d", i)
		}
		if trend[i].CurrentAmount.Cents < trend[i-1].CurrentAmount.Cents {
			t.Fatalf("current amount decreased at %d", i)
		}
		if trend[i].AverageAmount.Cents < trend[i-1].AverageAmount.Cents {
			t.Fatalf("average amount decreased at %d", i)
		}
	}
}

func TestCurrentMonthTrendAccumulatesBothSeries(t *testing.T) {
	aggregator := &fakeAggregator{
		statistics: []core.DatedValue[core.DayStat]{
			{Date: core.NewDate(2023, 2, 1), Value: core.DayStat{
				Current: core.Money{Cents: 100},
				Average: core.Money{Cents: 80},
			}},
			{Date: core.NewDate(2023, 2, 3), Value: core.DayStat{
				Current: core.Money{Cents: 50},
				Average: core.Money{Cents: 60},
			}},
		},
	}
	s := NewTrendService(aggregator)
	s.now = fixedClock(2023, time.February, 10)

	trend, err := s.CurrentMonthTrend(context.Background(), 1, core.TransactionOutcome)
	if err != nil {
		t.Fatalf("current month trend: %v", err)
	}
	if len(trend) != 28 {
		t.Fatalf("got %d points, want 28 for February 2023", len(trend))
	}
	if trend[0].CurrentAmount.Cents != 100 || trend[0].AverageAmount.Cents != 80 {
		t.Errorf("day 1 = %+v", trend[0])
	}
	if trend[1].CurrentAmount.Cents != 100 || trend[1].AverageAmount.Cents != 80 {
		t.Errorf("day 2 = %+v", trend[1])
	}
	if trend[2].CurrentAmount.Cents != 150 || trend[2].AverageAmount.Cents != 140 {
		t.Errorf("day 3 = %+v", trend[2])
	}
	last := trend[len(trend)-1]
	if last.CurrentAmount.Cents != 150 || last.AverageAmount.Cents != 140 {
		t.Errorf("last day = %+v", last)
	}
}

func TestPeriodSummaries(t *testing.T) {
	aggregator := &fakeAggregator{
		sums: map[string]int64{
			"income/current_month":  1000,
			"outcome/current_month": 400,
			"income/current_year":   12000,
			"outcome/current_year":  5000,
			"income/all_time":       100000,
			"outcome/all_time":      60000,
		},
	}
	s := NewTrendService(aggregator)
	s.now = fixedClock(2023, time.June, 15)

	summaries, err := s.PeriodSummaries(context.Background(), 1)
	if err != nil {
		t.Fatalf("period summaries: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}

	want := map[core.PeriodKind][2]int64{
		core.PeriodCurrentMonth: {1000, 400},
		core.PeriodCurrentYear:  {12000, 5000},
		core.PeriodAllTime:      {100000, 60000},
	}
	for _, summary := range summaries {
		expected, ok := want[summary.Period]
		if !ok {
			t.Fatalf("unexpected period kind %q", summary.Period)
		}
		if summary.Incomes.Cents != expected[0] || summary.Outcomes.Cents != expected[1] {
			t.Errorf("%s = %+v, want incomes %d / outcomes %d",
				summary.Period, summary, expected[0], expected[1])
		}
		delete(want, summary.Period)
	}
}

func TestPeriodSummariesPropagatesErrors(t *testing.T) {
	aggregator := &fakeAggregator{err: errors.New("db gone")}
	s := NewTrendService(aggregator)
	s.now = fixedClock(2023, time.June, 15)

	if _, err := s.PeriodSummaries(context.Background(), 1); err == nil {
		t.Fatal("expected error from failing aggregator")
	}
}

func TestPeriodsPropagatesAggregatorResult(t *testing.T) {
	aggregator := &fakeAggregator{periods: []core.Period{{Year: 2023, Month: 1}, {Year: 2023, Month: 3}}}
	s := NewTrendService(aggregator)

	periods, err := s.Periods(context.Background(), 1)
	if err != nil {
		t.Fatalf("periods: %v", err)
	}
	if len(periods) != 2 || periods[0] != (core.Period{Year: 2023, Month: 1}) {
		t.Fatalf("got %v", periods)
	}
}
