package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/airatk/budget-api/internal/calendar"
	"github.com/airatk/budget-api/internal/core"
)

// Aggregator is the grouped-sum query surface of the transaction store.
// *storage.Repository satisfies it.
type Aggregator interface {
	TransactionPeriods(ctx context.Context, userID int64) ([]core.Period, error)
	TransactionsSumForPeriod(ctx context.Context, userID int64, transactionType core.TransactionType, periodKind core.PeriodKind, today time.Time) (core.Money, error)
	TransactionSumsByDate(ctx context.Context, userID int64, transactionType core.TransactionType, first, last core.Date) ([]core.DatedValue[core.Money], error)
	CurrentMonthStatistics(ctx context.Context, userID int64, transactionType core.TransactionType, today time.Time) ([]core.DatedValue[core.DayStat], error)
}

// TrendService builds the derived read views: monthly periods, last-N-days
// highlights, current-month running trend, and period summaries. The clock is
// injected so tests can pin "today".
type TrendService struct {
	aggregator Aggregator
	now        func() time.Time
}

func NewTrendService(aggregator Aggregator) *TrendService {
	return &TrendService{aggregator: aggregator, now: time.Now}
}

// Periods lists the (year, month) pairs in which the user has transactions.
func (s *TrendService) Periods(ctx context.Context, userID int64) ([]core.Period, error) {
	periods, err := s.aggregator.TransactionPeriods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("transaction periods: %w", err)
	}
	return periods, nil
}

// LastNDays returns exactly n entries, oldest first, covering the n days
// ending today. Days without transactions carry a zero amount.
func (s *TrendService) LastNDays(ctx context.Context, userID int64, transactionType core.TransactionType, n int) ([]core.DailyAmount, error) {
	today := core.DateOf(s.now())
	first := core.DateOf(today.AddDate(0, 0, -(n - 1)))

	sparse, err := s.aggregator.TransactionSumsByDate(ctx, userID, transactionType, first, today)
	if err != nil {
		return nil, fmt.Errorf("sums by date: %w", err)
	}

	dense := calendar.FillMissingDates(sparse, core.Money{}, first, today)
	series := make([]core.DailyAmount, len(dense))
	for i, entry := range dense {
		series[i] = core.DailyAmount{Date: entry.Date, Amount: entry.Value}
	}
	return series, nil
}

// CurrentMonthTrend returns a cumulative point per day of the current month.
// CurrentAmount accumulates this month's per-day sums; AverageAmount
// accumulates the historical day-of-month averages. Accumulation starts from
// zero on the 1st, so both series are non-decreasing.
func (s *TrendService) CurrentMonthTrend(ctx context.Context, userID int64, transactionType core.TransactionType) ([]core.TrendPoint, error) {
	today := s.now()
	first, last := calendar.MonthBoundaries(today)

	sparse, err := s.aggregator.CurrentMonthStatistics(ctx, userID, transactionType, today)
	if err != nil {
		return nil, fmt.Errorf("current month statistics: %w", err)
	}

	dense := calendar.FillMissingDates(sparse, core.DayStat{}, first, last)

	trend := make([]core.TrendPoint, len(dense))
	var runningCurrent, runningAverage int64
	for i, entry := range dense {
		runningCurrent += entry.Value.Current.Cents
		runningAverage += entry.Value.Average.Cents
		trend[i] = core.TrendPoint{
			Date:          entry.Date,
			CurrentAmount: core.Money{Cents: runningCurrent},
			AverageAmount: core.Money{Cents: runningAverage},
		}
	}
	return trend, nil
}

// PeriodSummaries computes income and outcome totals for every period kind.
// The six sums are independent, so they run concurrently.
func (s *TrendService) PeriodSummaries(ctx context.Context, userID int64) ([]core.PeriodSummary, error) {
	today := s.now()
	kinds := core.AllPeriodKinds()
	summaries := make([]core.PeriodSummary, len(kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		summaries[i].Period = kind
		g.Go(func() error {
			sum, err := s.aggregator.TransactionsSumForPeriod(ctx, userID, core.TransactionIncome, kind, today)
			if err != nil {
				return fmt.Errorf("%s incomes: %w", kind, err)
			}
			summaries[i].Incomes = sum
			return nil
		})
		g.Go(func() error {
			sum, err := s.aggregator.TransactionsSumForPeriod(ctx, userID, core.TransactionOutcome, kind, today)
			if err != nil {
				return fmt.Errorf("%s outcomes: %w", kind, err)
			}
			summaries[i].Outcomes = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
