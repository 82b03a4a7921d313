package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/airatk/budget-api/internal/core"
)

func (r *Repository) CreateTransaction(ctx context.Context, transaction *core.Transaction) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (account_id, category_id, type, due_date, due_time, amount_cents, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		transaction.AccountID, nullableID(transaction.CategoryID), string(transaction.Type),
		transaction.DueDate.String(), transaction.DueTime, transaction.Amount.Cents, transaction.Note)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	transaction.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction id: %w", err)
	}
	return nil
}

// GetTransaction fetches a transaction by ID and verifies it is reachable
// through one of the user's accounts; foreign transactions report
// core.ErrRecordNotOwned, missing ones core.ErrRecordNotFound.
func (r *Repository) GetTransaction(ctx context.Context, userID, transactionID int64) (*core.Transaction, error) {
	t := &core.Transaction{}
	var (
		categoryID sql.NullInt64
		dueDate    string
		ownerID    int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.account_id, t.category_id, t.type, t.due_date, t.due_time,
		       t.amount_cents, t.note, a.user_id
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = ?`, transactionID).
		Scan(&t.ID, &t.AccountID, &categoryID, (*string)(&t.Type), &dueDate, &t.DueTime,
			&t.Amount.Cents, &t.Note, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if ownerID != userID {
		return nil, core.ErrRecordNotOwned
	}
	t.CategoryID = categoryID.Int64
	if t.DueDate, err = core.ParseDate(dueDate); err != nil {
		return nil, fmt.Errorf("parse due date %q: %w", dueDate, err)
	}
	return t, nil
}

// ListTransactions returns the user's transactions of one calendar month.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, period core.Period) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.account_id, t.category_id, t.type, t.due_date, t.due_time, t.amount_cents, t.note
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ?
		  AND CAST(strftime('%Y', t.due_date) AS INTEGER) = ?
		  AND CAST(strftime('%m', t.due_date) AS INTEGER) = ?
		ORDER BY t.due_date, t.due_time, t.id`,
		userID, period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		var (
			t          core.Transaction
			categoryID sql.NullInt64
			dueDate    string
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &categoryID, (*string)(&t.Type),
			&dueDate, &t.DueTime, &t.Amount.Cents, &t.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.CategoryID = categoryID.Int64
		if t.DueDate, err = core.ParseDate(dueDate); err != nil {
			return nil, fmt.Errorf("parse due date %q: %w", dueDate, err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *Repository) UpdateTransaction(ctx context.Context, transaction *core.Transaction) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET account_id = ?, category_id = ?, type = ?, due_date = ?, due_time = ?, amount_cents = ?, note = ?
		 WHERE id = ?`,
		transaction.AccountID, nullableID(transaction.CategoryID), string(transaction.Type),
		transaction.DueDate.String(), transaction.DueTime, transaction.Amount.Cents,
		transaction.Note, transaction.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(result)
}

func (r *Repository) DeleteTransaction(ctx context.Context, transactionID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(result)
}

// TransactionPeriods returns the distinct (year, month) pairs in which the
// user has at least one transaction, across all of their accounts.
func (r *Repository) TransactionPeriods(ctx context.Context, userID int64) ([]core.Period, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT CAST(strftime('%Y', t.due_date) AS INTEGER) AS year,
		                CAST(strftime('%m', t.due_date) AS INTEGER) AS month
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ?
		ORDER BY year, month`, userID)
	if err != nil {
		return nil, fmt.Errorf("transaction periods: %w", err)
	}
	defer rows.Close()

	var periods []core.Period
	for rows.Next() {
		var p core.Period
		if err := rows.Scan(&p.Year, &p.Month); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// TransactionsSumForPeriod totals the user's transactions of one type inside
// the named period. Missing data yields zero, never an error.
func (r *Repository) TransactionsSumForPeriod(ctx context.Context, userID int64, transactionType core.TransactionType, periodKind core.PeriodKind, today time.Time) (core.Money, error) {
	query := `
		SELECT COALESCE(SUM(t.amount_cents), 0)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ? AND t.type = ?`
	args := []any{userID, string(transactionType)}

	switch periodKind {
	case core.PeriodCurrentMonth:
		query += ` AND CAST(strftime('%Y', t.due_date) AS INTEGER) = ?
		           AND CAST(strftime('%m', t.due_date) AS INTEGER) = ?`
		args = append(args, today.Year(), int(today.Month()))
	case core.PeriodCurrentYear:
		query += ` AND CAST(strftime('%Y', t.due_date) AS INTEGER) = ?`
		args = append(args, today.Year())
	case core.PeriodAllTime:
		// No date filter.
	default:
		return core.Money{}, core.ErrInvalidPeriod
	}

	var sum core.Money
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&sum.Cents); err != nil {
		return core.Money{}, fmt.Errorf("sum for period: %w", err)
	}
	return sum, nil
}

// TransactionSumsByDate groups the user's transactions of one type by due
// date inside [first, last]. The result is sparse: only dates with at least
// one transaction appear, in ascending order.
func (r *Repository) TransactionSumsByDate(ctx context.Context, userID int64, transactionType core.TransactionType, first, last core.Date) ([]core.DatedValue[core.Money], error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.due_date, SUM(t.amount_cents)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ? AND t.type = ? AND t.due_date BETWEEN ? AND ?
		GROUP BY t.due_date
		ORDER BY t.due_date`,
		userID, string(transactionType), first.String(), last.String())
	if err != nil {
		return nil, fmt.Errorf("sums by date: %w", err)
	}
	defer rows.Close()

	var sums []core.DatedValue[core.Money]
	for rows.Next() {
		var (
			dueDate string
			dv      core.DatedValue[core.Money]
		)
		if err := rows.Scan(&dueDate, &dv.Value.Cents); err != nil {
			return nil, fmt.Errorf("scan sum: %w", err)
		}
		if dv.Date, err = core.ParseDate(dueDate); err != nil {
			return nil, fmt.Errorf("parse due date %q: %w", dueDate, err)
		}
		sums = append(sums, dv)
	}
	return sums, rows.Err()
}

// dateSum is a stage-one aggregate row: the summed amount of one due date
// together with its day of month, the key the second stage joins on.
type dateSum struct {
	date core.Date
	day  int
	sum  int64
}

// CurrentMonthStatistics answers "how does each day of the current month
// compare against the historical average for that day of month". Stage one
// sums all-history transactions per due date; stage two averages the stage
// one sums per day of month; the stages are joined on day of month and the
// result is restricted to the current month. Output is sparse and ascending.
func (r *Repository) CurrentMonthStatistics(ctx context.Context, userID int64, transactionType core.TransactionType, today time.Time) ([]core.DatedValue[core.DayStat], error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.due_date, CAST(strftime('%d', t.due_date) AS INTEGER) AS day, SUM(t.amount_cents)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ? AND t.type = ?
		GROUP BY t.due_date
		ORDER BY t.due_date`,
		userID, string(transactionType))
	if err != nil {
		return nil, fmt.Errorf("current month statistics: %w", err)
	}
	defer rows.Close()

	var perDate []dateSum
	for rows.Next() {
		var (
			dueDate string
			ds      dateSum
		)
		if err := rows.Scan(&dueDate, &ds.day, &ds.sum); err != nil {
			return nil, fmt.Errorf("scan date sum: %w", err)
		}
		if ds.date, err = core.ParseDate(dueDate); err != nil {
			return nil, fmt.Errorf("parse due date %q: %w", dueDate, err)
		}
		perDate = append(perDate, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("current month statistics: %w", err)
	}

	// Stage two: average the per-date sums per day of month.
	sumByDay := make(map[int]int64)
	countByDay := make(map[int]int64)
	for _, ds := range perDate {
		sumByDay[ds.day] += ds.sum
		countByDay[ds.day]++
	}

	first := core.NewDate(today.Year(), int(today.Month()), 1)
	last := core.Date{Time: first.AddDate(0, 1, -1)}

	var statistics []core.DatedValue[core.DayStat]
	for _, ds := range perDate {
		if ds.date.Before(first.Time) || ds.date.After(last.Time) {
			continue
		}
		statistics = append(statistics, core.DatedValue[core.DayStat]{
			Date: ds.date,
			Value: core.DayStat{
				Current: core.Money{Cents: ds.sum},
				Average: core.Money{Cents: roundedAverage(sumByDay[ds.day], countByDay[ds.day])},
			},
		})
	}
	return statistics, nil
}

// roundedAverage divides sum by count rounding half-up; sums are never
// negative here.
func roundedAverage(sum, count int64) int64 {
	if count == 0 {
		return 0
	}
	return (sum + count/2) / count
}
