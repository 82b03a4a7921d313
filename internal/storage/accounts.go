package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airatk/budget-api/internal/core"
)

// AccountBalance pairs an account name with its derived balance: the opening
// balance plus all incomes minus all outcomes.
type AccountBalance struct {
	Account string     `json:"account"`
	Balance core.Money `json:"balance"`
}

func (r *Repository) CreateAccount(ctx context.Context, account *core.Account) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, name, currency, openning_balance_cents) VALUES (?, ?, ?, ?)`,
		account.UserID, account.Name, account.Currency, account.OpenningBalance.Cents)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	account.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("account id: %w", err)
	}
	return nil
}

// GetAccount returns the account only when it belongs to userID.
func (r *Repository) GetAccount(ctx context.Context, userID, accountID int64) (*core.Account, error) {
	account := &core.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, currency, openning_balance_cents
		 FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID).
		Scan(&account.ID, &account.UserID, &account.Name, &account.Currency, &account.OpenningBalance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, currency, openning_balance_cents
		 FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Currency, &a.OpenningBalance.Cents); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *Repository) UpdateAccount(ctx context.Context, userID int64, account *core.Account) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, currency = ?, openning_balance_cents = ?
		 WHERE id = ? AND user_id = ?`,
		account.Name, account.Currency, account.OpenningBalance.Cents, account.ID, userID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireAffected(result)
}

func (r *Repository) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireAffected(result)
}

// AccountBalances derives the balance of every account the user owns.
// Transfers do not change an account's balance in this model.
func (r *Repository) AccountBalances(ctx context.Context, userID int64) ([]AccountBalance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.name,
		       a.openning_balance_cents
		       + COALESCE(SUM(CASE t.type
		           WHEN 'income' THEN t.amount_cents
		           WHEN 'outcome' THEN -t.amount_cents
		           ELSE 0
		       END), 0)
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		WHERE a.user_id = ?
		GROUP BY a.id
		ORDER BY a.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("account balances: %w", err)
	}
	defer rows.Close()

	var balances []AccountBalance
	for rows.Next() {
		var b AccountBalance
		if err := rows.Scan(&b.Account, &b.Balance.Cents); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}
