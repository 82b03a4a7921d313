package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airatk/budget-api/internal/core"
)

func (r *Repository) CreateBudget(ctx context.Context, budget *core.Budget) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, name, type, planned_outcomes_cents) VALUES (?, ?, ?, ?)`,
		budget.UserID, budget.Name, string(budget.Type), budget.PlannedOutcomes.Cents)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	budget.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("budget id: %w", err)
	}
	return nil
}

// GetBudget returns a budget visible to the user: their own, or a joint
// budget owned by anyone in their family.
func (r *Repository) GetBudget(ctx context.Context, user *core.User, budgetID int64) (*core.Budget, error) {
	b := &core.Budget{}
	err := r.db.QueryRowContext(ctx, `
		SELECT b.id, b.user_id, b.name, b.type, b.planned_outcomes_cents
		FROM budgets b
		JOIN users u ON u.id = b.user_id
		WHERE b.id = ?
		  AND (b.user_id = ? OR (b.type = 'joint' AND u.family_id = ?))`,
		budgetID, user.ID, user.FamilyID).
		Scan(&b.ID, &b.UserID, &b.Name, (*string)(&b.Type), &b.PlannedOutcomes.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns the user's budgets of the given type. Joint budgets are
// shared across the whole family, personal ones stay private.
func (r *Repository) ListBudgets(ctx context.Context, user *core.User, budgetType core.BudgetType) ([]core.Budget, error) {
	var (
		rows *sql.Rows
		err  error
	)
	switch budgetType {
	case core.BudgetJoint:
		rows, err = r.db.QueryContext(ctx, `
			SELECT b.id, b.user_id, b.name, b.type, b.planned_outcomes_cents
			FROM budgets b
			JOIN users u ON u.id = b.user_id
			WHERE b.type = 'joint' AND u.family_id = ?
			ORDER BY b.id`, user.FamilyID)
	case core.BudgetPersonal:
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, user_id, name, type, planned_outcomes_cents
			FROM budgets
			WHERE type = 'personal' AND user_id = ?
			ORDER BY id`, user.ID)
	default:
		return nil, fmt.Errorf("list budgets: unknown budget type %q", budgetType)
	}
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, (*string)(&b.Type), &b.PlannedOutcomes.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *Repository) UpdateBudget(ctx context.Context, userID int64, budget *core.Budget) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET name = ?, type = ?, planned_outcomes_cents = ?
		 WHERE id = ? AND user_id = ?`,
		budget.Name, string(budget.Type), budget.PlannedOutcomes.Cents, budget.ID, userID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireAffected(result)
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, budgetID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireAffected(result)
}
