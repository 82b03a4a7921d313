package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/airatk/budget-api/internal/core"
)

func (r *Repository) CreateCategory(ctx context.Context, category *core.Category) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, base_category_id, budget_id, name, type)
		 VALUES (?, ?, ?, ?, ?)`,
		category.UserID, nullableID(category.BaseCategoryID), nullableID(category.BudgetID),
		category.Name, string(category.Type))
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	category.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, userID, categoryID int64) (*core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, base_category_id, budget_id, name, type
		 FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID)
	return scanCategory(row)
}

func (r *Repository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, base_category_id, budget_id, name, type
		 FROM categories WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategoryRow(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *Repository) UpdateCategory(ctx context.Context, userID int64, category *core.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET base_category_id = ?, budget_id = ?, name = ?, type = ?
		 WHERE id = ? AND user_id = ?`,
		nullableID(category.BaseCategoryID), nullableID(category.BudgetID),
		category.Name, string(category.Type), category.ID, userID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(result)
}

func (r *Repository) DeleteCategory(ctx context.Context, userID, categoryID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(result)
}

func scanCategory(row *sql.Row) (*core.Category, error) {
	c := &core.Category{}
	var baseID, budgetID sql.NullInt64
	err := row.Scan(&c.ID, &c.UserID, &baseID, &budgetID, &c.Name, (*string)(&c.Type))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.BaseCategoryID = baseID.Int64
	c.BudgetID = budgetID.Int64
	return c, nil
}

func scanCategoryRow(rows *sql.Rows) (*core.Category, error) {
	c := &core.Category{}
	var baseID, budgetID sql.NullInt64
	if err := rows.Scan(&c.ID, &c.UserID, &baseID, &budgetID, &c.Name, (*string)(&c.Type)); err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.BaseCategoryID = baseID.Int64
	c.BudgetID = budgetID.Int64
	return c, nil
}

// nullableID maps the zero ID onto NULL for optional foreign keys.
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
