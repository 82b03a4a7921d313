package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/airatk/budget-api/internal/core"
)

// CreateUser inserts a user. When familyID is 0 a fresh single-member family
// is created for them.
func (r *Repository) CreateUser(ctx context.Context, user *core.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if user.FamilyID == 0 {
		result, err := tx.ExecContext(ctx, `INSERT INTO families DEFAULT VALUES`)
		if err != nil {
			return fmt.Errorf("create family: %w", err)
		}
		user.FamilyID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("family id: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (family_id, username, password_hash) VALUES (?, ?, ?)`,
		user.FamilyID, user.Username, user.PasswordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return fmt.Errorf("create user: %w", core.ErrAlreadyExists)
		}
		return fmt.Errorf("create user: %w", err)
	}
	user.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, family_id, username, password_hash FROM users WHERE id = ?`, id))
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, family_id, username, password_hash FROM users WHERE username = ?`, username))
}

// GetRelative fetches another member of the user's family. Requesting
// yourself reports core.ErrSelfIsNotRelative.
func (r *Repository) GetRelative(ctx context.Context, user *core.User, relativeID int64) (*core.User, error) {
	if relativeID == user.ID {
		return nil, core.ErrSelfIsNotRelative
	}
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, family_id, username, password_hash FROM users WHERE id = ? AND family_id = ?`,
		relativeID, user.FamilyID))
}

// CreateFamilyInvite stores an invite token granting membership of the
// user's family until expiresAt.
func (r *Repository) CreateFamilyInvite(ctx context.Context, user *core.User, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO family_invites (token, family_id, expires_at) VALUES (?, ?, ?)`,
		token, user.FamilyID, expiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create family invite: %w", err)
	}
	return nil
}

// ConsumeFamilyInvite redeems an invite token, deleting it so it cannot be
// used twice. Unknown and expired tokens both report core.ErrInvalidInvite.
func (r *Repository) ConsumeFamilyInvite(ctx context.Context, token string, now time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var familyID int64
	err = tx.QueryRowContext(ctx,
		`SELECT family_id FROM family_invites WHERE token = ? AND expires_at > ?`,
		token, now.UTC().Format(time.RFC3339)).Scan(&familyID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.ErrInvalidInvite
	}
	if err != nil {
		return 0, fmt.Errorf("lookup family invite: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM family_invites WHERE token = ?`, token); err != nil {
		return 0, fmt.Errorf("consume family invite: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return familyID, nil
}

func (r *Repository) scanUser(row *sql.Row) (*core.User, error) {
	user := &core.User{}
	err := row.Scan(&user.ID, &user.FamilyID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
