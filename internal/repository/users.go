// Package repository provides sqlx-backed Postgres access for users,
// places, and friend edges.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	coredatabase "geonotes/core/database"
	"geonotes/internal/domain"
)

// settingColumns whitelists the columns UpdateSetting may touch.
var settingColumns = map[string]struct{}{
	"list_size":            {},
	"radius":               {},
	"friend_place_visible": {},
}

// Users persists user rows and their settings.
type Users struct {
	db *sqlx.DB
}

// NewUsers creates a Users repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Upsert inserts the user row if absent; an existing row is left untouched.
func (r *Users) Upsert(ctx context.Context, userID int64, name string) error {
	return upsertUser(ctx, r.db, userID, name)
}

// Settings returns the stored settings row, or domain.ErrNotFound when the
// user has never been persisted.
func (r *Users) Settings(ctx context.Context, userID int64) (listSize int, radius float64, visible bool, err error) {
	var row struct {
		ListSize int     `db:"list_size"`
		Radius   float64 `db:"radius"`
		Visible  bool    `db:"friend_place_visible"`
	}
	err = r.db.GetContext(ctx, &row,
		`SELECT list_size, radius, friend_place_visible FROM users WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, false, fmt.Errorf("user %d settings: %w", userID, domain.ErrNotFound)
		}
		return 0, 0, false, fmt.Errorf("select settings: %w", err)
	}
	return row.ListSize, row.Radius, row.Visible, nil
}

// UpdateSetting sets a single whitelisted column, creating the user row with
// the given display name first when it does not exist.
func (r *Users) UpdateSetting(ctx context.Context, userID int64, userName, column string, value any) error {
	if _, ok := settingColumns[column]; !ok {
		return fmt.Errorf("setting column %q is not updatable", column)
	}
	return coredatabase.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := upsertUserTx(ctx, tx, userID, userName); err != nil {
			return err
		}
		query := fmt.Sprintf(`UPDATE users SET %s = $1 WHERE user_id = $2`, column)
		if _, err := tx.ExecContext(ctx, query, value, userID); err != nil {
			return fmt.Errorf("update %s: %w", column, err)
		}
		return nil
	})
}

// Delete removes the user row; places and friend edges cascade by FK.
func (r *Users) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func upsertUser(ctx context.Context, db *sqlx.DB, userID int64, name string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (user_id, user_name) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, name)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func upsertUserTx(ctx context.Context, tx *sqlx.Tx, userID int64, name string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (user_id, user_name) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, name)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
