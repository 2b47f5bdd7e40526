package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	coredatabase "geonotes/core/database"
	"geonotes/internal/domain"
)

// pqUniqueViolation is the Postgres error code for a unique constraint hit.
const pqUniqueViolation = "23505"

// Friends persists directed friend edges.
type Friends struct {
	db *sqlx.DB
}

// NewFriends creates a Friends repository.
func NewFriends(db *sqlx.DB) *Friends {
	return &Friends{db: db}
}

// Add upserts both user rows and inserts the edge in one transaction.
// Re-inserting an existing edge returns domain.ErrAlreadyFriend so the
// caller can report it distinctly.
func (r *Friends) Add(ctx context.Context, userID int64, userName string, friendID int64, friendName string) error {
	err := coredatabase.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := upsertUserTx(ctx, tx, userID, userName); err != nil {
			return err
		}
		if err := upsertUserTx(ctx, tx, friendID, friendName); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)`,
			userID, friendID); err != nil {
			return fmt.Errorf("insert friend edge: %w", err)
		}
		return nil
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("friend %d: %w", friendID, domain.ErrAlreadyFriend)
		}
		return err
	}
	return nil
}

// List returns the user's friends with display names resolved.
func (r *Friends) List(ctx context.Context, userID int64) ([]domain.Friend, error) {
	var friends []domain.Friend
	err := r.db.SelectContext(ctx, &friends,
		`SELECT friends.friend_id, users.user_name
		 FROM friends JOIN users ON friends.friend_id = users.user_id
		 WHERE friends.user_id = $1 ORDER BY friends.friend_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, nil
}

// Remove deletes the edge; domain.ErrNotFound when it did not exist.
func (r *Friends) Remove(ctx context.Context, userID, friendID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM friends WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
	if err != nil {
		return fmt.Errorf("delete friend edge: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("friend %d: %w", friendID, domain.ErrNotFound)
	}
	return nil
}
