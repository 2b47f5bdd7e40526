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

// visibleFilter selects the caller's own places plus places of every user
// who has added the caller as a friend (the edge grants visibility to the
// friend, not the owner).
const visibleFilter = `user_id IN (SELECT user_id FROM friends WHERE friend_id = $1) OR user_id = $1`

// Places persists saved places.
type Places struct {
	db *sqlx.DB
}

// NewPlaces creates a Places repository.
func NewPlaces(db *sqlx.DB) *Places {
	return &Places{db: db}
}

// Save upserts the owner's user row and inserts the drafted place in one
// transaction, returning the new place id.
func (r *Places) Save(ctx context.Context, draft domain.PlaceDraft) (int64, error) {
	var id int64
	err := coredatabase.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := upsertUserTx(ctx, tx, draft.UserID, draft.UserName); err != nil {
			return err
		}
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO places (user_id, title, photo, latitude, longitude)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			draft.UserID, draft.Title, draft.Photo, draft.Latitude, draft.Longitude,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert place: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListRecent returns up to limit places of the user, newest first.
func (r *Places) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.Place, error) {
	var places []domain.Place
	err := r.db.SelectContext(ctx, &places,
		`SELECT id, user_id, title, photo, latitude, longitude
		 FROM places WHERE user_id = $1 ORDER BY id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

// ListOwn returns all places of the user in insertion order.
func (r *Places) ListOwn(ctx context.Context, userID int64) ([]domain.Place, error) {
	var places []domain.Place
	err := r.db.SelectContext(ctx, &places,
		`SELECT id, user_id, title, photo, latitude, longitude
		 FROM places WHERE user_id = $1 ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

// ListVisible returns the user's own places plus friends' places granted to
// them, in insertion order.
func (r *Places) ListVisible(ctx context.Context, userID int64) ([]domain.Place, error) {
	var places []domain.Place
	err := r.db.SelectContext(ctx, &places,
		`SELECT id, user_id, title, photo, latitude, longitude
		 FROM places WHERE `+visibleFilter+` ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list visible places: %w", err)
	}
	return places, nil
}

// Titles returns (title, id) pairs for the user's own places.
func (r *Places) Titles(ctx context.Context, userID int64) ([]domain.PlaceRef, error) {
	var refs []domain.PlaceRef
	err := r.db.SelectContext(ctx, &refs,
		`SELECT id, title FROM places WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	return refs, nil
}

// TitlesVisible returns (title, id) pairs honoring friend visibility.
func (r *Places) TitlesVisible(ctx context.Context, userID int64) ([]domain.PlaceRef, error) {
	var refs []domain.PlaceRef
	err := r.db.SelectContext(ctx, &refs,
		`SELECT id, title FROM places WHERE `+visibleFilter+` ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list visible titles: %w", err)
	}
	return refs, nil
}

// ByID fetches one place; domain.ErrNotFound when it no longer exists.
func (r *Places) ByID(ctx context.Context, id int64) (domain.Place, error) {
	var place domain.Place
	err := r.db.GetContext(ctx, &place,
		`SELECT id, user_id, title, photo, latitude, longitude FROM places WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Place{}, fmt.Errorf("place %d: %w", id, domain.ErrNotFound)
		}
		return domain.Place{}, fmt.Errorf("select place: %w", err)
	}
	return place, nil
}

// Delete removes a place; domain.ErrNotFound when it was already gone.
func (r *Places) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete place: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("place %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
