package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"geonotes/core/logger"
	"geonotes/internal/domain"
	"geonotes/internal/geo"
)

// PlacesRepo is the persistence contract the places service relies on.
type PlacesRepo interface {
	Save(ctx context.Context, draft domain.PlaceDraft) (int64, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]domain.Place, error)
	ListOwn(ctx context.Context, userID int64) ([]domain.Place, error)
	ListVisible(ctx context.Context, userID int64) ([]domain.Place, error)
	Titles(ctx context.Context, userID int64) ([]domain.PlaceRef, error)
	TitlesVisible(ctx context.Context, userID int64) ([]domain.PlaceRef, error)
	ByID(ctx context.Context, id int64) (domain.Place, error)
	Delete(ctx context.Context, id int64) error
}

// Places manages saved locations and proximity lookups.
type Places struct {
	repo PlacesRepo
}

func NewPlaces(repo PlacesRepo) *Places {
	return &Places{repo: repo}
}

// Save stores a completed draft and returns the new place id.
func (p *Places) Save(ctx context.Context, draft domain.PlaceDraft) (int64, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return 0, fmt.Errorf("place title: %w", domain.ErrInvalidInput)
	}
	id, err := p.repo.Save(ctx, draft)
	if err != nil {
		return 0, fmt.Errorf("save place for user %d: %w", draft.UserID, err)
	}
	logger.Info(ctx, "service.places", "place.saved",
		slog.Int64("user_id", draft.UserID),
		slog.Int64("place_id", id),
		slog.Bool("has_photo", len(draft.Photo) > 0),
		slog.Bool("has_location", draft.Latitude != nil),
	)
	return id, nil
}

// Recent returns the user's own places, newest first, capped at limit.
func (p *Places) Recent(ctx context.Context, userID int64, limit int) ([]domain.Place, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("list limit %d: %w", limit, domain.ErrInvalidInput)
	}
	places, err := p.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list places for user %d: %w", userID, err)
	}
	return places, nil
}

// Refs returns id/title pairs for selection keyboards. With includeFriends
// the result also covers places shared by the user's friends.
func (p *Places) Refs(ctx context.Context, userID int64, includeFriends bool) ([]domain.PlaceRef, error) {
	var (
		refs []domain.PlaceRef
		err  error
	)
	if includeFriends {
		refs, err = p.repo.TitlesVisible(ctx, userID)
	} else {
		refs, err = p.repo.Titles(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list place titles for user %d: %w", userID, err)
	}
	return refs, nil
}

// Get loads a single place by id.
func (p *Places) Get(ctx context.Context, id int64) (domain.Place, error) {
	place, err := p.repo.ByID(ctx, id)
	if err != nil {
		return domain.Place{}, fmt.Errorf("load place %d: %w", id, err)
	}
	return place, nil
}

// Remove deletes a place by id.
func (p *Places) Remove(ctx context.Context, userID, id int64) error {
	if err := p.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete place %d: %w", id, err)
	}
	logger.Info(ctx, "service.places", "place.deleted",
		slog.Int64("user_id", userID),
		slog.Int64("place_id", id),
	)
	return nil
}

// Nearby returns the places within radius meters of the given point,
// each paired with its computed distance.
func (p *Places) Nearby(ctx context.Context, userID int64, lat, lon, radius float64, includeFriends bool) ([]geo.Match, error) {
	var (
		candidates []domain.Place
		err        error
	)
	if includeFriends {
		candidates, err = p.repo.ListVisible(ctx, userID)
	} else {
		candidates, err = p.repo.ListOwn(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load candidates for user %d: %w", userID, err)
	}
	matches := geo.WithinRadius(candidates, lat, lon, radius)
	logger.Debug(ctx, "service.places", "proximity.query",
		slog.Int64("user_id", userID),
		slog.Float64("radius", radius),
		slog.Int("candidates", len(candidates)),
		slog.Int("matches", len(matches)),
	)
	return matches, nil
}
