// Package service holds the application use-cases between the Telegram
// surface and the repositories. Services validate input, apply per-user
// defaults and translate storage failures into domain errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"geonotes/core/logger"
	"geonotes/internal/domain"
)

// UsersRepo is the persistence contract the settings service relies on.
// UpdateSetting seeds the user row with userName when it does not exist yet.
type UsersRepo interface {
	Upsert(ctx context.Context, userID int64, name string) error
	Settings(ctx context.Context, userID int64) (listSize int, radius float64, visible bool, err error)
	UpdateSetting(ctx context.Context, userID int64, userName, column string, value any) error
	Delete(ctx context.Context, userID int64) error
}

// Defaults are applied when a user has no stored profile yet.
type Defaults struct {
	ListSize int
	Radius   float64
}

// Settings manages per-user preferences.
type Settings struct {
	users    UsersRepo
	defaults Defaults
}

func NewSettings(users UsersRepo, defaults Defaults) *Settings {
	return &Settings{users: users, defaults: defaults}
}

// Register records the user profile, keeping the existing row when present.
func (s *Settings) Register(ctx context.Context, userID int64, name string) error {
	if err := s.users.Upsert(ctx, userID, name); err != nil {
		return fmt.Errorf("register user %d: %w", userID, err)
	}
	logger.Debug(ctx, "service.settings", "user.registered", slog.Int64("user_id", userID))
	return nil
}

// Get returns the stored settings for the user. The second return value is
// false when the user has never been registered, in which case the defaults
// are returned.
func (s *Settings) Get(ctx context.Context, userID int64) (domain.UserSettings, bool, error) {
	listSize, radius, visible, err := s.users.Settings(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.UserSettings{
			UserID:              userID,
			ListSize:            s.defaults.ListSize,
			Radius:              s.defaults.Radius,
			FriendPlacesVisible: false,
		}, false, nil
	case err != nil:
		return domain.UserSettings{}, false, fmt.Errorf("load settings for user %d: %w", userID, err)
	}
	return domain.UserSettings{
		UserID:              userID,
		ListSize:            listSize,
		Radius:              radius,
		FriendPlacesVisible: visible,
	}, true, nil
}

// SetListSize updates the default page size for place listings.
func (s *Settings) SetListSize(ctx context.Context, userID int64, userName string, size int) error {
	if size <= 0 {
		return fmt.Errorf("list size %d: %w", size, domain.ErrInvalidInput)
	}
	if err := s.users.UpdateSetting(ctx, userID, userName, "list_size", size); err != nil {
		return fmt.Errorf("set list size for user %d: %w", userID, err)
	}
	logger.Info(ctx, "service.settings", "setting.updated",
		slog.Int64("user_id", userID),
		slog.String("setting", "list_size"),
		slog.Int("value", size),
	)
	return nil
}

// SetRadius updates the proximity search radius in meters.
func (s *Settings) SetRadius(ctx context.Context, userID int64, userName string, radius float64) error {
	if radius <= 0 {
		return fmt.Errorf("radius %v: %w", radius, domain.ErrInvalidInput)
	}
	if err := s.users.UpdateSetting(ctx, userID, userName, "radius", radius); err != nil {
		return fmt.Errorf("set radius for user %d: %w", userID, err)
	}
	logger.Info(ctx, "service.settings", "setting.updated",
		slog.Int64("user_id", userID),
		slog.String("setting", "radius"),
		slog.Float64("value", radius),
	)
	return nil
}

// SetFriendPlacesVisible toggles whether friends' places appear in searches.
func (s *Settings) SetFriendPlacesVisible(ctx context.Context, userID int64, userName string, visible bool) error {
	if err := s.users.UpdateSetting(ctx, userID, userName, "friend_place_visible", visible); err != nil {
		return fmt.Errorf("set friend visibility for user %d: %w", userID, err)
	}
	logger.Info(ctx, "service.settings", "setting.updated",
		slog.Int64("user_id", userID),
		slog.String("setting", "friend_place_visible"),
		slog.Bool("value", visible),
	)
	return nil
}

// Reset removes the user profile together with their places and friend links.
func (s *Settings) Reset(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("reset user %d: %w", userID, err)
	}
	logger.Info(ctx, "service.settings", "user.reset", slog.Int64("user_id", userID))
	return nil
}
