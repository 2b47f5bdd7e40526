package service

import (
	"context"
	"fmt"
	"log/slog"

	"geonotes/core/logger"
	"geonotes/internal/domain"
)

// FriendsRepo is the persistence contract the friends service relies on.
type FriendsRepo interface {
	Add(ctx context.Context, userID int64, userName string, friendID int64, friendName string) error
	List(ctx context.Context, userID int64) ([]domain.Friend, error)
	Remove(ctx context.Context, userID, friendID int64) error
}

// Friends manages the directed friend graph. A friend link from A to B lets
// B see A's places once B enables friend visibility.
type Friends struct {
	repo FriendsRepo
}

func NewFriends(repo FriendsRepo) *Friends {
	return &Friends{repo: repo}
}

// Add links friendID to the user's place feed. Returns
// domain.ErrAlreadyFriend when the link already exists.
func (f *Friends) Add(ctx context.Context, userID int64, userName string, friendID int64, friendName string) error {
	if friendID == userID {
		return fmt.Errorf("friend id %d: %w", friendID, domain.ErrInvalidInput)
	}
	if err := f.repo.Add(ctx, userID, userName, friendID, friendName); err != nil {
		return fmt.Errorf("add friend %d for user %d: %w", friendID, userID, err)
	}
	logger.Info(ctx, "service.friends", "friend.added",
		slog.Int64("user_id", userID),
		slog.Int64("friend_id", friendID),
	)
	return nil
}

// List returns the user's friends ordered by id.
func (f *Friends) List(ctx context.Context, userID int64) ([]domain.Friend, error) {
	friends, err := f.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends for user %d: %w", userID, err)
	}
	return friends, nil
}

// Remove drops the friend link. Returns domain.ErrNotFound when no such
// link exists.
func (f *Friends) Remove(ctx context.Context, userID, friendID int64) error {
	if err := f.repo.Remove(ctx, userID, friendID); err != nil {
		return fmt.Errorf("remove friend %d for user %d: %w", friendID, userID, err)
	}
	logger.Info(ctx, "service.friends", "friend.removed",
		slog.Int64("user_id", userID),
		slog.Int64("friend_id", friendID),
	)
	return nil
}
