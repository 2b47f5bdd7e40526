package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geonotes/internal/domain"
)

type fakeUsers struct {
	listSize int
	radius   float64
	visible  bool
	absent   bool
	err      error

	updatedName   string
	updatedColumn string
	updatedValue  any
	deleted       []int64
}

func (f *fakeUsers) Upsert(context.Context, int64, string) error { return f.err }

func (f *fakeUsers) Settings(context.Context, int64) (int, float64, bool, error) {
	if f.err != nil {
		return 0, 0, false, f.err
	}
	if f.absent {
		return 0, 0, false, domain.ErrNotFound
	}
	return f.listSize, f.radius, f.visible, nil
}

func (f *fakeUsers) UpdateSetting(_ context.Context, _ int64, userName, column string, value any) error {
	if f.err != nil {
		return f.err
	}
	f.updatedName = userName
	f.updatedColumn = column
	f.updatedValue = value
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, userID int64) error {
	f.deleted = append(f.deleted, userID)
	return f.err
}

func TestSettingsGetStored(t *testing.T) {
	users := &fakeUsers{listSize: 5, radius: 750, visible: true}
	svc := NewSettings(users, Defaults{ListSize: 10, Radius: 500})

	got, found, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 5, got.ListSize)
	assert.Equal(t, 750.0, got.Radius)
	assert.True(t, got.FriendPlacesVisible)
}

func TestSettingsGetDefaultsForUnknownUser(t *testing.T) {
	users := &fakeUsers{absent: true}
	svc := NewSettings(users, Defaults{ListSize: 10, Radius: 500})

	got, found, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 10, got.ListSize)
	assert.Equal(t, 500.0, got.Radius)
	assert.False(t, got.FriendPlacesVisible)
}

func TestSettingsGetPropagatesError(t *testing.T) {
	users := &fakeUsers{err: errors.New("boom")}
	svc := NewSettings(users, Defaults{})

	_, _, err := svc.Get(context.Background(), 7)
	assert.Error(t, err)
}

func TestSetListSizeValidation(t *testing.T) {
	users := &fakeUsers{}
	svc := NewSettings(users, Defaults{})

	for _, size := range []int{0, -5} {
		err := svc.SetListSize(context.Background(), 7, "alice", size)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "size %d", size)
	}
	assert.Empty(t, users.updatedColumn, "invalid input must not reach storage")

	require.NoError(t, svc.SetListSize(context.Background(), 7, "alice", 25))
	assert.Equal(t, "list_size", users.updatedColumn)
	assert.Equal(t, 25, users.updatedValue)
}

func TestSetRadiusValidation(t *testing.T) {
	users := &fakeUsers{}
	svc := NewSettings(users, Defaults{})

	err := svc.SetRadius(context.Background(), 7, "alice", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.SetRadius(context.Background(), 7, "alice", 750))
	assert.Equal(t, "radius", users.updatedColumn)
	assert.Equal(t, 750.0, users.updatedValue)
}

// The upsert inside UpdateSetting seeds user_name for a user who was never
// registered, so the name handed to storage must be the sender's display
// name and never the setting's label.
func TestSetRadiusSeedsSenderName(t *testing.T) {
	users := &fakeUsers{}
	svc := NewSettings(users, Defaults{})

	require.NoError(t, svc.SetRadius(context.Background(), 7, "alice", 750))
	assert.Equal(t, "alice", users.updatedName)
}

func TestSetFriendPlacesVisible(t *testing.T) {
	users := &fakeUsers{}
	svc := NewSettings(users, Defaults{})

	require.NoError(t, svc.SetFriendPlacesVisible(context.Background(), 7, "alice", true))
	assert.Equal(t, "friend_place_visible", users.updatedColumn)
	assert.Equal(t, true, users.updatedValue)
}

func TestSettingsReset(t *testing.T) {
	users := &fakeUsers{}
	svc := NewSettings(users, Defaults{})

	require.NoError(t, svc.Reset(context.Background(), 7))
	assert.Equal(t, []int64{7}, users.deleted)
}
