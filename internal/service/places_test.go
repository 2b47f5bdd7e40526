package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geonotes/internal/domain"
)

type fakePlaces struct {
	own     []domain.Place
	visible []domain.Place
	saved   []domain.PlaceDraft
	nextID  int64
}

func (f *fakePlaces) Save(_ context.Context, draft domain.PlaceDraft) (int64, error) {
	f.saved = append(f.saved, draft)
	f.nextID++
	return f.nextID, nil
}

func (f *fakePlaces) ListRecent(_ context.Context, _ int64, limit int) ([]domain.Place, error) {
	if limit > len(f.own) {
		limit = len(f.own)
	}
	return f.own[:limit], nil
}

func (f *fakePlaces) ListOwn(context.Context, int64) ([]domain.Place, error) {
	return f.own, nil
}

func (f *fakePlaces) ListVisible(context.Context, int64) ([]domain.Place, error) {
	return f.visible, nil
}

func (f *fakePlaces) Titles(context.Context, int64) ([]domain.PlaceRef, error) {
	return refsOf(f.own), nil
}

func (f *fakePlaces) TitlesVisible(context.Context, int64) ([]domain.PlaceRef, error) {
	return refsOf(f.visible), nil
}

func (f *fakePlaces) ByID(_ context.Context, id int64) (domain.Place, error) {
	for _, p := range append(f.own, f.visible...) {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Place{}, domain.ErrNotFound
}

func (f *fakePlaces) Delete(context.Context, int64) error { return nil }

func refsOf(places []domain.Place) []domain.PlaceRef {
	refs := make([]domain.PlaceRef, len(places))
	for i, p := range places {
		refs[i] = domain.PlaceRef{ID: p.ID, Title: p.Title}
	}
	return refs
}

func ptr(v float64) *float64 { return &v }

func TestPlacesSaveRejectsEmptyTitle(t *testing.T) {
	repo := &fakePlaces{}
	svc := NewPlaces(repo)

	_, err := svc.Save(context.Background(), domain.PlaceDraft{UserID: 7, Title: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.saved)
}

func TestPlacesRecentRejectsBadLimit(t *testing.T) {
	svc := NewPlaces(&fakePlaces{})

	_, err := svc.Recent(context.Background(), 7, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlacesRefsScopesVisibility(t *testing.T) {
	repo := &fakePlaces{
		own:     []domain.Place{{ID: 1, Title: "mine"}},
		visible: []domain.Place{{ID: 1, Title: "mine"}, {ID: 2, Title: "friend's"}},
	}
	svc := NewPlaces(repo)

	refs, err := svc.Refs(context.Background(), 7, false)
	require.NoError(t, err)
	assert.Len(t, refs, 1)

	refs, err = svc.Refs(context.Background(), 7, true)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestPlacesNearbyScopesCandidates(t *testing.T) {
	own := domain.Place{ID: 1, Title: "mine", Latitude: ptr(52.5200), Longitude: ptr(13.4050)}
	shared := domain.Place{ID: 2, Title: "friend's", Latitude: ptr(52.5201), Longitude: ptr(13.4050)}
	repo := &fakePlaces{
		own:     []domain.Place{own},
		visible: []domain.Place{own, shared},
	}
	svc := NewPlaces(repo)

	matches, err := svc.Nearby(context.Background(), 7, 52.5200, 13.4050, 500, false)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].Place.ID)

	matches, err = svc.Nearby(context.Background(), 7, 52.5200, 13.4050, 500, true)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestPlacesNearbyAppliesRadius(t *testing.T) {
	far := domain.Place{ID: 3, Title: "far", Latitude: ptr(48.8566), Longitude: ptr(2.3522)}
	repo := &fakePlaces{own: []domain.Place{far}}
	svc := NewPlaces(repo)

	matches, err := svc.Nearby(context.Background(), 7, 52.5200, 13.4050, 500, false)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFriendsAddRejectsSelf(t *testing.T) {
	svc := NewFriends(fakeFriendsRepo{})

	err := svc.Add(context.Background(), 7, "me", 7, "also me")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type fakeFriendsRepo struct{}

func (fakeFriendsRepo) Add(context.Context, int64, string, int64, string) error { return nil }
func (fakeFriendsRepo) List(context.Context, int64) ([]domain.Friend, error)    { return nil, nil }
func (fakeFriendsRepo) Remove(context.Context, int64, int64) error              { return nil }
