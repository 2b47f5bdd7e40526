package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geonotes/internal/domain"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	assert.Zero(t, Distance(52.52, 13.405, 52.52, 13.405))
	assert.Zero(t, Distance(0, 0, 0, 0))
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(52.5200, 13.4050, 48.8566, 2.3522)
	b := Distance(48.8566, 2.3522, 52.5200, 13.4050)
	assert.InDelta(t, a, b, 1e-6)
}

func TestDistanceBerlinParis(t *testing.T) {
	// Roughly 877.5 km on a sphere of mean Earth radius.
	d := Distance(52.5200, 13.4050, 48.8566, 2.3522)
	assert.InDelta(t, 877465, d, 877465*0.001)
}

func TestDistanceShortRange(t *testing.T) {
	// One ten-thousandth of a degree of latitude is about 11 meters; the
	// half-angle form must not collapse it to zero.
	d := Distance(52.5200, 13.4050, 52.5201, 13.4050)
	assert.InDelta(t, 11.1, d, 0.2)
}

func coord(v float64) *float64 { return &v }

func TestWithinRadius(t *testing.T) {
	places := []domain.Place{
		{ID: 1, Title: "here", Latitude: coord(52.5200), Longitude: coord(13.4050)},
		{ID: 2, Title: "no location"},
		{ID: 3, Title: "near", Latitude: coord(52.5201), Longitude: coord(13.4050)},
		{ID: 4, Title: "far", Latitude: coord(48.8566), Longitude: coord(2.3522)},
	}

	matches := WithinRadius(places, 52.5200, 13.4050, 100)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(1), matches[0].Place.ID)
	assert.Zero(t, matches[0].Distance)
	assert.Equal(t, int64(3), matches[1].Place.ID)
	assert.InDelta(t, 11.1, matches[1].Distance, 0.2)
}

func TestWithinRadiusBoundaryInclusive(t *testing.T) {
	target := domain.Place{ID: 1, Title: "edge", Latitude: coord(52.5201), Longitude: coord(13.4050)}
	d := Distance(*target.Latitude, *target.Longitude, 52.5200, 13.4050)

	matches := WithinRadius([]domain.Place{target}, 52.5200, 13.4050, d)
	require.Len(t, matches, 1)

	matches = WithinRadius([]domain.Place{target}, 52.5200, 13.4050, d-0.01)
	assert.Empty(t, matches)
}

func TestWithinRadiusEmpty(t *testing.T) {
	assert.Empty(t, WithinRadius(nil, 52.52, 13.405, 500))
}
