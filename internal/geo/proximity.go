package geo

import "geonotes/internal/domain"

// Match pairs a qualifying place with its computed distance in meters.
type Match struct {
	Place    domain.Place
	Distance float64
}

// WithinRadius returns the places whose distance from (lat, lon) does not
// exceed radius, preserving input order. Places missing either coordinate
// are not location-filterable and are skipped.
func WithinRadius(places []domain.Place, lat, lon, radius float64) []Match {
	var matches []Match
	for _, p := range places {
		if !p.HasLocation() {
			continue
		}
		d := Distance(*p.Latitude, *p.Longitude, lat, lon)
		if d <= radius {
			matches = append(matches, Match{Place: p, Distance: d})
		}
	}
	return matches
}
