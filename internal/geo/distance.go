// Package geo implements great-circle distance math and radius filtering
// over saved places.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the spherical-law formulation.
const earthRadiusMeters = 6371009

// Distance returns the great-circle distance in meters between two points
// given in decimal degrees. It uses the spherical law with the atan2
// half-angle form, which stays numerically stable for nearby points and
// returns exactly 0 for identical ones.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	cl1 := math.Cos(rlat1)
	cl2 := math.Cos(rlat2)
	sl1 := math.Sin(rlat1)
	sl2 := math.Sin(rlat2)

	delta := rlon2 - rlon1
	cdelta := math.Cos(delta)
	sdelta := math.Sin(delta)

	y := math.Hypot(cl2*sdelta, cl1*sl2-sl1*cl2*cdelta)
	x := sl1*sl2 + cl1*cl2*cdelta

	return math.Atan2(y, x) * earthRadiusMeters
}
