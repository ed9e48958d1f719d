// Package geo holds the small amount of spherical geometry the planner needs:
// coordinate validation and straight-line distances. Road routing is the map
// provider's job and is not computed here.
package geo

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for distance conversion.
const EarthRadiusMeters = 6371008.8

// Valid reports whether (lng, lat) is a usable WGS84 coordinate.
func Valid(lng, lat float64) bool {
	return s2.LatLngFromDegrees(lat, lng).IsValid()
}

// DistanceMeters returns the great-circle distance between two coordinates.
func DistanceMeters(lng1, lat1, lng2, lat2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// PathMeters sums the great-circle distance along an ordered list of
// [lng, lat] points. Fewer than two points have zero length.
func PathMeters(points [][2]float64) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		total += DistanceMeters(a[0], a[1], b[0], b[1])
	}
	return total
}
