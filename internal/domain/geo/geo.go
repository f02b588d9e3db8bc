// Package geo provides spherical distance math for proximity search.
//
// Listings store their coordinate as a unit-sphere ECEF vector so the
// store's L2-based KNN search orders candidates by great-circle distance.
package geo

import "math"

// EarthRadiusMeters is the mean radius of Earth used for spherical distance.
const EarthRadiusMeters = 6_371_000.0

// VectorDim is the fixed dimension of stored coordinate vectors (ECEF 3D).
const VectorDim = 3

// ToVector converts latitude/longitude (degrees) to a unit-sphere ECEF
// vector suitable for L2-based KNN storage.
func ToVector(latDeg, lonDeg float64) []float32 {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	x := math.Cos(lat) * math.Cos(lon)
	y := math.Cos(lat) * math.Sin(lon)
	z := math.Sin(lat)
	return []float32{float32(x), float32(y), float32(z)}
}

// HaversineKm returns the great-circle distance in kilometers between two
// points specified by latitude and longitude in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c / 1000
}

// L2ToKm converts the L2 distance between two unit-sphere ECEF vectors to
// approximate great-circle distance in kilometers. Uses the identity
// L2^2 = 2*(1 - cos(angle)), so angle = 2*arcsin(L2/2).
func L2ToKm(l2dist float64) float64 {
	// Numerical noise can push the half-chord slightly above 1.
	half := l2dist / 2
	if half > 1 {
		half = 1
	}
	angle := 2 * math.Asin(half)
	return EarthRadiusMeters * angle / 1000
}

// ValidCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
