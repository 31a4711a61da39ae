package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

const (
	milesPerDegreeLat     = 69.0
	earthRadiusMiles      = 3959.0
	locationHashPrecision = 7
)

// BoundingBox is a rectangular lat/lon range approximating a radius query.
// False positives near the corners are an accepted precision/cost tradeoff.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BoxAround computes the bounding box for a radius (miles) around a center.
func BoxAround(lat, lon, radiusMiles float64) BoundingBox {
	latDelta := radiusMiles / milesPerDegreeLat
	lonDelta := radiusMiles / (milesPerDegreeLat * math.Cos(lat*math.Pi/180))
	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}

// Contains reports whether the point falls inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Distance returns the great-circle distance between two points in miles.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// LocationHash encodes a coordinate into a geohash for geographic grouping.
func LocationHash(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, locationHashPrecision)
}

// ValidCoordinates reports whether lat/lon are inside the WGS84 ranges.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
