package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"long"`
}

// String renders the "lat,long" form the listing endpoint accepts as its location parameter.
func (p GeoPoint) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

// ParseGeoPoint parses "lat,long".
func ParseGeoPoint(raw string) (GeoPoint, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return GeoPoint{}, fmt.Errorf("invalid location %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return GeoPoint{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || long < -180 || long > 180 {
		return GeoPoint{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return GeoPoint{Latitude: lat, Longitude: long}, nil
}

// HaversineKm is the great-circle distance between two points.
func HaversineKm(a, b GeoPoint) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Latitude - a.Latitude)
	dLong := toRad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*math.Sin(dLong/2)*math.Sin(dLong/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ResolveDistanceKm prefers the upstream distance and otherwise computes it from coordinates.
func (r Restaurant) ResolveDistanceKm(user *GeoPoint) (float64, bool) {
	if r.Distance != nil && *r.Distance > 0 {
		return *r.Distance, true
	}
	if r.Coordinates != nil && user != nil {
		return HaversineKm(*user, *r.Coordinates), true
	}
	return 0, false
}
