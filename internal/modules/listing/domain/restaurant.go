package domain

import (
	"strings"

	"storefrontWs/internal/shared/normalization"
)

// PriceRange holds the advertised menu price bounds. Nil fields were absent upstream.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Restaurant is the canonical listing record. Every upstream field alias is resolved
// by NormalizeRestaurant; nothing past the adapter reads raw payloads.
type Restaurant struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Place       string     `json:"place"`
	Logo        string     `json:"logo,omitempty"`
	Images      []string   `json:"images,omitempty"`
	Star        *float64   `json:"star,omitempty"`
	ReviewCount int        `json:"reviewCount"`
	MenuCount   int        `json:"menuCount"`
	PriceRange  PriceRange `json:"priceRange"`
	Coordinates *GeoPoint  `json:"coordinates,omitempty"`
	Distance    *float64   `json:"distance,omitempty"`
}

var (
	distanceKeys  = []string{"distance", "dist", "distanceKm", "range", "distance_km", "distanceInKm", "distanceFromUser"}
	latitudeKeys  = []string{"latitude", "lat", "latitude_coord"}
	longitudeKeys = []string{"longitude", "longitude_coord"}
)

// NormalizeRestaurant builds a Restaurant from one upstream record. Records without an id are rejected.
func NormalizeRestaurant(raw map[string]any) (Restaurant, bool) {
	if raw == nil {
		return Restaurant{}, false
	}
	r := Restaurant{
		ID:          normalization.AsString(raw["id"]),
		Name:        normalization.AsString(raw["name"]),
		Place:       normalization.FirstString(raw, "place", "location"),
		Logo:        normalization.FirstString(raw, "logo", "imageUrl", "image"),
		ReviewCount: normalization.AsInt(raw["reviewCount"]),
		MenuCount:   normalization.AsInt(raw["menuCount"]),
	}
	if r.ID == "" {
		return Restaurant{}, false
	}

	for _, image := range normalization.AsInterfaceSlice(raw["images"]) {
		if s := normalization.AsString(image); s != "" {
			r.Images = append(r.Images, s)
		}
	}

	if star, ok := normalization.AsOptionalFloat64(raw["star"]); ok {
		r.Star = &star
	} else if rating, ok := normalization.AsOptionalFloat64(raw["rating"]); ok {
		r.Star = &rating
	}

	if prices, ok := raw["priceRange"].(map[string]any); ok {
		if v, ok := normalization.AsOptionalFloat64(prices["min"]); ok {
			r.PriceRange.Min = &v
		}
		if v, ok := normalization.AsOptionalFloat64(prices["max"]); ok {
			r.PriceRange.Max = &v
		}
	}

	r.Coordinates = resolveCoordinates(raw)

	if d, ok := normalization.FirstPositive(raw, distanceKeys...); ok {
		r.Distance = &d
	}
	return r, true
}

// NormalizeRestaurants normalizes a decoded JSON array, dropping unusable entries.
func NormalizeRestaurants(items []any) []Restaurant {
	out := make([]Restaurant, 0, len(items))
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if r, ok := NormalizeRestaurant(raw); ok {
			out = append(out, r)
		}
	}
	return out
}

func resolveCoordinates(raw map[string]any) *GeoPoint {
	var lat, long float64
	var hasLat, hasLong bool
	if nested, ok := raw["coordinates"].(map[string]any); ok {
		lat, hasLat = normalization.FirstNonZero(nested, "lat", "latitude")
		long, hasLong = normalization.FirstNonZero(nested, "long", "lng", "longitude")
	}
	if !hasLat {
		lat, hasLat = normalization.FirstNonZero(raw, latitudeKeys...)
	}
	if !hasLong {
		long, hasLong = normalization.FirstNonZero(raw, longitudeKeys...)
	}
	if !hasLat || !hasLong {
		return nil
	}
	return &GeoPoint{Latitude: lat, Longitude: long}
}

// MatchesSearch is a case-insensitive substring match on name or place. An empty query matches.
func (r Restaurant) MatchesSearch(query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), needle) || strings.Contains(strings.ToLower(r.Place), needle)
}
