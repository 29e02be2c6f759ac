package models

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// GeoPoint is a WGS84 coordinate pair. Treated as an immutable value.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p GeoPoint) ToString() string {
	return fmt.Sprintf("GeoPoint(lat=%f, lon=%f)", p.Latitude, p.Longitude)
}

// Validate checks WGS84 bounds.
func (p GeoPoint) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("invalid latitude %f", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("invalid longitude %f", p.Longitude)
	}
	return nil
}

// DistanceMeters returns the haversine distance to another point.
func (p GeoPoint) DistanceMeters(other GeoPoint) float64 {
	return geo.DistanceHaversine(
		orb.Point{p.Longitude, p.Latitude},
		orb.Point{other.Longitude, other.Latitude},
	)
}

// RoundedKey returns the coordinates rounded to the given number of decimal
// places, formatted for cache-key construction. 4 decimal places is ~11m.
func (p GeoPoint) RoundedKey(decimals int) (string, string) {
	factor := math.Pow(10, float64(decimals))
	lat := math.Round(p.Latitude*factor) / factor
	lng := math.Round(p.Longitude*factor) / factor
	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, lat), fmt.Sprintf(format, lng)
}

// SortHint steers provider-side result ordering.
type SortHint string

const (
	SortByPopularity SortHint = "popularity"
	SortByDistance   SortHint = "distance"
	SortByProminence SortHint = "prominence"
)

// SearchQuery describes one nearby-venue lookup. It is never persisted;
// cache keys are derived from it instead.
type SearchQuery struct {
	Center         GeoPoint
	RadiusMeters   int
	CategoryFilter []string
	Limit          int
	SortHint       SortHint
}

// Validate rejects queries before any network or cache access happens.
func (q SearchQuery) Validate() error {
	if err := q.Center.Validate(); err != nil {
		return err
	}
	if q.RadiusMeters <= 0 {
		return fmt.Errorf("radius must be positive, got %d", q.RadiusMeters)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", q.Limit)
	}
	return nil
}
