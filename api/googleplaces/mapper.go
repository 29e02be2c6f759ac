package googleplaces

import (
	"fmt"
	"math"
	"time"

	"li-server/models"
)

// Google has no [0,1] popularity field. user_ratings_total is an unbounded
// count, so it is normalized onto [0,1] with a log scale: 1 review ≈ 0,
// 10k reviews saturate at 1. Keeps cross-provider scoring on one unit.
func normalizePopularity(userRatingsTotal int) float64 {
	if userRatingsTotal <= 0 {
		return 0
	}
	score := math.Log10(1+float64(userRatingsTotal)) / 4.0
	return math.Min(score, 1.0)
}

// MapPlace translates one raw Google place into the canonical schema.
// Optional fields map to nil; only missing id, name, or location fail.
func MapPlace(raw PlaceResult) (models.Venue, error) {
	if raw.PlaceID == "" {
		return models.Venue{}, fmt.Errorf("google place missing place_id")
	}
	if raw.Name == "" {
		return models.Venue{}, fmt.Errorf("google place %s missing name", raw.PlaceID)
	}
	if raw.Geometry.Location.Lat == 0 && raw.Geometry.Location.Lng == 0 {
		return models.Venue{}, fmt.Errorf("google place %s missing geometry", raw.PlaceID)
	}

	venue := models.Venue{
		ID:   raw.PlaceID,
		Name: raw.Name,
		Location: models.GeoPoint{
			Latitude:  raw.Geometry.Location.Lat,
			Longitude: raw.Geometry.Location.Lng,
		},
		Rating:         raw.Rating,
		PriceLevel:     raw.PriceLevel,
		SourceProvider: models.SourceGoogle,
		FetchedAt:      time.Now(),
		// Google never reports chain affiliation; left empty.
	}

	if raw.FormattedAddress != nil {
		venue.Address = *raw.FormattedAddress
	} else if raw.Vicinity != nil {
		venue.Address = *raw.Vicinity
	}
	if raw.Website != nil {
		venue.Website = *raw.Website
	}
	if raw.UserRatingsTotal != nil {
		pop := normalizePopularity(*raw.UserRatingsTotal)
		venue.PopularityScore = &pop
		venue.Stats = map[string]interface{}{
			"user_ratings_total": *raw.UserRatingsTotal,
		}
	}
	if raw.OpeningHours != nil {
		venue.Hours = map[string]interface{}{
			"open_now": raw.OpeningHours.OpenNow,
		}
	}
	if raw.BusinessStatus != nil {
		venue.Verified = *raw.BusinessStatus == "OPERATIONAL"
	}

	for _, t := range raw.Types {
		if t == "point_of_interest" || t == "establishment" {
			continue
		}
		venue.Categories = append(venue.Categories, models.VenueCategory{
			ID:   t,
			Name: t,
		})
	}

	return venue, nil
}

// MapPlaces maps a nearby search response, skipping malformed rows.
func MapPlaces(raws []PlaceResult) []models.Venue {
	venues := make([]models.Venue, 0, len(raws))
	for _, raw := range raws {
		v, err := MapPlace(raw)
		if err != nil {
			continue
		}
		venues = append(venues, v)
	}
	return venues
}
