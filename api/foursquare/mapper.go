package foursquare

import (
	"fmt"
	"strconv"
	"time"

	"li-server/models"
)

// MapVenue translates one raw Foursquare venue into the canonical schema.
// Optional fields map to nil, never to an error; only a missing required
// field (id, name, location) fails.
func MapVenue(raw RawVenue) (models.Venue, error) {
	if raw.FsqID == "" {
		return models.Venue{}, fmt.Errorf("foursquare venue missing fsq_id")
	}
	if raw.Name == "" {
		return models.Venue{}, fmt.Errorf("foursquare venue %s missing name", raw.FsqID)
	}
	if raw.Geocodes.Main.Latitude == 0 && raw.Geocodes.Main.Longitude == 0 {
		return models.Venue{}, fmt.Errorf("foursquare venue %s missing geocodes", raw.FsqID)
	}

	venue := models.Venue{
		ID:   raw.FsqID,
		Name: raw.Name,
		Location: models.GeoPoint{
			Latitude:  raw.Geocodes.Main.Latitude,
			Longitude: raw.Geocodes.Main.Longitude,
		},
		Address:         mapAddress(raw.Location),
		DistanceMeters:  raw.Distance,
		PopularityScore: raw.Popularity,
		Rating:          raw.Rating,
		PriceLevel:      raw.Price,
		Website:         raw.Website,
		Phone:           raw.Tel,
		Email:           raw.Email,
		Verified:        raw.Verified,
		SourceProvider:  models.SourceFoursquare,
		Stats:           raw.Stats,
		FetchedAt:       time.Now(),
	}

	for _, c := range raw.Categories {
		venue.Categories = append(venue.Categories, models.VenueCategory{
			ID:   strconv.Itoa(c.ID),
			Name: c.Name,
		})
	}
	for _, chain := range raw.Chains {
		venue.ChainAffiliation = append(venue.ChainAffiliation, chain.Name)
	}
	if raw.Hours != nil {
		venue.Hours = map[string]interface{}{
			"display":  raw.Hours.Display,
			"open_now": raw.Hours.OpenNow,
		}
	}

	return venue, nil
}

// MapVenues maps a whole search response, skipping rows that fail required
// field checks rather than failing the batch.
func MapVenues(raws []RawVenue) []models.Venue {
	venues := make([]models.Venue, 0, len(raws))
	for _, raw := range raws {
		v, err := MapVenue(raw)
		if err != nil {
			continue
		}
		venues = append(venues, v)
	}
	return venues
}

func mapAddress(loc RawLocation) string {
	if loc.FormattedAddress != "" {
		return loc.FormattedAddress
	}
	return loc.Address
}
