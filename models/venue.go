package models

import (
	"fmt"
	"time"
)

// SourceProvider identifies which external API a venue came from.
type SourceProvider string

const (
	SourceFoursquare SourceProvider = "foursquare"
	SourceGoogle     SourceProvider = "google"
)

// VenueCategory is one provider category attached to a venue.
type VenueCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Venue is the canonical, provider-independent representation of a place of
// business. ID is provider-scoped: (ID, SourceProvider) identifies a venue.
// Optional fields use pointers so absent provider capabilities stay null
// instead of zero.
type Venue struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Location         GeoPoint               `json:"location"`
	Address          string                 `json:"address,omitempty"`
	Categories       []VenueCategory        `json:"categories,omitempty"`
	ChainAffiliation []string               `json:"chain_affiliation,omitempty"`
	DistanceMeters   *float64               `json:"distance_meters,omitempty"`
	PopularityScore  *float64               `json:"popularity_score,omitempty"`
	Rating           *float64               `json:"rating,omitempty"`
	PriceLevel       *int                   `json:"price_level,omitempty"`
	Hours            map[string]interface{} `json:"hours,omitempty"`
	Website          string                 `json:"website,omitempty"`
	Phone            string                 `json:"phone,omitempty"`
	Email            string                 `json:"email,omitempty"`
	Verified         bool                   `json:"verified"`
	SourceProvider   SourceProvider         `json:"source_provider"`
	Stats            map[string]interface{} `json:"stats,omitempty"`
	FetchedAt        time.Time              `json:"fetched_at"`
}

func (v *Venue) ToString() string {
	return fmt.Sprintf("Venue(id=%s, name=%s, lat=%f, lon=%f, source=%s)",
		v.ID, v.Name, v.Location.Latitude, v.Location.Longitude, v.SourceProvider)
}

// DedupKey groups venues by name plus location rounded to ~100m (3 decimal
// places). Best-effort cross-provider dedup, not an identity guarantee.
func (v *Venue) DedupKey() string {
	lat, lng := v.Location.RoundedKey(3)
	return fmt.Sprintf("%s|%s|%s", v.Name, lat, lng)
}

// VisitStats is a venue's foot-traffic sample. Only some providers expose it.
type VisitStats struct {
	VenueID         string    `json:"venue_id"`
	VisitsDaily     int       `json:"visits_daily"`
	VisitsWeekly    int       `json:"visits_weekly"`
	PeakHours       []int     `json:"peak_hours,omitempty"`
	BusynessPercent int       `json:"busyness_percent"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// Event is a local happening near a location (concerts, markets, festivals).
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category,omitempty"`
	Venue         string    `json:"venue,omitempty"`
	Location      GeoPoint  `json:"location"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at,omitempty"`
	ExpectedCrowd int       `json:"expected_crowd,omitempty"`
}
