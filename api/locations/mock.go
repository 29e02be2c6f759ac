package locations

import (
	"context"
	"fmt"
	"time"

	"li-server/models"
	"li-server/util"
)

const MOCK_VENUES_RESPONSE_PATH = "./resources/mock_venues.json"

// ProviderMock serves canned venues from a fixture file. Wired in non-prod
// environments so the pipeline runs without provider credentials.
type ProviderMock struct {
	FixturePath string
}

// NewProviderMock creates a fixture-backed provider.
func NewProviderMock() *ProviderMock {
	return &ProviderMock{FixturePath: MOCK_VENUES_RESPONSE_PATH}
}

func (m *ProviderMock) Name() models.SourceProvider {
	return models.SourceFoursquare
}

// FindNearby returns the fixture venues regardless of the query center.
func (m *ProviderMock) FindNearby(ctx context.Context, query models.SearchQuery) ([]models.Venue, error) {
	venues, err := util.ReadVenuesFromJSON(m.FixturePath)
	if err != nil {
		fmt.Println("Could not read mock venues from json")
		return nil, err
	}
	if query.Limit > 0 && len(venues) > query.Limit {
		venues = venues[:query.Limit]
	}
	return venues, nil
}

func (m *ProviderMock) GetDetails(ctx context.Context, venueID string) (*models.Venue, error) {
	venues, err := util.ReadVenuesFromJSON(m.FixturePath)
	if err != nil {
		return nil, err
	}
	for i := range venues {
		if venues[i].ID == venueID {
			return &venues[i], nil
		}
	}
	return nil, nil
}

func (m *ProviderMock) GetVisitStats(ctx context.Context, venueID string) (*models.VisitStats, error) {
	return &models.VisitStats{
		VenueID:         venueID,
		VisitsDaily:     240,
		VisitsWeekly:    1680,
		PeakHours:       []int{12, 13, 19, 20},
		BusynessPercent: 55,
		FetchedAt:       time.Now(),
	}, nil
}

func (m *ProviderMock) HealthCheck(ctx context.Context) (*Health, error) {
	return &Health{Status: "ok", Latency: time.Millisecond}, nil
}
