package events

import (
	"context"
	"fmt"
	"time"

	"li-server/models"
	"li-server/util"
)

const MOCK_EVENTS_RESPONSE_PATH = "./resources/mock_events.json"

// SourceMock serves canned events from a fixture file for non-prod
// environments.
type SourceMock struct {
	FixturePath string
}

func NewSourceMock() *SourceMock {
	return &SourceMock{FixturePath: MOCK_EVENTS_RESPONSE_PATH}
}

func (m *SourceMock) FindEvents(ctx context.Context, center models.GeoPoint, radiusMeters int, window time.Duration) ([]models.Event, error) {
	events, err := util.ReadEventsFromJSON(m.FixturePath)
	if err != nil {
		fmt.Println("Could not read mock events from json")
		return nil, err
	}
	return events, nil
}
