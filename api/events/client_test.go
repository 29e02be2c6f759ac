package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"li-server/api"
	"li-server/api/ratelimit"
	"li-server/api/retry"
	"li-server/models"
)

func TestParseEvents_ModernShape(t *testing.T) {
	payload := []byte(`{
		"events": [
			{
				"id": "ev-1",
				"name": "Night Market",
				"category": "market",
				"venue": {"name": "Riverside Park", "lat": 13.74, "lng": 100.51},
				"starts_at": "2026-09-01T18:00:00Z",
				"expected_attendance": 5000
			}
		]
	}`)

	events := ParseEvents(payload)

	assert.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, "Night Market", events[0].Name)
	assert.Equal(t, "Riverside Park", events[0].Venue)
	assert.Equal(t, 13.74, events[0].Location.Latitude)
	assert.Equal(t, 5000, events[0].ExpectedCrowd)
	assert.Equal(t, 18, events[0].StartsAt.Hour())
}

func TestParseEvents_LegacyShape(t *testing.T) {
	// Older API versions use results/title/start_time and flat coordinates.
	payload := []byte(`{
		"results": [
			{
				"event_id": "ev-2",
				"title": "Jazz Festival",
				"type": "music",
				"lat": 13.75,
				"lng": 100.49,
				"start_time": "2026-09-02T20:00:00Z",
				"rank": 80
			}
		]
	}`)

	events := ParseEvents(payload)

	assert.Len(t, events, 1)
	assert.Equal(t, "ev-2", events[0].ID)
	assert.Equal(t, "Jazz Festival", events[0].Name)
	assert.Equal(t, "music", events[0].Category)
	assert.Equal(t, 80, events[0].ExpectedCrowd)
}

func TestParseEvents_DropsRowsMissingIdentity(t *testing.T) {
	payload := []byte(`{"events": [{"name": "anonymous"}, {"id": "x"}]}`)

	events := ParseEvents(payload)

	assert.Empty(t, events)
}

func TestParseEvents_GarbagePayload(t *testing.T) {
	assert.Empty(t, ParseEvents([]byte(`not even json`)))
	assert.Empty(t, ParseEvents([]byte(`{}`)))
}

func TestClient_FindEvents(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/search", r.URL.Path)
		assert.Equal(t, "ev-key", r.Header.Get("X-API-Key"))
		assert.NotEmpty(t, r.URL.Query().Get("from"))

		w.Write([]byte(`{"events": [{"id": "ev-3", "name": "Street Fair", "lat": 1.0, "lng": 2.0}]}`))
	}))
	defer mockServer.Close()

	policy := retry.NewPolicy(2, time.Millisecond, 10*time.Millisecond)
	limiter := ratelimit.NewSlidingWindow(10, time.Second)
	client := NewClient(api.NewHTTPClient(mockServer.URL), "ev-key", limiter, policy)

	events, err := client.FindEvents(context.Background(), models.GeoPoint{Latitude: 1, Longitude: 2}, 2000, 48*time.Hour)

	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "Street Fair", events[0].Name)
}
