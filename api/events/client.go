// Package events looks up local happenings (concerts, markets, festivals)
// around a point. Event APIs are loosely schema'd and drift between
// versions, so parsing goes through gjson paths with fallbacks instead of
// rigid structs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"li-server/api"
	"li-server/api/ratelimit"
	"li-server/api/retry"
	"li-server/models"
)

// Client talks to the local-events API. Auth is an X-API-Key header.
type Client struct {
	*api.HTTPClient

	apiKey  string
	limiter *ratelimit.SlidingWindow
	retry   *retry.Policy
}

// NewClient creates an events client around the shared HTTP client.
func NewClient(httpClient *api.HTTPClient, apiKey string, limiter *ratelimit.SlidingWindow, policy *retry.Policy) *Client {
	return &Client{
		HTTPClient: httpClient,
		apiKey:     apiKey,
		limiter:    limiter,
		retry:      policy,
	}
}

// FindEvents returns events near center that start within the given window.
func (c *Client) FindEvents(ctx context.Context, center models.GeoPoint, radiusMeters int, window time.Duration) ([]models.Event, error) {
	if err := c.limiter.Admit(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", center.Latitude))
	q.Set("lng", fmt.Sprintf("%.6f", center.Longitude))
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("from", now.Format(time.RFC3339))
	q.Set("to", now.Add(window).Format(time.RFC3339))

	headers := map[string]string{"X-API-Key": c.apiKey}

	var raw json.RawMessage
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		return c.Request(ctx, "GET", "/events/search", headers, q, nil, &raw)
	})
	if err != nil {
		return nil, fmt.Errorf("events search failed: %w", err)
	}

	return ParseEvents(raw), nil
}

// ParseEvents extracts events out of a provider payload. Field names vary
// between API versions (results vs events, name vs title), so every lookup
// has a fallback path. Rows without an id and name are dropped.
func ParseEvents(payload []byte) []models.Event {
	root := gjson.ParseBytes(payload)

	rows := root.Get("events")
	if !rows.Exists() {
		rows = root.Get("results")
	}

	var events []models.Event
	rows.ForEach(func(_, row gjson.Result) bool {
		event := models.Event{
			ID:       firstString(row, "id", "event_id"),
			Name:     firstString(row, "name", "title"),
			Category: firstString(row, "category", "type"),
			Venue:    firstString(row, "venue.name", "venue_name", "place"),
			Location: models.GeoPoint{
				Latitude:  firstFloat(row, "location.lat", "venue.lat", "lat"),
				Longitude: firstFloat(row, "location.lng", "venue.lng", "lng"),
			},
			ExpectedCrowd: int(firstFloat(row, "expected_attendance", "attendance", "rank")),
		}
		if start := firstString(row, "starts_at", "start_time", "start"); start != "" {
			if t, err := time.Parse(time.RFC3339, start); err == nil {
				event.StartsAt = t
			}
		}
		if end := firstString(row, "ends_at", "end_time", "end"); end != "" {
			if t, err := time.Parse(time.RFC3339, end); err == nil {
				event.EndsAt = t
			}
		}

		if event.ID != "" && event.Name != "" {
			events = append(events, event)
		}
		return true
	})

	return events
}

func firstString(row gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := row.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstFloat(row gjson.Result, paths ...string) float64 {
	for _, p := range paths {
		if v := row.Get(p); v.Exists() {
			return v.Float()
		}
	}
	return 0
}
