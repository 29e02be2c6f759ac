package foursquare

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"li-server/api"
	"li-server/api/locations"
	"li-server/api/ratelimit"
	"li-server/api/retry"
	"li-server/models"
)

// Client talks to the Foursquare Places API. Authentication is a bearer-style
// Authorization header; every network call passes through the shared rate
// limiter and then the retry policy.
type Client struct {
	*api.HTTPClient

	apiKey  string
	limiter *ratelimit.SlidingWindow
	retry   *retry.Policy
}

// NewClient creates a Foursquare client around the shared HTTP client.
func NewClient(httpClient *api.HTTPClient, apiKey string, limiter *ratelimit.SlidingWindow, policy *retry.Policy) *Client {
	return &Client{
		HTTPClient: httpClient,
		apiKey:     apiKey,
		limiter:    limiter,
		retry:      policy,
	}
}

func (c *Client) Name() models.SourceProvider {
	return models.SourceFoursquare
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": c.apiKey}
}

// call runs one rate-limited, retried request.
func (c *Client) call(ctx context.Context, endpoint string, query url.Values, response interface{}) error {
	if err := c.limiter.Admit(ctx); err != nil {
		return err
	}
	return c.retry.Do(ctx, func(ctx context.Context) error {
		return c.Request(ctx, "GET", endpoint, c.headers(), query, nil, response)
	})
}

// FindNearby searches venues around the query center and maps them into the
// canonical schema.
func (c *Client) FindNearby(ctx context.Context, query models.SearchQuery) ([]models.Venue, error) {
	q := url.Values{}
	q.Set("ll", fmt.Sprintf("%.6f,%.6f", query.Center.Latitude, query.Center.Longitude))
	q.Set("radius", strconv.Itoa(query.RadiusMeters))
	q.Set("limit", strconv.Itoa(query.Limit))
	if len(query.CategoryFilter) > 0 {
		q.Set("categories", strings.Join(query.CategoryFilter, ","))
	}
	switch query.SortHint {
	case models.SortByDistance:
		q.Set("sort", "DISTANCE")
	case models.SortByPopularity:
		q.Set("sort", "POPULARITY")
	default:
		q.Set("sort", "RELEVANCE")
	}

	var response SearchResponse
	if err := c.call(ctx, "/places/search", q, &response); err != nil {
		return nil, fmt.Errorf("foursquare search failed: %w", err)
	}
	return MapVenues(response.Results), nil
}

// GetDetails fetches one venue. A provider-side 404 is a nil venue, not an
// error.
func (c *Client) GetDetails(ctx context.Context, venueID string) (*models.Venue, error) {
	var raw RawVenue
	if err := c.call(ctx, "/places/"+venueID, nil, &raw); err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("foursquare details failed for %s: %w", venueID, err)
	}

	venue, err := MapVenue(raw)
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// GetVisitStats fetches foot-traffic stats for a venue. Requires the premium
// API tier; an auth failure surfaces as a classified error.
func (c *Client) GetVisitStats(ctx context.Context, venueID string) (*models.VisitStats, error) {
	var raw StatsResponse
	if err := c.call(ctx, "/places/"+venueID+"/stats", nil, &raw); err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("foursquare stats failed for %s: %w", venueID, err)
	}

	return &models.VisitStats{
		VenueID:         venueID,
		VisitsDaily:     raw.VisitsDaily,
		VisitsWeekly:    raw.VisitsWeekly,
		PeakHours:       raw.PeakHours,
		BusynessPercent: raw.BusynessPercent,
		FetchedAt:       time.Now(),
	}, nil
}

// HealthCheck issues a minimal search and samples the latency.
func (c *Client) HealthCheck(ctx context.Context) (*locations.Health, error) {
	q := url.Values{}
	q.Set("ll", "0.000000,0.000000")
	q.Set("limit", "1")

	start := time.Now()
	var response SearchResponse
	err := c.Request(ctx, "GET", "/places/search", c.headers(), q, nil, &response)
	latency := time.Since(start)
	if err != nil {
		return &locations.Health{Status: "unavailable", Latency: latency}, err
	}
	return &locations.Health{Status: "ok", Latency: latency}, nil
}
