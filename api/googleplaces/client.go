package googleplaces

import (
	"context"
	"fmt"
	"net/http"
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

// Client talks to the Google Places API. Authentication is a query-param
// key, a capability difference from header-authenticated providers. Errors
// Google reports in the body status field are re-mapped onto the shared
// taxonomy so the retry policy treats both providers uniformly.
type Client struct {
	*api.HTTPClient

	apiKey  string
	limiter *ratelimit.SlidingWindow
	retry   *retry.Policy
}

// NewClient creates a Google Places client around the shared HTTP client.
func NewClient(httpClient *api.HTTPClient, apiKey string, limiter *ratelimit.SlidingWindow, policy *retry.Policy) *Client {
	return &Client{
		HTTPClient: httpClient,
		apiKey:     apiKey,
		limiter:    limiter,
		retry:      policy,
	}
}

func (c *Client) Name() models.SourceProvider {
	return models.SourceGoogle
}

func (c *Client) call(ctx context.Context, endpoint string, query url.Values, response interface{}) error {
	if err := c.limiter.Admit(ctx); err != nil {
		return err
	}
	query.Set("key", c.apiKey)
	return c.retry.Do(ctx, func(ctx context.Context) error {
		return c.Request(ctx, "GET", endpoint, nil, query, nil, response)
	})
}

// statusError maps Google's in-body status strings onto the error taxonomy.
func statusError(status, message string) error {
	switch status {
	case STATUS_OK, STATUS_ZERO_RESULTS:
		return nil
	case STATUS_NOT_FOUND:
		return &api.Error{Kind: api.KindNotFound, Message: message}
	case STATUS_OVER_QUERY_LIMIT:
		return &api.Error{Kind: api.KindRateLimited, StatusCode: http.StatusTooManyRequests, Message: message}
	case STATUS_REQUEST_DENIED:
		return &api.Error{Kind: api.KindAuth, Message: message}
	case STATUS_INVALID_REQUEST:
		return &api.Error{Kind: api.KindClientError, Message: message}
	default:
		return &api.Error{Kind: api.KindUnknown, Message: status + ": " + message}
	}
}

// FindNearby runs a nearby search and maps results into the canonical
// schema.
func (c *Client) FindNearby(ctx context.Context, query models.SearchQuery) ([]models.Venue, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%.6f,%.6f", query.Center.Latitude, query.Center.Longitude))
	q.Set("radius", strconv.Itoa(query.RadiusMeters))
	if len(query.CategoryFilter) > 0 {
		q.Set("type", strings.Join(query.CategoryFilter, "|"))
	}
	if query.SortHint == models.SortByDistance {
		// rankby=distance and radius are mutually exclusive on this API.
		q.Del("radius")
		q.Set("rankby", "distance")
	}

	var response NearbySearchResponse
	if err := c.call(ctx, "/nearbysearch/json", q, &response); err != nil {
		return nil, fmt.Errorf("google nearby search failed: %w", err)
	}
	if err := statusError(response.Status, response.ErrorMessage); err != nil {
		return nil, fmt.Errorf("google nearby search failed: %w", err)
	}

	venues := MapPlaces(response.Results)
	if query.Limit > 0 && len(venues) > query.Limit {
		venues = venues[:query.Limit]
	}
	return venues, nil
}

// GetDetails fetches one place. NOT_FOUND comes back as a nil venue.
func (c *Client) GetDetails(ctx context.Context, venueID string) (*models.Venue, error) {
	q := url.Values{}
	q.Set("place_id", venueID)

	var response DetailsResponse
	if err := c.call(ctx, "/details/json", q, &response); err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("google details failed for %s: %w", venueID, err)
	}
	if err := statusError(response.Status, ""); err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("google details failed for %s: %w", venueID, err)
	}

	venue, err := MapPlace(response.Result)
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// GetVisitStats is not a Google Places capability.
func (c *Client) GetVisitStats(ctx context.Context, venueID string) (*models.VisitStats, error) {
	return nil, locations.ErrUnsupported
}

// HealthCheck issues a minimal details request and samples the latency.
func (c *Client) HealthCheck(ctx context.Context) (*locations.Health, error) {
	q := url.Values{}
	q.Set("location", "0.000000,0.000000")
	q.Set("radius", "1")
	q.Set("key", c.apiKey)

	start := time.Now()
	var response NearbySearchResponse
	err := c.Request(ctx, "GET", "/nearbysearch/json", nil, q, nil, &response)
	latency := time.Since(start)
	if err != nil {
		return &locations.Health{Status: "unavailable", Latency: latency}, err
	}
	return &locations.Health{Status: "ok", Latency: latency}, nil
}
