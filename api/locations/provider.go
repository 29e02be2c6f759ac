package locations

import (
	"context"
	"errors"
	"time"

	"li-server/models"
)

// ErrUnsupported is returned by capabilities a provider does not offer.
// It is an explicit signal, never a silent no-op.
var ErrUnsupported = errors.New("operation not supported by this provider")

// Health is the result of a provider health probe.
type Health struct {
	Status  string        `json:"status"`
	Latency time.Duration `json:"latency"`
}

// Provider defines the provider-agnostic query surface for location data.
// Exactly one implementation is selected at construction time per
// deployment; the orchestrator never branches on the concrete provider.
type Provider interface {
	// Name identifies the backing source (e.g. "foursquare", "google").
	Name() models.SourceProvider

	// FindNearby returns canonical venues around the query center.
	FindNearby(ctx context.Context, query models.SearchQuery) ([]models.Venue, error)

	// GetDetails returns a single venue, or nil (with no error) when the
	// provider reports the venue does not exist.
	GetDetails(ctx context.Context, venueID string) (*models.Venue, error)

	// GetVisitStats returns foot-traffic stats for a venue, or
	// ErrUnsupported for providers without that capability.
	GetVisitStats(ctx context.Context, venueID string) (*models.VisitStats, error)

	// HealthCheck probes the provider and samples the round-trip latency.
	HealthCheck(ctx context.Context) (*Health, error)
}

// EventsSource finds local events near a point. Kept separate from Provider
// because events come from a different upstream than venue data.
type EventsSource interface {
	FindEvents(ctx context.Context, center models.GeoPoint, radiusMeters int, window time.Duration) ([]models.Event, error)
}
