package analysis

import (
	"time"

	"li-server/models"
)

// Traffic analysis sources.
const (
	TRAFFIC_SOURCE_PROVIDER = "provider_stats"
	TRAFFIC_SOURCE_PROXY    = "popularity_proxy"
)

// Rough count of daily visits implied by one traffic-score point when only
// the popularity proxy is available.
const PROXY_VISITS_PER_POINT = 12

// TrafficFromVisitStats builds a traffic analysis from provider foot-traffic
// stats, the preferred source when the active provider supports it.
func TrafficFromVisitStats(stats *models.VisitStats) *models.TrafficAnalysis {
	score := stats.BusynessPercent
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return &models.TrafficAnalysis{
		TrafficScore:       score,
		EstimatedDailyFoot: stats.VisitsDaily,
		PeakHours:          stats.PeakHours,
		Source:             TRAFFIC_SOURCE_PROVIDER,
		GeneratedAt:        time.Now(),
	}
}

// TrafficFromVenuePopularity estimates foot traffic from the popularity of
// surrounding venues when the provider has no visit-stats capability. Busy
// venues nearby imply people walking past.
func TrafficFromVenuePopularity(venues []models.Venue) *models.TrafficAnalysis {
	avgPopularity := averageOf(venues, func(v models.Venue) *float64 { return v.PopularityScore })
	score := int(avgPopularity * 100)
	if score > 100 {
		score = 100
	}

	return &models.TrafficAnalysis{
		TrafficScore:       score,
		EstimatedDailyFoot: score * PROXY_VISITS_PER_POINT,
		Source:             TRAFFIC_SOURCE_PROXY,
		GeneratedAt:        time.Now(),
	}
}
