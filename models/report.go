package models

import "time"

// OpportunityLevel grades how much room a market leaves for a newcomer.
type OpportunityLevel string

const (
	OpportunityHigh   OpportunityLevel = "high"
	OpportunityMedium OpportunityLevel = "medium"
	OpportunityLow    OpportunityLevel = "low"
)

// TopCompetitor is one of the strongest nearby venues, annotated with
// rule-derived strengths and weaknesses.
type TopCompetitor struct {
	Venue      Venue    `json:"venue"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// CompetitorAnalysisResult is the derived competitive picture around a point.
// Recomputed or cached with a TTL, never a source of truth.
type CompetitorAnalysisResult struct {
	TotalCompetitors int              `json:"total_competitors"`
	DensityPerKm2    float64          `json:"density_per_km2"`
	AvgRating        float64          `json:"avg_rating"`
	AvgPrice         float64          `json:"avg_price"`
	TopCompetitors   []TopCompetitor  `json:"top_competitors,omitempty"`
	OpportunityLevel OpportunityLevel `json:"opportunity_level"`
	OverallScore     int              `json:"overall_score"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// TrafficAnalysis estimates foot traffic around a point. Source records
// whether the numbers came from provider visit stats or a popularity proxy.
type TrafficAnalysis struct {
	TrafficScore        int       `json:"traffic_score"`
	EstimatedDailyFoot  int       `json:"estimated_daily_foot"`
	PeakHours           []int     `json:"peak_hours,omitempty"`
	Source              string    `json:"source"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// SectionStatus marks a report section that could not be produced. A report
// is still returned with the remaining sections intact.
type SectionStatus struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// LocationReport is the aggregated intelligence report for one restaurant
// location. Owned by the orchestrator; cached and durably stored on
// generation.
type LocationReport struct {
	RestaurantID       string                    `json:"restaurant_id"`
	Location           GeoPoint                  `json:"location"`
	LocationScore      int                       `json:"location_score"`
	CompetitorAnalysis *CompetitorAnalysisResult `json:"competitor_analysis,omitempty"`
	CompetitorStatus   SectionStatus             `json:"competitor_status"`
	TrafficAnalysis    *TrafficAnalysis          `json:"traffic_analysis,omitempty"`
	TrafficStatus      SectionStatus             `json:"traffic_status"`
	Events             []Event                   `json:"events,omitempty"`
	EventsStatus       SectionStatus             `json:"events_status"`
	Recommendations    []string                  `json:"recommendations,omitempty"`
	GeneratedAt        time.Time                 `json:"generated_at"`
	CacheExpiresAt     time.Time                 `json:"cache_expires_at"`
}

// Restaurant is the subject of a report, resolved from durable storage.
type Restaurant struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	Location GeoPoint `json:"location"`
}
