package analysis

import (
	"fmt"

	"li-server/models"
)

// Recommendation thresholds over the sub-analyses.
const (
	HIGH_TRAFFIC_SCORE_MIN = 70
	LOW_TRAFFIC_SCORE_MAX  = 40
	QUALITY_GAP_RATING_MAX = 3.5
)

// BuildRecommendations derives a recommendation list from threshold rules
// over the report sections. Sections that failed to generate are skipped
// rather than guessed about.
func BuildRecommendations(comp *models.CompetitorAnalysisResult, traffic *models.TrafficAnalysis, events []models.Event) []string {
	var recs []string

	if comp != nil {
		switch {
		case comp.TotalCompetitors == 0:
			recs = append(recs, "No direct competitors in the area: a market leadership position is available to an early entrant.")
		case comp.OpportunityLevel == models.OpportunityHigh:
			recs = append(recs, "Competitive density is low; the area has room for a new entrant.")
		case comp.OpportunityLevel == models.OpportunityLow:
			recs = append(recs, "The market is saturated; differentiation on cuisine, price point, or experience is essential.")
		}

		if comp.TotalCompetitors > 0 && comp.AvgRating > 0 && comp.AvgRating < QUALITY_GAP_RATING_MAX {
			recs = append(recs, fmt.Sprintf("Competitors average %.1f stars; consistent quality alone can win share here.", comp.AvgRating))
		}
	}

	if traffic != nil {
		switch {
		case traffic.TrafficScore >= HIGH_TRAFFIC_SCORE_MIN:
			recs = append(recs, "Foot traffic is strong; walk-in focused formats and extended hours are viable.")
		case traffic.TrafficScore <= LOW_TRAFFIC_SCORE_MAX:
			recs = append(recs, "Foot traffic is weak; plan for delivery and destination-dining demand rather than walk-ins.")
		}
	}

	if len(events) > 0 {
		recs = append(recs, fmt.Sprintf("%d local events upcoming nearby; event-aligned promotions can capture surge demand.", len(events)))
	}

	return recs
}
