// Package analysis holds the pure scoring engines. Nothing here touches the
// network or the cache; every function is a deterministic transform over
// already-fetched data.
package analysis

import (
	"math"
	"sort"
	"time"

	"li-server/config"
	"li-server/models"
)

// Annotation rules for top competitors.
const (
	STRENGTH_RATING_MIN  = 4.5
	WEAKNESS_RATING_MAX  = 3.5
	TOP_COMPETITOR_COUNT = 5
)

// First-mover defaults for an empty market.
const (
	FIRST_MOVER_SCORE = 85
)

// CompetitiveEngine scores the competitive landscape around a point. All
// thresholds come from configuration so they can be calibrated per market.
type CompetitiveEngine struct {
	cfg config.AnalysisConfig
}

func NewCompetitiveEngine(cfg config.AnalysisConfig) *CompetitiveEngine {
	return &CompetitiveEngine{cfg: cfg}
}

// Analyze turns a venue list into density/quality/opportunity scores.
func (e *CompetitiveEngine) Analyze(venues []models.Venue, origin models.GeoPoint) models.CompetitorAnalysisResult {
	now := time.Now()

	if len(venues) == 0 {
		// First-mover market: nothing to compete with.
		return models.CompetitorAnalysisResult{
			TotalCompetitors: 0,
			DensityPerKm2:    0,
			OpportunityLevel: models.OpportunityHigh,
			OverallScore:     FIRST_MOVER_SCORE,
			GeneratedAt:      now,
		}
	}

	avgRating := averageOf(venues, func(v models.Venue) *float64 { return v.Rating })
	avgPrice := averageOf(venues, func(v models.Venue) *float64 {
		if v.PriceLevel == nil {
			return nil
		}
		price := float64(*v.PriceLevel)
		return &price
	})
	// Popularity is canonical [0,1]; scoring thresholds are on a 0-100 scale.
	avgPopularity := averageOf(venues, func(v models.Venue) *float64 { return v.PopularityScore }) * 100

	// Density uses the fixed analysis radius, not the search radius.
	area := math.Pi * e.cfg.RadiusKm * e.cfg.RadiusKm
	density := float64(len(venues)) / area

	overall := math.Round(e.densityScore(density) +
		e.qualityScore(avgRating) +
		e.priceScore(avgPrice) +
		e.popularityScore(avgPopularity))
	if overall > 100 {
		overall = 100
	}

	return models.CompetitorAnalysisResult{
		TotalCompetitors: len(venues),
		DensityPerKm2:    density,
		AvgRating:        avgRating,
		AvgPrice:         avgPrice,
		TopCompetitors:   e.topCompetitors(venues, origin),
		OpportunityLevel: e.opportunityLevel(density),
		OverallScore:     int(overall),
		GeneratedAt:      now,
	}
}

// averageOf averages the venues that report the field, ignoring nulls.
// If every venue omits it, the average is 0.
func averageOf(venues []models.Venue, field func(models.Venue) *float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range venues {
		if val := field(v); val != nil {
			sum += *val
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// densityScore scales linearly with competitor density and caps at the
// configured maximum. The multiplier puts the medium/low density boundary
// near the cap.
func (e *CompetitiveEngine) densityScore(density float64) float64 {
	score := density * (e.cfg.DensityScoreCap / e.cfg.DensityMediumMax)
	return math.Min(score, e.cfg.DensityScoreCap)
}

func (e *CompetitiveEngine) qualityScore(avgRating float64) float64 {
	switch {
	case avgRating >= e.cfg.RatingHighMin:
		return 30
	case avgRating >= e.cfg.RatingMidMin:
		return 20
	default:
		return 10
	}
}

func (e *CompetitiveEngine) priceScore(avgPrice float64) float64 {
	switch {
	case avgPrice <= e.cfg.PriceLowMax:
		return 20
	case avgPrice <= e.cfg.PriceMidMax:
		return 15
	default:
		return 10
	}
}

func (e *CompetitiveEngine) popularityScore(avgPopularity float64) float64 {
	switch {
	case avgPopularity >= e.cfg.PopularityHighMin:
		return 10
	case avgPopularity >= e.cfg.PopularityMidMin:
		return 7
	default:
		return 5
	}
}

func (e *CompetitiveEngine) opportunityLevel(density float64) models.OpportunityLevel {
	switch {
	case density < e.cfg.DensityHighMax:
		return models.OpportunityHigh
	case density < e.cfg.DensityMediumMax:
		return models.OpportunityMedium
	default:
		return models.OpportunityLow
	}
}

// topCompetitors picks the strongest venues by popularity and annotates
// them with rule-based strengths and weaknesses.
func (e *CompetitiveEngine) topCompetitors(venues []models.Venue, origin models.GeoPoint) []models.TopCompetitor {
	sorted := make([]models.Venue, len(venues))
	copy(sorted, venues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return popularityOrZero(sorted[i]) > popularityOrZero(sorted[j])
	})

	limit := TOP_COMPETITOR_COUNT
	if len(sorted) < limit {
		limit = len(sorted)
	}

	top := make([]models.TopCompetitor, 0, limit)
	for _, v := range sorted[:limit] {
		if v.DistanceMeters == nil {
			d := origin.DistanceMeters(v.Location)
			v.DistanceMeters = &d
		}
		top = append(top, models.TopCompetitor{
			Venue:      v,
			Strengths:  strengthsOf(v),
			Weaknesses: weaknessesOf(v),
		})
	}
	return top
}

func popularityOrZero(v models.Venue) float64 {
	if v.PopularityScore == nil {
		return 0
	}
	return *v.PopularityScore
}

func strengthsOf(v models.Venue) []string {
	var strengths []string
	if v.Rating != nil && *v.Rating >= STRENGTH_RATING_MIN {
		strengths = append(strengths, "highly rated")
	}
	if len(v.ChainAffiliation) > 0 {
		strengths = append(strengths, "chain backing")
	}
	return strengths
}

func weaknessesOf(v models.Venue) []string {
	var weaknesses []string
	if v.Rating != nil && *v.Rating < WEAKNESS_RATING_MAX {
		weaknesses = append(weaknesses, "below-average rating")
	}
	if v.Website == "" {
		weaknesses = append(weaknesses, "no web presence")
	}
	return weaknesses
}
