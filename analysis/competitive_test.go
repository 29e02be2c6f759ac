package analysis

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"li-server/config"
	"li-server/models"
)

var origin = models.GeoPoint{Latitude: 13.7563, Longitude: 100.5018}

func testEngine() *CompetitiveEngine {
	return NewCompetitiveEngine(config.Default().Analysis)
}

func venueWith(id string, rating, popularity float64, price int) models.Venue {
	return models.Venue{
		ID:              id,
		Name:            "Venue " + id,
		Location:        models.GeoPoint{Latitude: 13.757, Longitude: 100.502},
		Rating:          &rating,
		PopularityScore: &popularity,
		PriceLevel:      &price,
		SourceProvider:  models.SourceFoursquare,
	}
}

func TestAnalyze_EmptyMarketIsFirstMover(t *testing.T) {
	result := testEngine().Analyze(nil, origin)

	assert.Equal(t, 0, result.TotalCompetitors)
	assert.Equal(t, 0.0, result.DensityPerKm2)
	assert.Equal(t, models.OpportunityHigh, result.OpportunityLevel)
	assert.Equal(t, FIRST_MOVER_SCORE, result.OverallScore)
	assert.Empty(t, result.TopCompetitors)
}

func TestAnalyze_AveragesIgnoreNulls(t *testing.T) {
	rating := 4.0
	venues := []models.Venue{
		{ID: "a", Name: "A", Location: origin, Rating: &rating, SourceProvider: models.SourceFoursquare},
		{ID: "b", Name: "B", Location: origin, SourceProvider: models.SourceFoursquare}, // no rating
	}

	result := testEngine().Analyze(venues, origin)

	assert.Equal(t, 4.0, result.AvgRating, "null ratings are excluded from the average")
	assert.Equal(t, 0.0, result.AvgPrice, "all-null field averages to 0")
}

func TestAnalyze_ScoreCapsAt100(t *testing.T) {
	// 200 strong venues push the weighted sum past 100; the score must cap,
	// not overflow.
	var venues []models.Venue
	for i := 0; i < 200; i++ {
		venues = append(venues, venueWith(strconv.Itoa(i), 5.0, 1.0, 1))
	}

	result := testEngine().Analyze(venues, origin)

	assert.Equal(t, 100, result.OverallScore)
	assert.Equal(t, models.OpportunityLow, result.OpportunityLevel)
}

func TestAnalyze_StrongButSparseDoesNotSaturate(t *testing.T) {
	// 20 excellent venues within the 2km analysis radius: quality, price and
	// popularity terms max out but the density term stays low, so the sum
	// falls short of 100.
	var venues []models.Venue
	for i := 0; i < 20; i++ {
		venues = append(venues, venueWith(strconv.Itoa(i), 5.0, 1.0, 1))
	}

	result := testEngine().Analyze(venues, origin)

	assert.Less(t, result.OverallScore, 100, "capping should only occur when the weighted sum exceeds 100")
	assert.Greater(t, result.OverallScore, 50)
}

func TestAnalyze_DensityUsesAnalysisRadius(t *testing.T) {
	venues := []models.Venue{venueWith("1", 4.0, 0.5, 2)}

	result := testEngine().Analyze(venues, origin)

	// 1 venue over π·(2km)² ≈ 0.0796/km²
	assert.InDelta(t, 0.0796, result.DensityPerKm2, 0.001)
	assert.Equal(t, models.OpportunityHigh, result.OpportunityLevel)
}

func TestAnalyze_OpportunityLevels(t *testing.T) {
	engine := testEngine()

	mkVenues := func(n int) []models.Venue {
		var venues []models.Venue
		for i := 0; i < n; i++ {
			venues = append(venues, venueWith(strconv.Itoa(i), 4.0, 0.5, 2))
		}
		return venues
	}

	// Analysis area is π·4 ≈ 12.57 km².
	low := engine.Analyze(mkVenues(10), origin) // ~0.8/km²
	assert.Equal(t, models.OpportunityHigh, low.OpportunityLevel)

	medium := engine.Analyze(mkVenues(40), origin) // ~3.2/km²
	assert.Equal(t, models.OpportunityMedium, medium.OpportunityLevel)

	high := engine.Analyze(mkVenues(80), origin) // ~6.4/km²
	assert.Equal(t, models.OpportunityLow, high.OpportunityLevel)
}

func TestAnalyze_TopCompetitorsAnnotated(t *testing.T) {
	chain := venueWith("chain", 4.8, 0.9, 2)
	chain.ChainAffiliation = []string{"Big Brand"}
	chain.Website = "https://bigbrand.example"

	weak := venueWith("weak", 3.0, 0.8, 1)
	// no website

	mid := venueWith("mid", 4.0, 0.5, 2)

	result := testEngine().Analyze([]models.Venue{mid, weak, chain}, origin)

	assert.Len(t, result.TopCompetitors, 3)
	// Sorted by popularity descending.
	assert.Equal(t, "chain", result.TopCompetitors[0].Venue.ID)
	assert.Contains(t, result.TopCompetitors[0].Strengths, "highly rated")
	assert.Contains(t, result.TopCompetitors[0].Strengths, "chain backing")

	assert.Equal(t, "weak", result.TopCompetitors[1].Venue.ID)
	assert.Contains(t, result.TopCompetitors[1].Weaknesses, "below-average rating")
	assert.Contains(t, result.TopCompetitors[1].Weaknesses, "no web presence")

	// Distance from the origin is filled in when the provider omitted it.
	assert.NotNil(t, result.TopCompetitors[0].Venue.DistanceMeters)
	assert.Greater(t, *result.TopCompetitors[0].Venue.DistanceMeters, 0.0)
}

func TestAnalyze_TopCompetitorsLimitedToFive(t *testing.T) {
	var venues []models.Venue
	for i := 0; i < 12; i++ {
		venues = append(venues, venueWith(strconv.Itoa(i), 4.0, float64(i)/12.0, 2))
	}

	result := testEngine().Analyze(venues, origin)

	assert.Len(t, result.TopCompetitors, 5)
}
