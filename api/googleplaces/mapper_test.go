package googleplaces

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"li-server/models"
)

func wellFormedPlace() PlaceResult {
	rating := 4.6
	ratingsTotal := 1200
	price := 3
	vicinity := "Thong Lo, Bangkok"
	website := "https://place.example"
	status := "OPERATIONAL"
	return PlaceResult{
		PlaceID:          "gp-xyz",
		Name:             "Thong Lo Bistro",
		Geometry:         Geometry{Location: Location{Lat: 13.73, Lng: 100.58}},
		Vicinity:         &vicinity,
		Types:            []string{"restaurant", "point_of_interest", "establishment"},
		Rating:           &rating,
		UserRatingsTotal: &ratingsTotal,
		PriceLevel:       &price,
		Website:          &website,
		BusinessStatus:   &status,
	}
}

func TestMapPlace_WellFormed(t *testing.T) {
	venue, err := MapPlace(wellFormedPlace())

	assert.NoError(t, err)
	assert.Equal(t, "gp-xyz", venue.ID)
	assert.Equal(t, "Thong Lo Bistro", venue.Name)
	assert.Equal(t, models.SourceGoogle, venue.SourceProvider)
	assert.Equal(t, "Thong Lo, Bangkok", venue.Address)
	assert.True(t, venue.Verified)
	// Meaningless umbrella types are dropped.
	assert.Len(t, venue.Categories, 1)
	assert.Equal(t, "restaurant", venue.Categories[0].Name)
	// Google never reports chains.
	assert.Empty(t, venue.ChainAffiliation)
}

func TestMapPlace_PopularityNormalization(t *testing.T) {
	cases := []struct {
		ratingsTotal int
		wantMin      float64
		wantMax      float64
	}{
		{0, 0, 0},
		{10, 0.2, 0.3},
		{1000, 0.7, 0.8},
		{10000, 1.0, 1.0},
		{500000, 1.0, 1.0}, // saturates, never exceeds 1
	}

	for _, tc := range cases {
		got := normalizePopularity(tc.ratingsTotal)
		assert.GreaterOrEqual(t, got, tc.wantMin, "ratings_total=%d", tc.ratingsTotal)
		assert.LessOrEqual(t, got, tc.wantMax, "ratings_total=%d", tc.ratingsTotal)
	}
}

func TestMapPlace_MissingOptionalFieldsDoesNotFail(t *testing.T) {
	raw := PlaceResult{
		PlaceID:  "gp-min",
		Name:     "Bare Place",
		Geometry: Geometry{Location: Location{Lat: 1, Lng: 2}},
	}

	venue, err := MapPlace(raw)

	assert.NoError(t, err)
	assert.Nil(t, venue.Rating)
	assert.Nil(t, venue.PopularityScore)
	assert.Nil(t, venue.PriceLevel)
	assert.Empty(t, venue.Address)
}

func TestMapPlace_MissingRequiredFields(t *testing.T) {
	_, err := MapPlace(PlaceResult{Name: "no id", Geometry: Geometry{Location: Location{Lat: 1, Lng: 1}}})
	assert.Error(t, err)

	_, err = MapPlace(PlaceResult{PlaceID: "id", Geometry: Geometry{Location: Location{Lat: 1, Lng: 1}}})
	assert.Error(t, err)

	_, err = MapPlace(PlaceResult{PlaceID: "id", Name: "x"})
	assert.Error(t, err)
}
