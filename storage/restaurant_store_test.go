package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"li-server/models"
)

func testStore(t *testing.T) *RestaurantStore {
	t.Helper()
	store, err := NewRestaurantStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRestaurantStore_UpsertAndGet(t *testing.T) {
	store := testStore(t)

	r := models.Restaurant{
		ID:       "rest-1",
		Name:     "Som Tam House",
		Address:  "123 Sukhumvit Rd",
		Location: models.GeoPoint{Latitude: 13.7563, Longitude: 100.5018},
	}
	require.NoError(t, store.UpsertRestaurant(r))

	loaded, err := store.GetRestaurantByID("rest-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, r.Name, loaded.Name)
	assert.Equal(t, r.Location, loaded.Location)

	// Upsert overwrites rather than duplicating.
	r.Name = "Som Tam House II"
	require.NoError(t, store.UpsertRestaurant(r))
	count, err := store.CountRestaurants()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRestaurantStore_UnknownRestaurantIsNil(t *testing.T) {
	store := testStore(t)

	loaded, err := store.GetRestaurantByID("nope")

	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRestaurantStore_StoreAndLoadReports(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.UpsertRestaurant(models.Restaurant{
		ID:       "rest-1",
		Name:     "Test",
		Location: models.GeoPoint{Latitude: 1, Longitude: 2},
	}))

	older := &models.LocationReport{
		RestaurantID:  "rest-1",
		LocationScore: 60,
		GeneratedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &models.LocationReport{
		RestaurantID:  "rest-1",
		LocationScore: 72,
		GeneratedAt:   time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.StoreReport(older))
	require.NoError(t, store.StoreReport(newer))

	reports, err := store.RecentReports("rest-1", 10)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, 72, reports[0].LocationScore, "newest report comes first")
	assert.Equal(t, 60, reports[1].LocationScore)
}
