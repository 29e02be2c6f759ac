package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"li-server/cache"
	"li-server/models"
	services "li-server/service"
)

// mockReportService returns canned results per call.
type mockReportService struct {
	report     *models.LocationReport
	reportErr  error
	comp       *models.CompetitorAnalysisResult
	compErr    error
	venue      *models.Venue
	lastOpts   services.ReportOptions
	lastID     string
	lastCenter models.GeoPoint
	lastRadius int
	removed    int
}

func (m *mockReportService) GenerateReport(ctx context.Context, restaurantID string, opts services.ReportOptions) (*models.LocationReport, error) {
	m.lastID = restaurantID
	m.lastOpts = opts
	return m.report, m.reportErr
}

func (m *mockReportService) AnalyzeCompetitors(ctx context.Context, center models.GeoPoint, radiusMeters int, forceRefresh bool) (*models.CompetitorAnalysisResult, error) {
	m.lastCenter = center
	m.lastRadius = radiusMeters
	return m.comp, m.compErr
}

func (m *mockReportService) GetVenueDetails(ctx context.Context, venueID string) (*models.Venue, error) {
	m.lastID = venueID
	return m.venue, nil
}

func (m *mockReportService) InvalidateArea(center models.GeoPoint, radiusMeters int) (bool, int) {
	m.lastCenter = center
	m.lastRadius = radiusMeters
	return true, m.removed
}

func (m *mockReportService) CacheStats() cache.Stats {
	return cache.Stats{Hits: 3, Misses: 1, HitRate: 0.75}
}

func TestGetLocationReport_Success(t *testing.T) {
	// Arrange
	mock := &mockReportService{report: &models.LocationReport{RestaurantID: "rest-1", LocationScore: 64}}
	handler := NewReportHandler(mock)
	req := httptest.NewRequest("GET", "/v1/locations/report?restaurant_id=rest-1&radius=1500&include_events=true", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.GetLocationReport(rec, req)

	// Assert
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "rest-1", mock.lastID)
	assert.Equal(t, 1500, mock.lastOpts.RadiusMeters)
	assert.True(t, mock.lastOpts.IncludeEvents)
	assert.False(t, mock.lastOpts.ForceRefresh)

	var body models.LocationReport
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 64, body.LocationScore)
}

func TestGetLocationReport_MissingID(t *testing.T) {
	handler := NewReportHandler(&mockReportService{})
	req := httptest.NewRequest("GET", "/v1/locations/report", nil)
	rec := httptest.NewRecorder()

	handler.GetLocationReport(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestGetLocationReport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", services.ErrRestaurantNotFound, 404},
		{"invalid request", services.ErrInvalidRequest, 400},
		{"internal", errors.New("redis on fire"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewReportHandler(&mockReportService{reportErr: tt.err})
			req := httptest.NewRequest("GET", "/v1/locations/report?restaurant_id=x", nil)
			rec := httptest.NewRecorder()

			handler.GetLocationReport(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetCompetitors_ParsesCoordinates(t *testing.T) {
	// Arrange
	mock := &mockReportService{comp: &models.CompetitorAnalysisResult{TotalCompetitors: 7}}
	handler := NewReportHandler(mock)
	req := httptest.NewRequest("GET", "/v1/locations/competitors?lat=13.7563&lon=100.5018&radius=2000", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.GetCompetitors(rec, req)

	// Assert
	assert.Equal(t, 200, rec.Code)
	assert.InDelta(t, 13.7563, mock.lastCenter.Latitude, 1e-9)
	assert.InDelta(t, 100.5018, mock.lastCenter.Longitude, 1e-9)
	assert.Equal(t, 2000, mock.lastRadius)
}

func TestGetCompetitors_InvalidLat(t *testing.T) {
	handler := NewReportHandler(&mockReportService{})
	req := httptest.NewRequest("GET", "/v1/locations/competitors?lat=abc&lon=100.5", nil)
	rec := httptest.NewRecorder()

	handler.GetCompetitors(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestGetVenueDetails(t *testing.T) {
	// Arrange: mux.Vars requires routing through a real router.
	mock := &mockReportService{venue: &models.Venue{ID: "fsq-1", Name: "Som Tam Paradise"}}
	handler := NewReportHandler(mock)
	router := mux.NewRouter()
	router.HandleFunc("/v1/venues/{id}", handler.GetVenueDetails).Methods("GET")
	req := httptest.NewRequest("GET", "/v1/venues/fsq-1", nil)
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "fsq-1", mock.lastID)
	var venue models.Venue
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &venue))
	assert.Equal(t, "Som Tam Paradise", venue.Name)
}

func TestGetVenueDetails_NotFound(t *testing.T) {
	handler := NewReportHandler(&mockReportService{})
	router := mux.NewRouter()
	router.HandleFunc("/v1/venues/{id}", handler.GetVenueDetails).Methods("GET")
	req := httptest.NewRequest("GET", "/v1/venues/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, 404, rec.Code)
}

func TestInvalidateCache(t *testing.T) {
	// Arrange
	mock := &mockReportService{removed: 4}
	handler := NewReportHandler(mock)
	body := bytes.NewBufferString(`{"latitude": 13.7563, "longitude": 100.5018, "radius_meters": 2000}`)
	req := httptest.NewRequest("POST", "/v1/cache/invalidate", body)
	rec := httptest.NewRecorder()

	// Act
	handler.InvalidateCache(rec, req)

	// Assert
	assert.Equal(t, 200, rec.Code)
	var resp invalidateResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Complete)
	assert.Equal(t, 4, resp.Removed)
}

func TestInvalidateCache_BadBody(t *testing.T) {
	handler := NewReportHandler(&mockReportService{})
	req := httptest.NewRequest("POST", "/v1/cache/invalidate", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()

	handler.InvalidateCache(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestInvalidateCache_OutOfRangeCoordinates(t *testing.T) {
	handler := NewReportHandler(&mockReportService{})
	body := bytes.NewBufferString(`{"latitude": 91.0, "longitude": 0, "radius_meters": 100}`)
	req := httptest.NewRequest("POST", "/v1/cache/invalidate", body)
	rec := httptest.NewRecorder()

	handler.InvalidateCache(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestGetCacheStats(t *testing.T) {
	handler := NewReportHandler(&mockReportService{})
	req := httptest.NewRequest("GET", "/v1/cache/stats", nil)
	rec := httptest.NewRecorder()

	handler.GetCacheStats(rec, req)

	assert.Equal(t, 200, rec.Code)
	var stats cache.Stats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.Hits)
}
