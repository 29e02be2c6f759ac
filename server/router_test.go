package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

// MockReportHandler is a mock implementation of the report routes.
type MockReportHandler struct{}

func (h *MockReportHandler) GetLocationReport(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "report"}`))
}

func (h *MockReportHandler) GetCompetitors(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "competitors"}`))
}

func (h *MockReportHandler) GetCompetitorMap(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("<html></html>"))
}

func (h *MockReportHandler) GetVenueDetails(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"id": "fsq-1"}`))
}

func (h *MockReportHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"removed": 0}`))
}

func (h *MockReportHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"hits": 0}`))
}

func (h *MockReportHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "pong"}`))
}

// MockHealthHandler is a mock implementation of the health route.
type MockHealthHandler struct{}

func (h *MockHealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

func TestRouter_RegisterRoutes(t *testing.T) {
	// Setup
	muxRouter := mux.NewRouter()
	appRouter := NewRouter(&MockReportHandler{}, &MockHealthHandler{}, muxRouter)
	appRouter.RegisterRoutes()

	// Test Cases
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"report route", "GET", "/v1/locations/report", http.StatusOK},
		{"competitors route", "GET", "/v1/locations/competitors", http.StatusOK},
		{"competitor map route", "GET", "/v1/locations/competitors/map", http.StatusOK},
		{"venue details route", "GET", "/v1/venues/fsq-1", http.StatusOK},
		{"cache invalidate route", "POST", "/v1/cache/invalidate", http.StatusOK},
		{"cache stats route", "GET", "/v1/cache/stats", http.StatusOK},
		{"health route", "GET", "/health", http.StatusOK},
		{"ping route", "GET", "/ping", http.StatusOK},
		{"wrong method rejected", "POST", "/v1/locations/report", http.StatusMethodNotAllowed},
		{"unknown route", "GET", "/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			muxRouter.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s: got status %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}
