package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"li-server/cache"
	"li-server/models"
	services "li-server/service"
	"li-server/util"
)

const (
	RESTAURANT_ID_QUERY_ARG  = "restaurant_id"
	LAT_QUERY_ARG            = "lat"
	LON_QUERY_ARG            = "lon"
	RADIUS_QUERY_ARG         = "radius"
	FORCE_REFRESH_QUERY_ARG  = "force_refresh"
	INCLUDE_EVENTS_QUERY_ARG = "include_events"
)

// ReportService is the orchestrator surface the handlers depend on.
type ReportService interface {
	GenerateReport(ctx context.Context, restaurantID string, opts services.ReportOptions) (*models.LocationReport, error)
	AnalyzeCompetitors(ctx context.Context, center models.GeoPoint, radiusMeters int, forceRefresh bool) (*models.CompetitorAnalysisResult, error)
	GetVenueDetails(ctx context.Context, venueID string) (*models.Venue, error)
	InvalidateArea(center models.GeoPoint, radiusMeters int) (bool, int)
	CacheStats() cache.Stats
}

type ReportHandler struct {
	service ReportService
}

func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetLocationReport handles GET /v1/locations/report.
func (h *ReportHandler) GetLocationReport(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()

	restaurantID := vals.Get(RESTAURANT_ID_QUERY_ARG)
	if restaurantID == "" {
		http.Error(w, "Missing argument "+RESTAURANT_ID_QUERY_ARG, http.StatusBadRequest)
		return
	}

	opts := services.ReportOptions{
		RadiusMeters:  parseArgInt(vals, RADIUS_QUERY_ARG, 0),
		ForceRefresh:  parseArgBool(vals, FORCE_REFRESH_QUERY_ARG),
		IncludeEvents: parseArgBool(vals, INCLUDE_EVENTS_QUERY_ARG),
	}

	report, err := h.service.GenerateReport(r.Context(), restaurantID, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetCompetitors handles GET /v1/locations/competitors.
func (h *ReportHandler) GetCompetitors(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()

	center, ok := parseCenter(vals, w)
	if !ok {
		return // error already written
	}
	radius := parseArgInt(vals, RADIUS_QUERY_ARG, 0)
	force := parseArgBool(vals, FORCE_REFRESH_QUERY_ARG)

	result, err := h.service.AnalyzeCompetitors(r.Context(), center, radius, force)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetVenueDetails handles GET /v1/venues/{id}.
func (h *ReportHandler) GetVenueDetails(w http.ResponseWriter, r *http.Request) {
	venueID := mux.Vars(r)["id"]

	venue, err := h.service.GetVenueDetails(r.Context(), venueID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if venue == nil {
		http.Error(w, "Venue not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, venue)
}

// GetCompetitorMap handles GET /v1/locations/competitors/map, serving an
// HTML scatter map of the analyzed area.
func (h *ReportHandler) GetCompetitorMap(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()

	center, ok := parseCenter(vals, w)
	if !ok {
		return
	}
	radius := parseArgInt(vals, RADIUS_QUERY_ARG, 0)

	result, err := h.service.AnalyzeCompetitors(r.Context(), center, radius, false)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := util.PlotCompetitorMap(center, result, w); err != nil {
		log.Println("[ReportHandler] Error rendering competitor map:", err)
	}
}

// invalidateRequest is the POST /v1/cache/invalidate body.
type invalidateRequest struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
}

type invalidateResponse struct {
	Complete bool `json:"complete"`
	Removed  int  `json:"removed"`
}

// InvalidateCache handles POST /v1/cache/invalidate.
func (h *ReportHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	center := models.GeoPoint{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := center.Validate(); err != nil {
		http.Error(w, "Invalid coordinates", http.StatusBadRequest)
		return
	}

	complete, removed := h.service.InvalidateArea(center, req.RadiusMeters)
	log.Printf("[ReportHandler] Cache invalidation around %s removed %d entries (complete=%t)",
		center.ToString(), removed, complete)

	writeJSON(w, http.StatusOK, invalidateResponse{Complete: complete, Removed: removed})
}

// GetCacheStats handles GET /v1/cache/stats.
func (h *ReportHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CacheStats())
}

// Ping handles GET /ping.
func (h *ReportHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

func parseCenter(vals url.Values, w http.ResponseWriter) (models.GeoPoint, bool) {
	lat, err := strconv.ParseFloat(vals.Get(LAT_QUERY_ARG), 64)
	if err != nil {
		http.Error(w, "Invalid argument "+LAT_QUERY_ARG, http.StatusBadRequest)
		return models.GeoPoint{}, false
	}
	lon, err := strconv.ParseFloat(vals.Get(LON_QUERY_ARG), 64)
	if err != nil {
		http.Error(w, "Invalid argument "+LON_QUERY_ARG, http.StatusBadRequest)
		return models.GeoPoint{}, false
	}
	return models.GeoPoint{Latitude: lat, Longitude: lon}, true
}

func parseArgInt(vals url.Values, name string, fallback int) int {
	s := vals.Get(name)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseArgBool(vals url.Values, name string) bool {
	v, _ := strconv.ParseBool(vals.Get(name))
	return v
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrRestaurantNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Println("[ReportHandler] Internal error:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("[ReportHandler] Error encoding response:", err)
	}
}
