package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ReportRoutes is the handler surface the router wires up.
type ReportRoutes interface {
	GetLocationReport(w http.ResponseWriter, r *http.Request)
	GetCompetitors(w http.ResponseWriter, r *http.Request)
	GetCompetitorMap(w http.ResponseWriter, r *http.Request)
	GetVenueDetails(w http.ResponseWriter, r *http.Request)
	InvalidateCache(w http.ResponseWriter, r *http.Request)
	GetCacheStats(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

// HealthRoutes exposes the dependency health probe.
type HealthRoutes interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	reportHandler ReportRoutes
	healthHandler HealthRoutes
	router        *mux.Router
}

// NewRouter creates a router with the app's routes.
func NewRouter(
	reportHandler ReportRoutes,
	healthHandler HealthRoutes,
	router *mux.Router) *Router {
	return &Router{
		reportHandler: reportHandler,
		healthHandler: healthHandler,
		router:        router,
	}
}

func (r *Router) RegisterRoutes() {
	// expects ?restaurant_id={id}&radius={meters}&force_refresh={bool}&include_events={bool}
	r.router.HandleFunc("/v1/locations/report", r.reportHandler.GetLocationReport).Methods("GET")

	// expects ?lat={latitude(float)}&lon={longitude(float)}&radius={meters}
	r.router.HandleFunc("/v1/locations/competitors", r.reportHandler.GetCompetitors).Methods("GET")
	r.router.HandleFunc("/v1/locations/competitors/map", r.reportHandler.GetCompetitorMap).Methods("GET")

	r.router.HandleFunc("/v1/venues/{id}", r.reportHandler.GetVenueDetails).Methods("GET")

	r.router.HandleFunc("/v1/cache/invalidate", r.reportHandler.InvalidateCache).Methods("POST")
	r.router.HandleFunc("/v1/cache/stats", r.reportHandler.GetCacheStats).Methods("GET")

	r.router.HandleFunc("/health", r.healthHandler.GetHealth).Methods("GET")
	r.router.HandleFunc("/ping", r.reportHandler.Ping).Methods("GET")
}
