package handlers

import (
	"net/http"

	"li-server/api/locations"
	"li-server/db"
)

// healthResponse reports the server plus its two critical dependencies.
type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Cache    string `json:"cache"`
}

type HealthHandler struct {
	provider locations.Provider
	redis    db.RedisClient
}

func NewHealthHandler(provider locations.Provider, redis db.RedisClient) *HealthHandler {
	return &HealthHandler{provider: provider, redis: redis}
}

// GetHealth handles GET /health. A degraded dependency does not flip the
// overall status: the server keeps serving from cache or placeholders.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Provider: "ok", Cache: "ok"}

	if ph, err := h.provider.HealthCheck(r.Context()); err != nil {
		resp.Provider = "unreachable"
	} else if ph != nil && ph.Status != "ok" {
		resp.Provider = ph.Status
	}

	if err := h.redis.Ping(); err != nil {
		resp.Cache = "unreachable"
	}

	writeJSON(w, http.StatusOK, resp)
}
