package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// healthStatus is the wire shape of a probe response.
type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler exposes liveness and readiness probes
type HealthHandler struct {
	*BaseHandler
	version string
	pool    *pgxpool.Pool // nil when running on the in-memory backend
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(base *BaseHandler, version string, pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     version,
		pool:        pool,
	}
}

// GetLiveness implements the liveness probe endpoint.
// If we can respond, we're alive.
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	h.WriteJSONResponse(w, r, healthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
	}, http.StatusOK)
}

// GetReadiness implements the readiness probe endpoint.
// Checks database connectivity when a pool is configured.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	response := healthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
	}
	httpStatus := http.StatusOK

	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response.Checks = map[string]string{}
		if err := h.pool.Ping(ctx); err != nil {
			response.Checks["database"] = "down"
			response.Status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		} else {
			response.Checks["database"] = "up"
		}
	}

	h.WriteJSONResponse(w, r, response, httpStatus)
}
