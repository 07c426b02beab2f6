package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for db or cache if they are not yet initialized.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint. It returns 200 if the server
// is running, without touching any dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint. It pings every dependency and
// returns 200 only if all of them respond.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["postgres"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		checks["postgres"] = "not configured"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{Status: status, Checks: checks})
}
