package adminserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthChecker probes whether the process's dependency on an external
// MCP session is still usable. mcpgo.Adapter implements this.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// HealthcheckRouter mounts a liveness/readiness check against checker.
func HealthcheckRouter(checker HealthChecker) http.Handler {
	routes := &healthcheckRoutes{checker: checker}
	r := chi.NewRouter()
	r.Get("/", routes.getHealthcheck)
	return r
}

type healthcheckRoutes struct {
	checker HealthChecker
}

// getHealthcheck reports 204 when the configured MCP session still
// responds, 503 otherwise.
func (h *healthcheckRoutes) getHealthcheck(w http.ResponseWriter, r *http.Request) {
	if h.checker == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.checker.Healthy(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
