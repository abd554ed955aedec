// Package adminserver exposes the small HTTP surface an embedding
// process runs alongside a Loop: a liveness/readiness check and a
// Prometheus scrape endpoint. It is not part of the MCP-UI protocol
// core itself.
package adminserver

import (
	"net/http"

	"github.com/stacklok/mcpui/pkg/logger"
	"github.com/stacklok/mcpui/pkg/mcpuierrors"
)

// HandlerWithError is an HTTP handler that can return an error, letting
// handlers return errors instead of manually writing error responses.
type HandlerWithError func(http.ResponseWriter, *http.Request) error

// ErrorHandler wraps a HandlerWithError and converts returned errors
// into HTTP responses via mcpuierrors.Code.
//
//   - Returns early if no error is returned (handler already wrote the response)
//   - For 5xx errors: logs full error details, returns a generic message to the client
//   - For 4xx errors: returns the error message to the client
func ErrorHandler(fn HandlerWithError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		code := mcpuierrors.Code(err)
		if code >= http.StatusInternalServerError {
			logger.Errorf("adminserver: internal error: %v", err)
			http.Error(w, http.StatusText(code), code)
			return
		}
		http.Error(w, err.Error(), code)
	}
}
