package adminserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stacklok/mcpui/pkg/adminserver"
)

type fakeChecker struct{ err error }

func (f fakeChecker) Healthy(context.Context) error { return f.err }

func TestHealthcheckRouter_Healthy(t *testing.T) {
	r := adminserver.HealthcheckRouter(fakeChecker{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("code = %d, want 204", rec.Code)
	}
}

func TestHealthcheckRouter_Unhealthy(t *testing.T) {
	r := adminserver.HealthcheckRouter(fakeChecker{err: errors.New("mcp session down")})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
}

func TestHealthcheckRouter_NilCheckerIsHealthy(t *testing.T) {
	r := adminserver.HealthcheckRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("code = %d, want 204", rec.Code)
	}
}
