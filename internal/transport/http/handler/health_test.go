package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/newsletter/internal/health"
	"github.com/ErlanBelekov/newsletter/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

type fakeChecker struct {
	result health.HealthResult
}

func (f *fakeChecker) Readiness(_ context.Context) health.HealthResult { return f.result }

func newHealthEngine(c *fakeChecker) *gin.Engine {
	h := handler.NewHealthHandler(c)
	r := gin.New()
	r.GET("/health_check", h.HealthCheck)
	r.GET("/readyz", h.Ready)
	return r
}

func TestHealthCheck_Returns200WithEmptyBody(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health_check", nil)
	newHealthEngine(&fakeChecker{}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestReady_Down_Returns503(t *testing.T) {
	c := &fakeChecker{result: health.HealthResult{
		Status: "down",
		Checks: map[string]health.CheckResult{"postgres": {Status: "down", Error: "refused"}},
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	newHealthEngine(c).ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestReady_Up_Returns200(t *testing.T) {
	c := &fakeChecker{result: health.HealthResult{Status: "up"}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	newHealthEngine(c).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
