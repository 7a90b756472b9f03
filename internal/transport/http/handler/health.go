package handler

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/newsletter/internal/health"
	"github.com/gin-gonic/gin"
)

type readinessChecker interface {
	Readiness(ctx context.Context) health.HealthResult
}

type HealthHandler struct {
	checker readinessChecker
}

func NewHealthHandler(checker readinessChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// GET /health_check answers 200 with an empty body while the process serves.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	result := h.checker.Readiness(c.Request.Context())
	if result.Status != "up" {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
