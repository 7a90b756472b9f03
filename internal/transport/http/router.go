package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/newsletter/internal/transport/http/handler"
	"github.com/ErlanBelekov/newsletter/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, subscriptionHandler *handler.SubscriptionHandler, healthHandler *handler.HealthHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		// Confirm URLs carry the token in their query string; the usecase
		// logs confirmations without it.
		Filters: []sloggin.Filter{
			sloggin.IgnorePath("/health_check", "/readyz", "/subscriptions/confirm"),
		},
	}))
	r.Use(middleware.Metrics())

	r.GET("/health_check", healthHandler.HealthCheck)
	r.GET("/readyz", healthHandler.Ready)

	subscriptions := r.Group("/subscriptions")
	subscriptions.POST("", subscriptionHandler.Subscribe)
	subscriptions.GET("/confirm", subscriptionHandler.Confirm)

	return r
}
