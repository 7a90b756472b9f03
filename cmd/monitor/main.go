// monitor exports how many subscribers are stuck in pending_confirmation.
// It shares the server's database and configuration but serves only the
// metrics and probe endpoints.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/newsletter/config"
	"github.com/ErlanBelekov/newsletter/internal/health"
	"github.com/ErlanBelekov/newsletter/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/newsletter/internal/log"
	"github.com/ErlanBelekov/newsletter/internal/metrics"
	"github.com/ErlanBelekov/newsletter/internal/monitor"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)
	checker.Add("schema", postgres.NewSchemaProbe(pool))

	pending, err := monitor.NewPendingMonitor(
		postgres.NewSubscriberRepository(pool),
		logger,
		cfg.PendingScanSchedule,
		cfg.PendingStaleAfter,
	)
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("monitor: %v", err)
	}

	// First scan right away so the gauge is populated before the first tick.
	if err := pending.Scan(ctx); err != nil {
		logger.Error("initial pending scan", "error", err)
	}

	done := make(chan struct{})
	go func() {
		pending.Start(ctx)
		close(done)
	}()

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	<-done

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("monitor shut down")
}
