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
	"github.com/ErlanBelekov/newsletter/internal/email"
	"github.com/ErlanBelekov/newsletter/internal/health"
	"github.com/ErlanBelekov/newsletter/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/newsletter/internal/log"
	"github.com/ErlanBelekov/newsletter/internal/metrics"
	"github.com/ErlanBelekov/newsletter/internal/token"
	httptransport "github.com/ErlanBelekov/newsletter/internal/transport/http"
	"github.com/ErlanBelekov/newsletter/internal/transport/http/handler"
	"github.com/ErlanBelekov/newsletter/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		stop()
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}
	logger.Info("db connected and migrated")

	sender, err := email.NewSender(email.Options{
		Provider:   cfg.EmailProvider,
		From:       cfg.EmailSender,
		APIBaseURL: cfg.EmailAPIBaseURL,
		APIToken:   cfg.EmailAPIToken,
		ResendKey:  cfg.ResendAPIKey,
		Timeout:    cfg.EmailTimeout,
	}, logger)
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("email: %v", err)
	}

	subscriptionUsecase := usecase.NewSubscriptionUsecase(usecase.Deps{
		Tx:          postgres.NewTxManager(pool),
		Subscribers: postgres.NewSubscriberRepository(pool),
		Tokens:      postgres.NewTokenRepository(pool),
		Generator:   token.NewRandomGenerator(),
		Email:       sender,
		BaseURL:     cfg.BaseURL,
		Logger:      logger,
	})

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)
	checker.Add("schema", postgres.NewSchemaProbe(pool))

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger,
			handler.NewSubscriptionHandler(subscriptionUsecase, logger),
			handler.NewHealthHandler(checker),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "email_provider", cfg.EmailProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
