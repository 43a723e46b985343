package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/triage-api/internal/catalog"
	"github.com/jwalitptl/triage-api/internal/config"
	authHandler "github.com/jwalitptl/triage-api/internal/handler/auth"
	"github.com/jwalitptl/triage-api/internal/handler/health"
	intakeHandler "github.com/jwalitptl/triage-api/internal/handler/intake"
	queueHandler "github.com/jwalitptl/triage-api/internal/handler/queue"
	"github.com/jwalitptl/triage-api/internal/middleware"
	"github.com/jwalitptl/triage-api/internal/redflag"
	"github.com/jwalitptl/triage-api/internal/repository/postgres"
	"github.com/jwalitptl/triage-api/internal/router"
	authService "github.com/jwalitptl/triage-api/internal/service/auth"
	intakeService "github.com/jwalitptl/triage-api/internal/service/intake"
	queueService "github.com/jwalitptl/triage-api/internal/service/queue"
	"github.com/jwalitptl/triage-api/internal/service/triage"
	"github.com/jwalitptl/triage-api/pkg/auth"
	"github.com/jwalitptl/triage-api/pkg/logger"
	"github.com/jwalitptl/triage-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("triage_api")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// The catalog and the red-flag rules are built once at startup and
	// shared read-only; a bad definition set is a deploy error.
	cat, err := catalog.Default(appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid symptom catalog")
	}
	rules := redflag.NewDefaultEngine()

	submissionRepo := postgres.NewSubmissionRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	staffRepo := postgres.NewStaffRepository(db)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	triageClient := triage.NewHTTPClient(cfg.Triage, appLogger, m)

	intakeSvc := intakeService.NewService(submissionRepo, outboxRepo, triageClient, cat, rules, appLogger, m)
	queueSvc := queueService.NewService(submissionRepo, outboxRepo, appLogger, m)
	authSvc := authService.NewService(staffRepo, jwtSvc)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		intakeHandler.NewHandler(intakeSvc),
		queueHandler.NewHandler(queueSvc, intakeSvc),
		health.NewHandler(db),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  "triage_api",
			Timeout:        cfg.Server.WriteTimeout,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
