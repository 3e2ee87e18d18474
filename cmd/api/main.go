package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andemamma/collection-api/docs"
	"github.com/andemamma/collection-api/internal/auth"
	"github.com/andemamma/collection-api/internal/config"
	"github.com/andemamma/collection-api/internal/database"
	"github.com/andemamma/collection-api/internal/http/handler"
	"github.com/andemamma/collection-api/internal/http/middleware"
	"github.com/andemamma/collection-api/internal/http/router"
	"github.com/andemamma/collection-api/internal/jobs"
	"github.com/andemamma/collection-api/internal/logger"
	"github.com/andemamma/collection-api/internal/repository"
	"github.com/andemamma/collection-api/internal/service"
	"go.uber.org/zap"
)

// @title AndeMamma Collection API
// @version 1.0
// @description Collection scheduling and session lifecycle API for the waste paper collection operation

// @contact.name API Support
// @contact.email support@andemamma.et

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Configure Swagger host based on environment
	if cfg.App.Environment == "development" || cfg.App.Environment == "local" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	planRepo := repository.NewPlanRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	userRepo := repository.NewUserRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Initialize services
	numberService := service.NewNumberService(numberSequenceRepo)
	orderService := service.NewOrderService(orderRepo, log)
	planService := service.NewPlanService(db, planRepo, supplierRepo, userRepo, log)
	sessionService := service.NewSessionService(sessionRepo, supplierRepo, userRepo, numberService, orderService, service.DefaultScoringConfig(), log)
	evaluationService := service.NewEvaluationService(evaluationRepo, sessionRepo, log)
	catalogService := service.NewCatalogService(supplierRepo, userRepo)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	planHandler := handler.NewPlanHandler(planService, log)
	sessionHandler := handler.NewSessionHandler(sessionService, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		planHandler,
		sessionHandler,
		orderHandler,
		evaluationHandler,
		catalogHandler,
	)

	// Start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.OverdueReminderEnabled {
		scheduler = jobs.NewScheduler(log)
		reminderJob := jobs.NewOverdueReminderJob(sessionRepo, log, 2*time.Minute)
		if err := scheduler.AddJob(jobs.OverdueReminderJobName, cfg.Jobs.OverdueReminderCron, reminderJob.Run); err != nil {
			log.Error("Failed to register overdue reminder job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with overdue reminder job",
				zap.String("cron_expr", cfg.Jobs.OverdueReminderCron))
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
