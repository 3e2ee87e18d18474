package router

import (
	"encoding/json"
	"net/http"

	"github.com/andemamma/collection-api/internal/auth"
	"github.com/andemamma/collection-api/internal/config"
	"github.com/andemamma/collection-api/internal/database"
	"github.com/andemamma/collection-api/internal/http/handler"
	"github.com/andemamma/collection-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/andemamma/collection-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	planHandler       *handler.PlanHandler
	sessionHandler    *handler.SessionHandler
	orderHandler      *handler.OrderHandler
	evaluationHandler *handler.EvaluationHandler
	catalogHandler    *handler.CatalogHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	planHandler *handler.PlanHandler,
	sessionHandler *handler.SessionHandler,
	orderHandler *handler.OrderHandler,
	evaluationHandler *handler.EvaluationHandler,
	catalogHandler *handler.CatalogHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		planHandler:       planHandler,
		sessionHandler:    sessionHandler,
		orderHandler:      orderHandler,
		evaluationHandler: evaluationHandler,
		catalogHandler:    catalogHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		overall := "healthy"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Weekly plans
			r.Route("/weekly-plans", func(r chi.Router) {
				r.Get("/", rt.planHandler.List)
				r.Post("/", rt.planHandler.Submit)
				r.Get("/{id}", rt.planHandler.Get)
				r.Delete("/{id}", rt.planHandler.Delete)
				r.Patch("/{id}/outcome", rt.planHandler.SetOutcome)
				r.Patch("/{id}/resource", rt.planHandler.AssignResource)
			})

			// Collection sessions
			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", rt.sessionHandler.List)
				r.Post("/", rt.sessionHandler.Create)
				r.Get("/{id}", rt.sessionHandler.Get)
				r.Patch("/{id}", rt.sessionHandler.Update)
				r.Get("/{id}/evaluation", rt.evaluationHandler.GetBySession)
				r.Post("/{id}/evaluation", rt.evaluationHandler.Create)
			})

			// Standing orders
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", rt.orderHandler.List)
				r.Post("/", rt.orderHandler.Ensure)
				r.Get("/{id}", rt.orderHandler.Get)
			})

			// Cost evaluations
			r.Delete("/evaluations/{id}", rt.evaluationHandler.Delete)

			// Reference catalog
			r.Get("/suppliers", rt.catalogHandler.ListSuppliers)
			r.Get("/suppliers/{id}", rt.catalogHandler.GetSupplier)
			r.Get("/users", rt.catalogHandler.ListUsers)
			r.Get("/collection-modes", rt.catalogHandler.ListCollectionModes)
		})
	})

	return r
}
