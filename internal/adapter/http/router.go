package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gotracker/internal/adapter/http/handler"
	"github.com/iho/gotracker/internal/adapter/http/middleware"
	"github.com/iho/gotracker/internal/usecase"
)

// RouterConfig holds dependencies for the router.
// IdempotencyStore, RateLimiter, HTTPMetrics and MetricsHandler are optional.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	CategoryHandler    *handler.CategoryHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	HTTPMetrics        *middleware.HTTPMetrics
	MetricsHandler     http.Handler
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Get("/categories", cfg.CategoryHandler.List)
	r.Get("/summary", cfg.TransactionHandler.Summary)

	r.Route("/transactions", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotency.Wrap)
		}

		r.Get("/", cfg.TransactionHandler.List)
		r.Post("/", cfg.TransactionHandler.Create)
		r.Get("/{id}", cfg.TransactionHandler.Get)
		r.Patch("/{id}", cfg.TransactionHandler.Update)
		r.Delete("/{id}", cfg.TransactionHandler.Delete)
	})

	return r
}
