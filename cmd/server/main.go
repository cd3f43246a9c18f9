package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/gotracker/internal/adapter/http"
	"github.com/iho/gotracker/internal/adapter/http/handler"
	"github.com/iho/gotracker/internal/adapter/http/middleware"
	"github.com/iho/gotracker/internal/adapter/repository/memory"
	redisRepo "github.com/iho/gotracker/internal/adapter/repository/redis"
	"github.com/iho/gotracker/internal/infrastructure/amqp"
	"github.com/iho/gotracker/internal/infrastructure/config"
	"github.com/iho/gotracker/internal/infrastructure/eventpublisher"
	"github.com/iho/gotracker/internal/infrastructure/idgen"
	"github.com/iho/gotracker/internal/infrastructure/logger"
	"github.com/iho/gotracker/internal/infrastructure/metrics"
	"github.com/iho/gotracker/internal/infrastructure/redis"
	"github.com/iho/gotracker/internal/usecase"
)

// rateLimiterIdle is how long an idle client keeps its limiter.
const rateLimiterIdle = 10 * time.Minute

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

// app is the wired server with the resources it owns.
type app struct {
	server      *http.Server
	dispatcher  *eventpublisher.Dispatcher
	rateLimiter *middleware.RateLimiter
	closers     []func() error
}

func (a *app) close(log zerolog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("failed to release resource")
		}
	}
}

// newApp wires every component. Redis and AMQP are only dialled when configured.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}

	m := metrics.New(reg)

	var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(log.With().Str("component", "events").Logger())
	if cfg.AMQPURL != "" {
		amqpPublisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("connect to AMQP: %w", err)
		}
		a.closers = append(a.closers, amqpPublisher.Close)
		publisher = amqpPublisher
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing events to AMQP")
	}

	a.dispatcher = eventpublisher.NewDispatcher(eventpublisher.Config{
		Publisher:  publisher,
		Logger:     log.With().Str("component", "dispatcher").Logger(),
		BufferSize: cfg.EventBufferSize,
		Drops:      m,
	})

	transactionUC := usecase.NewTransactionUseCase(usecase.TransactionUseCaseConfig{
		Repository:       memory.NewTransactionRepository(),
		IDGenerator:      idgen.NewULIDGenerator(),
		Publisher:        a.dispatcher,
		Metrics:          m,
		Logger:           log,
		StrictValidation: cfg.StrictValidation,
	})

	routerCfg := httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		CategoryHandler:    handler.NewCategoryHandler(),
		HealthHandler:      handler.NewHealthHandler(nil),
		HTTPMetrics:        middleware.NewHTTPMetrics(reg),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             log,
	}

	if cfg.IdempotencyEnabled() {
		client, err := redis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			a.close(log)
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(client)
		routerCfg.HealthHandler = handler.NewHealthHandler(redisPinger(client))
		log.Info().Msg("idempotency enabled")
	}

	if cfg.RateLimitEnabled() {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		routerCfg.RateLimiter = a.rateLimiter
	}

	a.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return a, nil
}

func redisPinger(client *goredis.Client) handler.Pinger {
	return handler.PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log, newRegistry())
	if err != nil {
		return err
	}
	defer a.close(log)

	g, gctx := errgroup.WithContext(ctx)

	// The dispatcher outlives the server so in-flight requests can still
	// hand off their events while Shutdown waits for them.
	dispatchCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()

	g.Go(func() error {
		return a.dispatcher.Start(dispatchCtx)
	})

	g.Go(func() error {
		log.Info().Str("addr", a.server.Addr).Msg("starting server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		defer stopDispatcher()
		return a.server.Shutdown(shutdownCtx)
	})

	if a.rateLimiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(rateLimiterIdle)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := a.rateLimiter.Cleanup(rateLimiterIdle); n > 0 {
						log.Debug().Int("removed", n).Msg("rate limiters cleaned up")
					}
				}
			}
		})
	}

	return g.Wait()
}
