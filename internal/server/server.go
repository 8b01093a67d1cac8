// Package server assembles the HTTP application from configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-listing/internal/api"
	"github.com/sanosuguru/go-event-listing/internal/api/handler"
	"github.com/sanosuguru/go-event-listing/internal/api/middleware"
	"github.com/sanosuguru/go-event-listing/internal/application"
	"github.com/sanosuguru/go-event-listing/internal/config"
	"github.com/sanosuguru/go-event-listing/internal/domain/category"
	"github.com/sanosuguru/go-event-listing/internal/domain/event"
	"github.com/sanosuguru/go-event-listing/internal/domain/guard"
	"github.com/sanosuguru/go-event-listing/internal/domain/participation"
	"github.com/sanosuguru/go-event-listing/internal/domain/rating"
	"github.com/sanosuguru/go-event-listing/internal/domain/transaction"
	"github.com/sanosuguru/go-event-listing/internal/domain/user"
	"github.com/sanosuguru/go-event-listing/internal/domain/view"
	"github.com/sanosuguru/go-event-listing/internal/infrastructure/memory"
	"github.com/sanosuguru/go-event-listing/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-event-listing/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-listing/internal/infrastructure/stats"
	"github.com/sanosuguru/go-event-listing/internal/pkg/logger"
	"github.com/sanosuguru/go-event-listing/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-listing/internal/worker"
)

// Server is the wired application
type Server struct {
	Echo      *echo.Echo
	Completer *worker.EventCompleter
	Metrics   *metrics.Metrics

	cfg     *config.Config
	closers []func() error
}

// stores is one persistence backend behind the repository ports
type stores struct {
	txm        transaction.Manager
	events     event.Repository
	requests   participation.Repository
	ratings    rating.Repository
	users      user.Repository
	categories category.Repository
}

// New connects to the configured backends and builds the HTTP application.
// reg receives the collectors; nil means the default registry. extra is
// appended to the service options.
func New(ctx context.Context, cfg *config.Config, reg *prometheus.Registry, extra ...application.Option) (_ *Server, err error) {
	s := &Server{cfg: cfg}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	var metricsHandler http.Handler
	if reg == nil {
		s.Metrics = metrics.Get()
		if s.Metrics == nil {
			s.Metrics = metrics.Init()
		}
		metricsHandler = promhttp.Handler()
	} else {
		s.Metrics = metrics.NewWithRegistry(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	checks := map[string]handler.Checker{}

	st, err := s.openStores(ctx, checks)
	if err != nil {
		return nil, err
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient = redisinfra.NewClient(&cfg.Redis)
		s.closers = append(s.closers, redisClient.Close)
		if err := redisinfra.Ping(ctx, redisClient); err != nil {
			return nil, err
		}
		checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, redisClient) }
	}

	opts := []application.Option{
		application.WithMetrics(s.Metrics),
		application.WithLeadTimes(guard.LeadTimes{
			Create:    cfg.Events.CreateLeadTime,
			Published: cfg.Events.PublishedLeadTime,
		}),
		application.WithBatchSize(cfg.Worker.CompletionBatch),
	}
	if redisClient != nil {
		opts = append(opts, application.WithLocker(redisinfra.NewLockManager(redisClient, redisinfra.LockConfig{
			TTL:        cfg.Admission.LockTTL,
			Retries:    cfg.Admission.LockRetries,
			RetryDelay: cfg.Admission.LockRetryDelay,
		}, s.Metrics)))
	}
	opts = append(opts, extra...)

	counter, err := newViewCounter(cfg, redisClient)
	if err != nil {
		return nil, err
	}

	eventService := application.NewEventService(st.txm, st.events, st.categories, st.users, opts...)
	admissionService := application.NewAdmissionService(st.txm, st.events, st.requests, st.users, opts...)
	ratingService := application.NewRatingService(st.txm, st.events, st.ratings, st.users, opts...)
	viewService := application.NewViewService(st.events, counter, cfg.Views.App, opts...)
	directoryService := application.NewDirectoryService(st.users, st.categories)

	if cfg.Worker.CompletionEnabled {
		s.Completer = worker.NewEventCompleter(eventService, cfg.Worker.CompletionInterval)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e, cfg.Server.CORSOrigins)
	e.Use(middleware.PrometheusMiddleware(s.Metrics))
	e.GET("/metrics", echo.WrapHandler(metricsHandler), middleware.MetricsBasicAuth(cfg.Metrics))

	handler.Register(e, handler.Handlers{
		Events:    handler.NewEventHandler(eventService),
		Public:    handler.NewPublicEventHandler(viewService),
		Requests:  handler.NewRequestHandler(admissionService),
		Ratings:   handler.NewRatingHandler(ratingService),
		Directory: handler.NewDirectoryHandler(directoryService),
		Health:    handler.NewHealthHandler(checks),
	}, middleware.AdminAuth(cfg.Auth.AdminJWTSecret))

	s.Echo = e
	return s, nil
}

func (s *Server) openStores(ctx context.Context, checks map[string]handler.Checker) (*stores, error) {
	switch s.cfg.Storage.Driver {
	case "memory":
		logger.Warn("using the in-memory store; data is lost on restart")
		mem := memory.NewStore()
		return &stores{
			txm:        mem,
			events:     memory.NewEventRepository(mem),
			requests:   memory.NewParticipationRepository(mem),
			ratings:    memory.NewRatingRepository(mem),
			users:      memory.NewUserRepository(mem),
			categories: memory.NewCategoryRepository(mem),
		}, nil
	case "postgres":
		db, err := postgres.NewConnection(&s.cfg.Database)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		if err := postgres.RunMigrations(db.DB, s.cfg.Storage.MigrationsPath); err != nil {
			return nil, err
		}
		checks["postgres"] = func(ctx context.Context) error { return postgres.Ping(ctx, db) }
		return postgresStores(db), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", s.cfg.Storage.Driver)
}

func postgresStores(db *sqlx.DB) *stores {
	return &stores{
		txm:        postgres.NewTxManager(db),
		events:     postgres.NewEventRepository(db),
		requests:   postgres.NewParticipationRepository(db),
		ratings:    postgres.NewRatingRepository(db),
		users:      postgres.NewUserRepository(db),
		categories: postgres.NewCategoryRepository(db),
	}
}

func newViewCounter(cfg *config.Config, redisClient *goredis.Client) (view.Counter, error) {
	switch cfg.Views.Backend {
	case "memory":
		return memory.NewViewCounter(), nil
	case "stats":
		return stats.NewClient(cfg.Views.StatsURL, cfg.Views.Timeout), nil
	case "redis":
		if redisClient == nil {
			return nil, errors.New("redis view counter needs a redis client")
		}
		return redisinfra.NewViewCounter(redisClient), nil
	}
	return nil, fmt.Errorf("unknown views backend %q", cfg.Views.Backend)
}

// Run starts the completer and serves HTTP until ctx is canceled, then shuts
// down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	if s.Completer != nil {
		go s.Completer.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + s.cfg.Server.Port
		logger.Info("server listening", zap.String("addr", addr), zap.String("storage", s.cfg.Storage.Driver))
		if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if s.Completer != nil {
		s.Completer.Stop()
	}
	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

// Close releases the database and redis connections
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
