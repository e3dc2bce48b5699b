package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sidddev006/CineMatch/internal/config"
	"github.com/sidddev006/CineMatch/internal/domain"
	"github.com/sidddev006/CineMatch/internal/genre"
	"github.com/sidddev006/CineMatch/internal/logging"
	"github.com/sidddev006/CineMatch/internal/validation"
)

// HealthChecker reports whether the backing database is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Recommender is the application service behind the HTTP routes.
type Recommender interface {
	Recommend(ctx context.Context, userID uuid.UUID, filters domain.FilterSet) ([]domain.RankedResult, error)
	Watchlist(ctx context.Context, userID uuid.UUID) ([]domain.RankedResult, error)
	AddToWatchlist(ctx context.Context, userID uuid.UUID, movieID int64) (bool, error)
	RemoveFromWatchlist(ctx context.Context, userID uuid.UUID, movieID int64) (bool, error)
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg       config.Config
	health    HealthChecker
	svc       Recommender
	genres    *genre.Catalog
	validator *validation.Validator
	logger    zerolog.Logger
	router    chi.Router
	httpSrv   *http.Server
}

// New constructs the HTTP server with base middleware and routes.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg config.Config, health HealthChecker, svc Recommender, genres *genre.Catalog, logger zerolog.Logger) *Server {
	if genres == nil {
		genres = genre.Default()
	}
	logger = logging.Component(logger, "http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(noStore)

	s := &Server{
		cfg:       cfg,
		health:    health,
		svc:       svc,
		genres:    genres,
		validator: validation.New(genres),
		logger:    logger,
		router:    r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/genres", s.handleListGenres)

	s.router.Group(func(r chi.Router) {
		if s.cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimitRequests, time.Duration(s.cfg.RateLimitWindowSecs)*time.Second))
		}
		r.Get("/recommendations", s.handleRecommendations)
	})

	s.router.Route("/watchlist", func(r chi.Router) {
		r.Get("/", s.handleGetWatchlist)
		r.Route("/{movieId}", func(r chi.Router) {
			r.Put("/", s.handleAddToWatchlist)
			r.Delete("/", s.handleRemoveFromWatchlist)
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.health == nil {
		s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database not configured")
		return
	}
	if err := s.health.HealthCheck(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("health check failed")
		s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unreachable")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
