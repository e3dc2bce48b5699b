package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sidddev006/CineMatch/internal/catalog"
	"github.com/sidddev006/CineMatch/internal/config"
	"github.com/sidddev006/CineMatch/internal/genre"
	httpserver "github.com/sidddev006/CineMatch/internal/http"
	"github.com/sidddev006/CineMatch/internal/logging"
	"github.com/sidddev006/CineMatch/internal/recommend"
	"github.com/sidddev006/CineMatch/internal/repository"
	"github.com/sidddev006/CineMatch/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(logging.Config{})
		bootLogger.Fatal().Err(err).Msg("config error")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	genres := genre.Default()
	if cfg.GenresFile != "" {
		if genres, err = genre.Load(cfg.GenresFile); err != nil {
			logger.Fatal().Err(err).Str("path", cfg.GenresFile).Msg("load genres")
		}
	}

	svc, err := buildService(cfg, repository.New(st), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init recommendation service")
	}

	server := httpserver.New(cfg, st, svc, genres, logger)
	logger.Info().Str("port", cfg.Port).Str("catalog_url", cfg.CatalogURL).Msg("starting server")

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	logger.Info().Msg("server stopped")
}

// buildService assembles the catalog client chain and the recommendation pipeline.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func buildService(cfg config.Config, repo *repository.Repository, logger zerolog.Logger) (*recommend.Service, error) {
	httpClient, err := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogAPIKey, catalog.Options{
		Timeout:   time.Duration(cfg.CatalogTimeoutSecs) * time.Second,
		RateLimit: cfg.CatalogRateLimit,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	client := catalog.NewBreakerClient(httpClient, catalog.DefaultBreakerSettings(), logger)

	scorer, err := recommend.NewScorer(cfg.ScoreMinVotes, cfg.ScorePriorMean)
	if err != nil {
		return nil, err
	}
	ranker := recommend.Ranker{
		Scorer:    scorer,
		Threshold: cfg.ScoreThreshold,
		TopN:      cfg.TopN,
		Dedupe:    cfg.DedupeCandidates,
	}

	fetcher := recommend.NewFetcher(client, recommend.FetcherOptions{
		Pages:        cfg.CatalogPages,
		VoteFloor:    cfg.CatalogVoteFloor,
		SortBy:       cfg.CatalogSortBy,
		IncludeAdult: cfg.CatalogIncludeAdult,
		Concurrency:  cfg.PageConcurrency,
	}, logger)
	enricher := recommend.NewEnricher(client, recommend.EnricherOptions{
		Concurrency: cfg.EnrichConcurrency,
		CallTimeout: time.Duration(cfg.CatalogDetailTimeoutSecs) * time.Second,
	}, logger)

	return recommend.NewService(fetcher, ranker, enricher, repo.Watchlist, logger), nil
}
