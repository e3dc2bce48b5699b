package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sidddev006/CineMatch/internal/domain"
	"github.com/sidddev006/CineMatch/internal/logging"
	"github.com/sidddev006/CineMatch/internal/metrics"
)

// WatchlistStore is the persistence collaborator holding saved movies.
type WatchlistStore interface {
	MemberIDs(ctx context.Context, userID uuid.UUID) (domain.MemberSet, error)
	List(ctx context.Context, userID uuid.UUID) ([]int64, error)
	Add(ctx context.Context, userID uuid.UUID, movieID int64) (bool, error)
	Remove(ctx context.Context, userID uuid.UUID, movieID int64) (bool, error)
}

// ErrWatchlist wraps failures of the persistence collaborator.
var ErrWatchlist = errors.New("recommend: watchlist unavailable")

// Service is the entry point for recommendation and watchlist views.
type Service struct {
	fetcher   *Fetcher
	ranker    Ranker
	enricher  *Enricher
	watchlist WatchlistStore
	logger    zerolog.Logger
}

// NewService wires the pipeline stages together.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(fetcher *Fetcher, ranker Ranker, enricher *Enricher, watchlist WatchlistStore, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		ranker:    ranker,
		enricher:  enricher,
		watchlist: watchlist,
		logger:    logging.Component(logger, "recommend"),
	}
}

// Recommend returns the ranked, enriched and watchlist-annotated
// recommendations for userID.
func (s *Service) Recommend(ctx context.Context, userID uuid.UUID, filters domain.FilterSet) ([]domain.RankedResult, error) {
	start := time.Now()

	members, err := s.watchlist.MemberIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatchlist, err)
	}

	candidates, err := s.fetcher.Fetch(ctx, filters)
	if err != nil {
		return nil, err
	}

	ranked := s.ranker.Rank(candidates)

	results, err := s.enricher.Enrich(ctx, ranked)
	if err != nil {
		return nil, err
	}
	results = Merge(results, members)

	metrics.ResultsReturned.Observe(float64(len(results)))
	s.logger.Debug().
		Str("user_id", userID.String()).
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations computed")
	return results, nil
}

// Watchlist returns the user's saved movies, oldest first, with fresh catalog
// details. No scoring or truncation is applied.
func (s *Service) Watchlist(ctx context.Context, userID uuid.UUID) ([]domain.RankedResult, error) {
	ids, err := s.watchlist.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatchlist, err)
	}

	results, err := s.enricher.Describe(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].InWatchlist = true
	}
	return results, nil
}

// AddToWatchlist saves movieID for userID. It reports whether the movie was
// newly added; saving an already saved movie is not an error.
func (s *Service) AddToWatchlist(ctx context.Context, userID uuid.UUID, movieID int64) (bool, error) {
	added, err := s.watchlist.Add(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrWatchlist, err)
	}
	return added, nil
}

// RemoveFromWatchlist deletes movieID from userID's watchlist. Removing a
// movie that is not saved is not an error.
func (s *Service) RemoveFromWatchlist(ctx context.Context, userID uuid.UUID, movieID int64) (bool, error) {
	removed, err := s.watchlist.Remove(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrWatchlist, err)
	}
	return removed, nil
}
