package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sidddev006/CineMatch/internal/catalog"
	"github.com/sidddev006/CineMatch/internal/domain"
	"github.com/sidddev006/CineMatch/internal/logging"
	"github.com/sidddev006/CineMatch/internal/metrics"
)

// EnricherOptions bounds the detail-lookup fan-out.
type EnricherOptions struct {
	Concurrency int
	CallTimeout time.Duration
}

// DefaultEnricherOptions allows five lookups in flight, each capped at three seconds.
func DefaultEnricherOptions() EnricherOptions {
	return EnricherOptions{Concurrency: 5, CallTimeout: 3 * time.Second}
}

// Enricher resolves per-movie details the discovery endpoint does not return.
type Enricher struct {
	client catalog.Client
	opts   EnricherOptions
	logger zerolog.Logger
}

// NewEnricher builds an Enricher.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEnricher(client catalog.Client, opts EnricherOptions, logger zerolog.Logger) *Enricher {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Enricher{
		client: client,
		opts:   opts,
		logger: logging.Component(logger, "enricher"),
	}
}

// lookup is the outcome of a single detail request.
type lookup struct {
	details *catalog.Details
	err     error
}

func (l lookup) runtime() domain.Runtime {
	if l.err != nil || l.details == nil || l.details.Runtime == nil {
		return domain.RuntimeUnknown
	}
	return domain.Runtime(*l.details.Runtime)
}

// Enrich attaches a runtime to every scored candidate. Order and scores are
// preserved; an item whose lookup fails gets domain.RuntimeUnknown.
func (e *Enricher) Enrich(ctx context.Context, scored []domain.ScoredCandidate) ([]domain.RankedResult, error) {
	ids := make([]int64, len(scored))
	for i, s := range scored {
		ids[i] = s.ID
	}
	lookups, err := e.lookupAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RankedResult, len(scored))
	for i, s := range scored {
		out[i] = domain.RankedResult{ScoredCandidate: s, Runtime: lookups[i].runtime()}
	}
	return out, nil
}

// Describe builds a result row for each saved id from its detail record.
// Failed lookups yield a placeholder row so the entry stays visible.
func (e *Enricher) Describe(ctx context.Context, ids []int64) ([]domain.RankedResult, error) {
	lookups, err := e.lookupAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RankedResult, len(ids))
	for i, id := range ids {
		row := domain.RankedResult{
			ScoredCandidate: domain.ScoredCandidate{Candidate: domain.Candidate{
				ID:          id,
				Title:       domain.UnknownTitle,
				Overview:    domain.NoOverview,
				ReleaseDate: domain.UnknownReleaseDate,
			}},
			Runtime: lookups[i].runtime(),
		}
		if d := lookups[i].details; lookups[i].err == nil && d != nil {
			row.Title = d.Title
			row.Overview = d.Overview
			row.PosterPath = d.PosterPath
			row.ReleaseDate = d.ReleaseDate
			row.VoteCount = d.VoteCount
			row.VoteAverage = d.VoteAverage
		}
		out[i] = row
	}
	return out, nil
}

// lookupAll fetches details for ids with bounded concurrency. Individual
// failures are recorded in the matching slot; only cancellation of ctx is
// returned.
func (e *Enricher) lookupAll(ctx context.Context, ids []int64) ([]lookup, error) {
	results := make([]lookup, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			callCtx := gctx
			if e.opts.CallTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, e.opts.CallTimeout)
				defer cancel()
			}
			d, err := e.client.Details(callCtx, id)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				metrics.EnrichmentFailures.Inc()
				e.logger.Warn().Err(err).Int64("movie_id", id).Msg("detail lookup failed")
			}
			results[i] = lookup{details: d, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}
	return results, nil
}
