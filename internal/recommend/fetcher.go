package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sidddev006/CineMatch/internal/catalog"
	"github.com/sidddev006/CineMatch/internal/domain"
	"github.com/sidddev006/CineMatch/internal/logging"
	"github.com/sidddev006/CineMatch/internal/metrics"
)

// FetcherOptions holds the query parameters every discovery page shares.
type FetcherOptions struct {
	Pages        int
	VoteFloor    int
	SortBy       string
	IncludeAdult bool
	// Concurrency bounds in-flight page requests. Zero means one per page.
	Concurrency int
}

// DefaultFetcherOptions mirrors the catalog query the service has always issued:
// two pages, at least 450 votes, best average first, adult titles included.
func DefaultFetcherOptions() FetcherOptions {
	return FetcherOptions{
		Pages:        2,
		VoteFloor:    450,
		SortBy:       "vote_average.desc",
		IncludeAdult: true,
	}
}

// Fetcher retrieves candidate movies across several discovery pages.
type Fetcher struct {
	client catalog.Client
	opts   FetcherOptions
	logger zerolog.Logger
}

// NewFetcher builds a Fetcher.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFetcher(client catalog.Client, opts FetcherOptions, logger zerolog.Logger) *Fetcher {
	if opts.Pages <= 0 {
		opts.Pages = 1
	}
	return &Fetcher{
		client: client,
		opts:   opts,
		logger: logging.Component(logger, "fetcher"),
	}
}

// Fetch returns the candidates of every page that could be retrieved, in page
// order. A failing page contributes nothing; only cancellation of ctx is
// reported as an error.
func (f *Fetcher) Fetch(ctx context.Context, filters domain.FilterSet) ([]domain.Candidate, error) {
	released, hasRange, err := filters.ReleaseRange()
	if err != nil {
		return nil, err
	}

	base := catalog.DiscoverQuery{
		MinVoteCount: f.opts.VoteFloor,
		SortBy:       f.opts.SortBy,
		IncludeAdult: f.opts.IncludeAdult,
		GenreID:      filters.GenreID,
		MaxRuntime:   filters.MaxRuntime,
	}
	if hasRange {
		base.Released = &released
	}

	pages := make([][]domain.Candidate, f.opts.Pages)
	g, gctx := errgroup.WithContext(ctx)
	limit := f.opts.Concurrency
	if limit <= 0 {
		limit = f.opts.Pages
	}
	g.SetLimit(limit)

	for i := range pages {
		q := base
		q.Page = i + 1
		g.Go(func() error {
			page, err := f.client.Discover(gctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				metrics.PagesSkipped.Inc()
				f.logger.Warn().Err(err).Int("page", q.Page).Msg("skipping discovery page")
				return nil
			}
			pages[q.Page-1] = page.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	var total int
	for _, p := range pages {
		total += len(p)
	}
	out := make([]domain.Candidate, 0, total)
	for _, p := range pages {
		out = append(out, p...)
	}
	metrics.CandidatesFetched.Observe(float64(len(out)))
	return out, nil
}
