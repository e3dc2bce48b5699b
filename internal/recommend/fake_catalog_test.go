package recommend

import (
	"context"
	"sync"

	"github.com/sidddev006/CineMatch/internal/catalog"
	"github.com/sidddev006/CineMatch/internal/domain"
)

// fakeCatalog serves canned pages and detail records and records every query.
type fakeCatalog struct {
	mu sync.Mutex

	pages      map[int][]domain.Candidate
	pageErrs   map[int]error
	details    map[int64]*catalog.Details
	detailErrs map[int64]error

	queries   []catalog.DiscoverQuery
	detailIDs []int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages:      map[int][]domain.Candidate{},
		pageErrs:   map[int]error{},
		details:    map[int64]*catalog.Details{},
		detailErrs: map[int64]error{},
	}
}

func (f *fakeCatalog) Discover(ctx context.Context, q catalog.DiscoverQuery) (*catalog.DiscoverPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	err := f.pageErrs[q.Page]
	results := f.pages[q.Page]
	f.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return &catalog.DiscoverPage{Page: q.Page, Results: results}, nil
}

func (f *fakeCatalog) Details(ctx context.Context, id int64) (*catalog.Details, error) {
	f.mu.Lock()
	f.detailIDs = append(f.detailIDs, id)
	err := f.detailErrs[id]
	d := f.details[id]
	f.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, catalog.ErrNotFound
	}
	return d, nil
}

func (f *fakeCatalog) withRuntime(id int64, minutes int) *fakeCatalog {
	f.details[id] = &catalog.Details{ID: id, Title: "Movie", Runtime: &minutes}
	return f
}

func candidate(id int64, votes int, avg float64) domain.Candidate {
	return domain.Candidate{ID: id, Title: "Movie", VoteCount: votes, VoteAverage: avg}
}

func intPtr(v int) *int { return &v }
