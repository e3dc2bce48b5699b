package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidddev006/CineMatch/internal/catalog"
	"github.com/sidddev006/CineMatch/internal/domain"
)

func candidateIDs(cs []domain.Candidate) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestFetchConcatenatesPagesInOrder(t *testing.T) {
	fc := newFakeCatalog()
	fc.pages[1] = []domain.Candidate{candidate(1, 100, 8), candidate(2, 100, 8)}
	fc.pages[2] = []domain.Candidate{candidate(3, 100, 8)}

	f := NewFetcher(fc, DefaultFetcherOptions(), zerolog.Nop())
	got, err := f.Fetch(context.Background(), domain.FilterSet{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, candidateIDs(got))
}

func TestFetchSkipsFailedPage(t *testing.T) {
	cases := []struct {
		name    string
		failing int
		want    []int64
	}{
		{name: "first page fails", failing: 1, want: []int64{3}},
		{name: "second page fails", failing: 2, want: []int64{1, 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := newFakeCatalog()
			fc.pages[1] = []domain.Candidate{candidate(1, 100, 8), candidate(2, 100, 8)}
			fc.pages[2] = []domain.Candidate{candidate(3, 100, 8)}
			fc.pageErrs[tc.failing] = &catalog.StatusError{Endpoint: "discover", Code: 500}

			got, err := NewFetcher(fc, DefaultFetcherOptions(), zerolog.Nop()).
				Fetch(context.Background(), domain.FilterSet{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, candidateIDs(got))
		})
	}
}

func TestFetchAllPagesFailingYieldsEmpty(t *testing.T) {
	fc := newFakeCatalog()
	fc.pageErrs[1] = catalog.ErrMalformedPayload
	fc.pageErrs[2] = errors.New("connection reset")

	got, err := NewFetcher(fc, DefaultFetcherOptions(), zerolog.Nop()).
		Fetch(context.Background(), domain.FilterSet{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchBuildsQueryFromFilters(t *testing.T) {
	fc := newFakeCatalog()
	filters := domain.FilterSet{GenreID: intPtr(35), MaxRuntime: intPtr(120), Decade: intPtr(2014)}

	_, err := NewFetcher(fc, DefaultFetcherOptions(), zerolog.Nop()).Fetch(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, fc.queries, 2)

	pages := map[int]bool{}
	for _, q := range fc.queries {
		pages[q.Page] = true
		assert.Equal(t, 450, q.MinVoteCount)
		assert.Equal(t, "vote_average.desc", q.SortBy)
		assert.True(t, q.IncludeAdult)
		require.NotNil(t, q.GenreID)
		assert.Equal(t, 35, *q.GenreID)
		require.NotNil(t, q.MaxRuntime)
		assert.Equal(t, 120, *q.MaxRuntime)
		require.NotNil(t, q.Released)
		assert.Equal(t, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), q.Released.From)
		assert.Equal(t, time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), q.Released.To)
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, pages)
}

func TestFetchWithoutFiltersLeavesQueryOpen(t *testing.T) {
	fc := newFakeCatalog()

	_, err := NewFetcher(fc, FetcherOptions{Pages: 1}, zerolog.Nop()).Fetch(context.Background(), domain.FilterSet{})
	require.NoError(t, err)
	require.Len(t, fc.queries, 1)
	assert.Nil(t, fc.queries[0].GenreID)
	assert.Nil(t, fc.queries[0].MaxRuntime)
	assert.Nil(t, fc.queries[0].Released)
}

func TestFetchRejectsInvalidDecade(t *testing.T) {
	fc := newFakeCatalog()

	_, err := NewFetcher(fc, DefaultFetcherOptions(), zerolog.Nop()).
		Fetch(context.Background(), domain.FilterSet{Decade: intPtr(99)})
	var decadeErr *domain.InvalidDecadeError
	require.ErrorAs(t, err, &decadeErr)
	assert.Empty(t, fc.queries)
}

func TestFetchReturnsCancellation(t *testing.T) {
	fc := newFakeCatalog()
	fc.pages[1] = []domain.Candidate{candidate(1, 100, 8)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(fc, DefaultFetcherOptions(), zerolog.Nop()).Fetch(ctx, domain.FilterSet{})
	require.ErrorIs(t, err, context.Canceled)
}
