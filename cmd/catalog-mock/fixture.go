package main

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

const pageSize = 20

type movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteCount   int     `json:"vote_count"`
	VoteAverage float64 `json:"vote_average"`
	Runtime     *int    `json:"runtime,omitempty"`
	GenreIDs    []int   `json:"genre_ids"`
	Adult       bool    `json:"adult"`
}

type fixture struct {
	Movies []movie `json:"movies"`
	index  map[int64]int
}

func parseFixture(raw []byte) (*fixture, error) {
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return nil, err
	}
	fx.index = make(map[int64]int, len(fx.Movies))
	for i, m := range fx.Movies {
		if _, dup := fx.index[m.ID]; dup {
			return nil, fmt.Errorf("duplicate movie id %d", m.ID)
		}
		fx.index[m.ID] = i
	}
	return &fx, nil
}

func (fx *fixture) byID(id int64) (movie, bool) {
	i, ok := fx.index[id]
	if !ok {
		return movie{}, false
	}
	return fx.Movies[i], true
}

type discoverQuery struct {
	page         int
	minVotes     int
	genre        *int
	maxRuntime   *int
	releasedFrom string
	releasedTo   string
	includeAdult bool
}

func parseDiscover(v url.Values) (discoverQuery, error) {
	q := discoverQuery{page: 1, includeAdult: v.Get("include_adult") == "true"}
	ints := []struct {
		key string
		dst func(int)
	}{
		{"page", func(n int) { q.page = n }},
		{"vote_count.gte", func(n int) { q.minVotes = n }},
		{"with_genres", func(n int) { q.genre = &n }},
		{"with_runtime.lte", func(n int) { q.maxRuntime = &n }},
	}
	for _, f := range ints {
		raw := v.Get(f.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid %s", f.key)
		}
		f.dst(n)
	}
	if q.page < 1 || q.page > 500 {
		return q, fmt.Errorf("page must be between 1 and 500")
	}
	q.releasedFrom = v.Get("primary_release_date.gte")
	q.releasedTo = v.Get("primary_release_date.lte")
	return q, nil
}

type discoverPage struct {
	Page         int     `json:"page"`
	Results      []movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// discover filters and pages the fixture the way the real endpoint does for
// the parameters the service sends. Runtime is not part of list rows.
func (fx *fixture) discover(q discoverQuery) discoverPage {
	matched := make([]movie, 0, len(fx.Movies))
	for _, m := range fx.Movies {
		if m.VoteCount < q.minVotes || (m.Adult && !q.includeAdult) {
			continue
		}
		if q.genre != nil && !containsInt(m.GenreIDs, *q.genre) {
			continue
		}
		if q.maxRuntime != nil && m.Runtime != nil && *m.Runtime > *q.maxRuntime {
			continue
		}
		// ISO dates compare lexically.
		if q.releasedFrom != "" && m.ReleaseDate < q.releasedFrom {
			continue
		}
		if q.releasedTo != "" && m.ReleaseDate > q.releasedTo {
			continue
		}
		row := m
		row.Runtime = nil
		matched = append(matched, row)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].VoteAverage > matched[j].VoteAverage
	})

	totalPages := (len(matched) + pageSize - 1) / pageSize
	start := (q.page - 1) * pageSize
	results := []movie{}
	if start < len(matched) {
		end := start + pageSize
		if end > len(matched) {
			end = len(matched)
		}
		results = matched[start:end]
	}
	return discoverPage{Page: q.page, Results: results, TotalPages: totalPages, TotalResults: len(matched)}
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
