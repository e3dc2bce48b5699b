package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *fixture {
	t.Helper()
	raw, err := os.ReadFile("mock-catalog.json")
	require.NoError(t, err)
	fx, err := parseFixture(raw)
	require.NoError(t, err)
	return fx
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	h := newRouter(loadFixture(t), "", nil, zerolog.Nop())

	rec := get(t, h, "/discover/movie?api_key=k&page=1&with_genres=35&vote_count.gte=450"+
		"&primary_release_date.gte=2010-01-01&primary_release_date.lte=2019-12-31&with_runtime.lte=120&include_adult=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var page discoverPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.NotEmpty(t, page.Results)
	for i, m := range page.Results {
		assert.Contains(t, m.GenreIDs, 35)
		assert.GreaterOrEqual(t, m.VoteCount, 450)
		assert.GreaterOrEqual(t, m.ReleaseDate, "2010-01-01")
		assert.LessOrEqual(t, m.ReleaseDate, "2019-12-31")
		assert.Nil(t, m.Runtime, "list rows carry no runtime")
		if i > 0 {
			assert.GreaterOrEqual(t, page.Results[i-1].VoteAverage, m.VoteAverage)
		}
	}
}

func TestDiscoverPaging(t *testing.T) {
	fx := loadFixture(t)
	h := newRouter(fx, "", nil, zerolog.Nop())

	rec := get(t, h, "/discover/movie?api_key=k&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var page discoverPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Results, len(fx.Movies)-pageSize)

	rec = get(t, h, "/discover/movie?api_key=k&page=9")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Empty(t, page.Results)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/discover/movie?api_key=k&page=0").Code)
}

func TestDetails(t *testing.T) {
	h := newRouter(loadFixture(t), "secret", map[int64]bool{550: true}, zerolog.Nop())

	rec := get(t, h, "/movie/27205?api_key=secret")
	require.Equal(t, http.StatusOK, rec.Code)
	var m movie
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	require.NotNil(t, m.Runtime)
	assert.Equal(t, 148, *m.Runtime)

	assert.Equal(t, http.StatusInternalServerError, get(t, h, "/movie/550?api_key=secret").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/movie/1?api_key=secret").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/movie/27205?api_key=wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/movie/27205").Code)
}

func TestParseFixtureRejectsDuplicates(t *testing.T) {
	_, err := parseFixture([]byte(`{"movies":[{"id":1},{"id":1}]}`))
	require.Error(t, err)
}
