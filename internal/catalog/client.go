package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/sidddev006/CineMatch/internal/domain"
	"github.com/sidddev006/CineMatch/internal/logging"
	"github.com/sidddev006/CineMatch/internal/metrics"
)

// ErrNotFound is returned when the catalog has no movie with the requested id.
var ErrNotFound = errors.New("catalog: not found")

// ErrMalformedPayload is returned when a response body cannot be decoded or
// lacks the fields the caller needs.
var ErrMalformedPayload = errors.New("catalog: malformed payload")

// StatusError reports an unexpected upstream status code.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: %s returned %d", e.Endpoint, e.Code)
}

const (
	endpointDiscover = "discover"
	endpointDetails  = "details"
)

// DiscoverQuery is one page of the discovery endpoint.
type DiscoverQuery struct {
	Page         int
	MinVoteCount int
	SortBy       string
	IncludeAdult bool
	GenreID      *int
	MaxRuntime   *int
	Released     *domain.DateRange
}

// DiscoverPage is a decoded discovery page.
type DiscoverPage struct {
	Page    int
	Results []domain.Candidate
}

// Details is the subset of the per-movie detail record the service uses.
type Details struct {
	ID          int64
	Title       string
	Overview    string
	PosterPath  *string
	ReleaseDate string
	VoteCount   int
	VoteAverage float64
	Runtime     *int
}

// Client defines the contract for querying the upstream movie catalog.
type Client interface {
	Discover(ctx context.Context, q DiscoverQuery) (*DiscoverPage, error)
	Details(ctx context.Context, id int64) (*Details, error)
}

// HTTPClient implements Client over a TMDB-compatible REST API.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// Options tunes the HTTP client.
type Options struct {
	Timeout time.Duration
	// RateLimit caps outbound requests per second. Zero disables limiting.
	RateLimit float64
	Logger    zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed catalog client.
//
//nolint:gocritic // options passed by value
func NewHTTPClient(baseURL, apiKey string, opts Options) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse catalog url: %q is not absolute", baseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost:   16,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter: limiter,
		logger:  logging.Component(opts.Logger, "catalog"),
	}, nil
}

// Discover fetches one page of the discovery endpoint.
func (c *HTTPClient) Discover(ctx context.Context, q DiscoverQuery) (*DiscoverPage, error) {
	var payload discoverResponse
	if err := c.get(ctx, endpointDiscover, "discover/movie", discoverParams(q), &payload); err != nil {
		return nil, err
	}
	if payload.Results == nil {
		return nil, fmt.Errorf("%w: results field missing", ErrMalformedPayload)
	}

	page := &DiscoverPage{Page: payload.Page, Results: make([]domain.Candidate, 0, len(*payload.Results))}
	for _, raw := range *payload.Results {
		cand, ok := convertCandidate(raw)
		if !ok {
			c.logger.Debug().Int("page", q.Page).Msg("dropping discovery record without id")
			continue
		}
		page.Results = append(page.Results, cand)
	}
	return page, nil
}

// Details fetches the detail record for one movie.
func (c *HTTPClient) Details(ctx context.Context, id int64) (*Details, error) {
	var payload movieRecord
	path := "movie/" + strconv.FormatInt(id, 10)
	if err := c.get(ctx, endpointDetails, path, url.Values{}, &payload); err != nil {
		return nil, err
	}
	return convertDetails(id, payload), nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint, path string, q url.Values, dst interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	q.Set("api_key", c.apiKey)
	target := *c.baseURL
	target.Path = c.baseURL.Path + "/" + path
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			metrics.CatalogRequests.WithLabelValues(endpoint, "malformed").Inc()
			return fmt.Errorf("%w: decode %s response: %v", ErrMalformedPayload, endpoint, err)
		}
		metrics.CatalogRequests.WithLabelValues(endpoint, "ok").Inc()
		return nil
	case resp.StatusCode == http.StatusNotFound:
		metrics.CatalogRequests.WithLabelValues(endpoint, "not_found").Inc()
		return ErrNotFound
	default:
		metrics.CatalogRequests.WithLabelValues(endpoint, "status").Inc()
		c.logger.Warn().Str("endpoint", endpoint).Int("status", resp.StatusCode).Msg("unexpected catalog status")
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
}

func discoverParams(q DiscoverQuery) url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("vote_count.gte", strconv.Itoa(q.MinVoteCount))
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	v.Set("include_adult", strconv.FormatBool(q.IncludeAdult))
	if q.GenreID != nil {
		v.Set("with_genres", strconv.Itoa(*q.GenreID))
	}
	if q.MaxRuntime != nil {
		v.Set("with_runtime.lte", strconv.Itoa(*q.MaxRuntime))
	}
	if q.Released != nil {
		v.Set("primary_release_date.gte", q.Released.From.Format(time.DateOnly))
		v.Set("primary_release_date.lte", q.Released.To.Format(time.DateOnly))
	}
	return v
}

type discoverResponse struct {
	Page    int            `json:"page"`
	Results *[]movieRecord `json:"results"`
}

type movieRecord struct {
	ID          *int64   `json:"id"`
	Title       *string  `json:"title"`
	Overview    *string  `json:"overview"`
	PosterPath  *string  `json:"poster_path"`
	ReleaseDate *string  `json:"release_date"`
	VoteCount   *int     `json:"vote_count"`
	VoteAverage *float64 `json:"vote_average"`
	Runtime     *int     `json:"runtime"`
}

func convertCandidate(raw movieRecord) (domain.Candidate, bool) {
	if raw.ID == nil {
		return domain.Candidate{}, false
	}
	return domain.Candidate{
		ID:          *raw.ID,
		Title:       stringOr(raw.Title, domain.UnknownTitle),
		Overview:    stringOr(raw.Overview, domain.NoOverview),
		PosterPath:  raw.PosterPath,
		ReleaseDate: stringOr(raw.ReleaseDate, domain.UnknownReleaseDate),
		VoteCount:   nonNegative(raw.VoteCount),
		VoteAverage: floatOr(raw.VoteAverage, 0),
	}, true
}

func convertDetails(id int64, raw movieRecord) *Details {
	d := &Details{
		ID:          id,
		Title:       stringOr(raw.Title, domain.UnknownTitle),
		Overview:    stringOr(raw.Overview, domain.NoOverview),
		PosterPath:  raw.PosterPath,
		ReleaseDate: stringOr(raw.ReleaseDate, domain.UnknownReleaseDate),
		VoteCount:   nonNegative(raw.VoteCount),
		VoteAverage: floatOr(raw.VoteAverage, 0),
	}
	if raw.Runtime != nil && *raw.Runtime >= 0 {
		m := *raw.Runtime
		d.Runtime = &m
	}
	return d
}

func stringOr(ptr *string, fallback string) string {
	if ptr == nil {
		return fallback
	}
	return *ptr
}

func floatOr(ptr *float64, fallback float64) float64 {
	if ptr == nil {
		return fallback
	}
	return *ptr
}

func nonNegative(ptr *int) int {
	if ptr == nil || *ptr < 0 {
		return 0
	}
	return *ptr
}
