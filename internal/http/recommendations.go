package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sidddev006/CineMatch/internal/domain"
	"github.com/sidddev006/CineMatch/internal/validation"
)

const userHeader = "X-User-Id"

// recommendationQuery mirrors the query string after integer parsing.
type recommendationQuery struct {
	Genre   *int `json:"genre" validate:"omitempty,genre"`
	Runtime *int `json:"runtime" validate:"omitempty,min=1,max=1000"`
	Decade  *int `json:"decade" validate:"omitempty,min=1000,max=9999"`
}

type movieResponse struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Overview       string  `json:"overview"`
	PosterPath     *string `json:"posterPath"`
	ReleaseDate    string  `json:"releaseDate"`
	VoteCount      int     `json:"voteCount"`
	VoteAverage    float64 `json:"voteAverage"`
	WeightedRating float64 `json:"weightedRating"`
	Runtime        *int    `json:"runtime"`
	RuntimeLabel   string  `json:"runtimeLabel"`
	InWatchlist    bool    `json:"inWatchlist"`
}

type appliedFilters struct {
	Genre     *int    `json:"genre,omitempty"`
	GenreName *string `json:"genreName,omitempty"`
	Runtime   *int    `json:"runtime,omitempty"`
	Decade    *int    `json:"decade,omitempty"`
}

type recommendationsResponse struct {
	Items   []movieResponse `json:"items"`
	Filters appliedFilters  `json:"filters"`
}

type watchlistResponse struct {
	Items []movieResponse `json:"items"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		s.respondUnauthorized(w)
		return
	}

	filters, err := buildRecommendationFilters(r.URL.Query(), s.validator)
	if err != nil {
		s.respondValidation(w, err)
		return
	}

	results, err := s.svc.Recommend(r.Context(), userID, filters)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to compute recommendations")
		return
	}

	resp := recommendationsResponse{
		Items:   toMovieResponses(results),
		Filters: appliedFilters{Genre: filters.GenreID, Runtime: filters.MaxRuntime, Decade: filters.Decade},
	}
	if filters.GenreID != nil {
		if name, ok := s.genres.Name(*filters.GenreID); ok {
			resp.Filters.GenreName = &name
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListGenres(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"items": s.genres.All()})
}

// buildRecommendationFilters parses genre, runtime and decade. Blank values
// are treated as absent; anything else must be an integer accepted by v.
func buildRecommendationFilters(query url.Values, v *validation.Validator) (domain.FilterSet, error) {
	var q recommendationQuery
	for _, field := range []struct {
		name string
		dst  **int
	}{
		{"genre", &q.Genre},
		{"runtime", &q.Runtime},
		{"decade", &q.Decade},
	} {
		raw := strings.TrimSpace(query.Get(field.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.FilterSet{}, validation.Invalid(field.name, "integer", raw)
		}
		*field.dst = &n
	}

	if err := v.Struct(q); err != nil {
		return domain.FilterSet{}, err
	}
	return domain.FilterSet{GenreID: q.Genre, MaxRuntime: q.Runtime, Decade: q.Decade}, nil
}

// userFromRequest reads the acting user from the X-User-Id header.
func userFromRequest(r *http.Request) (uuid.UUID, bool) {
	raw := strings.TrimSpace(r.Header.Get(userHeader))
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps pipeline failures. A cancelled client gets no
// body; a decade rejected late is still a validation error.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var decadeErr *domain.InvalidDecadeError
	switch {
	case errors.As(err, &decadeErr):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", decadeErr.Error())
	case errors.Is(err, context.Canceled):
		w.WriteHeader(statusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		s.respondError(w, http.StatusGatewayTimeout, "TIMEOUT", "Upstream catalog timed out")
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
	}
}

// statusClientClosedRequest is the de facto code for a client that went away.
const statusClientClosedRequest = 499

func toMovieResponses(results []domain.RankedResult) []movieResponse {
	items := make([]movieResponse, 0, len(results))
	for _, res := range results {
		items = append(items, movieResponse{
			ID:             res.ID,
			Title:          res.Title,
			Overview:       res.Overview,
			PosterPath:     res.PosterPath,
			ReleaseDate:    res.ReleaseDate,
			VoteCount:      res.VoteCount,
			VoteAverage:    res.VoteAverage,
			WeightedRating: res.WeightedRating,
			Runtime:        res.Runtime.Minutes(),
			RuntimeLabel:   res.Runtime.String(),
			InWatchlist:    res.InWatchlist,
		})
	}
	return items
}
