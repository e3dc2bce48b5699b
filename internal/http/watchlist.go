package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type watchlistChangeResponse struct {
	MovieID     int64 `json:"movieId"`
	InWatchlist bool  `json:"inWatchlist"`
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		s.respondUnauthorized(w)
		return
	}

	results, err := s.svc.Watchlist(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to load watchlist")
		return
	}
	s.respondJSON(w, http.StatusOK, watchlistResponse{Items: toMovieResponses(results)})
}

func (s *Server) handleAddToWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		s.respondUnauthorized(w)
		return
	}
	movieID, ok := decodeMovieIDParam(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "movieId must be a positive integer")
		return
	}

	added, err := s.svc.AddToWatchlist(r.Context(), userID, movieID)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to update watchlist")
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, watchlistChangeResponse{MovieID: movieID, InWatchlist: true})
}

func (s *Server) handleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		s.respondUnauthorized(w)
		return
	}
	movieID, ok := decodeMovieIDParam(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "movieId must be a positive integer")
		return
	}

	if _, err := s.svc.RemoveFromWatchlist(r.Context(), userID, movieID); err != nil {
		s.respondServiceError(w, r, err, "Failed to update watchlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeMovieIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "movieId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
