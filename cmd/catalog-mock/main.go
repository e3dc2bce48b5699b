// Command catalog-mock serves a TMDB-compatible subset of the catalog API
// from a JSON fixture, for local runs and contract tests.
package main

import (
	"flag"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/sidddev006/CineMatch/internal/logging"
)

func main() {
	var (
		port     = flag.String("port", "9099", "port to listen on")
		data     = flag.String("data", "cmd/catalog-mock/mock-catalog.json", "path to mock data file")
		apiKey   = flag.String("api-key", "", "api_key value to require (empty accepts any)")
		failIDs  = flag.String("fail-details", "", "comma separated movie ids whose detail lookup returns 500")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger := logging.Component(logging.New(logging.Config{Level: *logLevel, Format: "console"}), "catalog-mock")

	raw, err := os.ReadFile(*data)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *data).Msg("read mock data")
	}
	fx, err := parseFixture(raw)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse mock data")
	}
	failing, err := parseIDs(*failIDs)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse -fail-details")
	}

	addr := ":" + *port
	logger.Info().Str("addr", addr).Int("movies", len(fx.Movies)).Msg("mock catalog listening")
	if err := http.ListenAndServe(addr, newRouter(fx, *apiKey, failing, logger)); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newRouter(fx *fixture, apiKey string, failing map[int64]bool, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requireKey(apiKey))

	r.Get("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		q, err := parseDiscover(r.URL.Query())
		if err != nil {
			writeStatus(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Debug().Int("page", q.page).Msg("discover")
		writeJSON(w, http.StatusOK, fx.discover(q))
	})

	r.Get("/movie/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeStatus(w, http.StatusNotFound, "The resource you requested could not be found.")
			return
		}
		if failing[id] {
			writeStatus(w, http.StatusInternalServerError, "Internal error.")
			return
		}
		m, ok := fx.byID(id)
		if !ok {
			writeStatus(w, http.StatusNotFound, "The resource you requested could not be found.")
			return
		}
		writeJSON(w, http.StatusOK, m)
	})
	return r
}

func requireKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.URL.Query().Get("api_key")
			if got == "" || (apiKey != "" && got != apiKey) {
				writeStatus(w, http.StatusUnauthorized, "Invalid API key: You must be granted a valid key.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseIDs(raw string) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success":        false,
		"status_code":    status,
		"status_message": message,
	})
}
