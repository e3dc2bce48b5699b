package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port             string
	LogLevel         string
	LogFormat        string
	DBURL            string
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int

	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int

	CatalogURL               string
	CatalogAPIKey            string
	CatalogTimeoutSecs       int
	CatalogDetailTimeoutSecs int
	CatalogRateLimit         float64
	CatalogPages             int
	CatalogVoteFloor         int
	CatalogIncludeAdult      bool
	CatalogSortBy            string

	ScoreMinVotes     float64
	ScorePriorMean    float64
	ScoreThreshold    float64
	TopN              int
	DedupeCandidates  bool
	PageConcurrency   int
	EnrichConcurrency int

	GenresFile          string
	RateLimitRequests   int
	RateLimitWindowSecs int
}

// Load reads configuration from environment variables, applying defaults and validation.
// A .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		DBURL:            os.Getenv("DB_URL"),
		ReadTimeoutSecs:  getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
		IdleTimeoutSecs:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),

		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),

		CatalogURL:               getEnv("CATALOG_URL", "https://api.themoviedb.org/3"),
		CatalogAPIKey:            os.Getenv("CATALOG_API_KEY"),
		CatalogTimeoutSecs:       getEnvInt("CATALOG_TIMEOUT_SECS", 5),
		CatalogDetailTimeoutSecs: getEnvInt("CATALOG_DETAIL_TIMEOUT_SECS", 3),
		CatalogRateLimit:         getEnvFloat("CATALOG_RATE_LIMIT", 40),
		CatalogPages:             getEnvInt("CATALOG_PAGES", 2),
		CatalogVoteFloor:         getEnvInt("CATALOG_VOTE_FLOOR", 450),
		CatalogIncludeAdult:      getEnvBool("CATALOG_INCLUDE_ADULT", true),
		CatalogSortBy:            getEnv("CATALOG_SORT_BY", "vote_average.desc"),

		ScoreMinVotes:     getEnvFloat("SCORE_MIN_VOTES", 500),
		ScorePriorMean:    getEnvFloat("SCORE_PRIOR_MEAN", 8.0),
		ScoreThreshold:    getEnvFloat("SCORE_THRESHOLD", 7.0),
		TopN:              getEnvInt("TOP_N", 10),
		DedupeCandidates:  getEnvBool("DEDUPE_CANDIDATES", false),
		PageConcurrency:   getEnvInt("PAGE_CONCURRENCY", 2),
		EnrichConcurrency: getEnvInt("ENRICH_CONCURRENCY", 5),

		GenresFile:          os.Getenv("GENRES_FILE"),
		RateLimitRequests:   getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindowSecs: getEnvInt("RATE_LIMIT_WINDOW_SECS", 60),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants Load enforces. Tests building a Config by
// hand can call it directly.
func (cfg Config) Validate() error {
	if cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if cfg.CatalogURL == "" {
		return fmt.Errorf("CATALOG_URL is required")
	}
	if cfg.CatalogAPIKey == "" {
		return fmt.Errorf("CATALOG_API_KEY is required")
	}
	if cfg.CatalogTimeoutSecs <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT_SECS must be positive")
	}
	if cfg.CatalogDetailTimeoutSecs <= 0 {
		return fmt.Errorf("CATALOG_DETAIL_TIMEOUT_SECS must be positive")
	}
	if cfg.CatalogRateLimit <= 0 {
		return fmt.Errorf("CATALOG_RATE_LIMIT must be positive")
	}
	if cfg.CatalogPages <= 0 {
		return fmt.Errorf("CATALOG_PAGES must be positive")
	}
	if cfg.CatalogVoteFloor < 0 {
		return fmt.Errorf("CATALOG_VOTE_FLOOR must be non-negative")
	}
	if cfg.ScoreMinVotes <= 0 {
		return fmt.Errorf("SCORE_MIN_VOTES must be positive")
	}
	if cfg.TopN <= 0 {
		return fmt.Errorf("TOP_N must be positive")
	}
	if cfg.PageConcurrency <= 0 {
		return fmt.Errorf("PAGE_CONCURRENCY must be positive")
	}
	if cfg.EnrichConcurrency <= 0 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be positive")
	}
	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindowSecs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
