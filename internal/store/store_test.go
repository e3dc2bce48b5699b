package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

func TestPoolConfigAppliesOptions(t *testing.T) {
	cfg, err := poolConfig("postgres://u:p@localhost:5432/db?sslmode=disable", Options{
		MaxConns:               12,
		MinConns:               3,
		MaxConnIdleTime:        time.Minute,
		MaxConnLifetime:        time.Hour,
		StatementCacheCapacity: 64,
	})
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if cfg.MaxConns != 12 || cfg.MinConns != 3 {
		t.Fatalf("conns = %d/%d, want 12/3", cfg.MaxConns, cfg.MinConns)
	}
	if cfg.MaxConnIdleTime != time.Minute || cfg.MaxConnLifetime != time.Hour {
		t.Fatalf("lifetimes = %s/%s", cfg.MaxConnIdleTime, cfg.MaxConnLifetime)
	}
	if cfg.ConnConfig.DefaultQueryExecMode != pgx.QueryExecModeCacheStatement {
		t.Fatalf("exec mode = %v, want cache statement", cfg.ConnConfig.DefaultQueryExecMode)
	}
	if cfg.ConnConfig.StatementCacheCapacity != 64 {
		t.Fatalf("statement cache = %d, want 64", cfg.ConnConfig.StatementCacheCapacity)
	}
}

func TestPoolConfigKeepsDefaultsForZeroValues(t *testing.T) {
	defaults, err := poolConfig("postgres://u:p@localhost:5432/db", Options{StatementCacheCapacity: -1})
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if defaults.MaxConns <= 0 {
		t.Fatalf("MaxConns = %d, want pgxpool default", defaults.MaxConns)
	}
	if defaults.MaxConnIdleTime <= 0 {
		t.Fatalf("MaxConnIdleTime = %s, want pgxpool default", defaults.MaxConnIdleTime)
	}
}

func TestPoolConfigRejectsBadURL(t *testing.T) {
	if _, err := poolConfig("postgres://%zz", Options{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	s.Close()
	if err := s.HealthCheck(context.Background()); err != ErrNotInitialized {
		t.Fatalf("HealthCheck on nil store = %v, want ErrNotInitialized", err)
	}
	if s.Stats() != nil {
		t.Fatal("Stats on nil store should be nil")
	}
}
