package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidddev006/CineMatch/internal/store"
)

// Repository aggregates the persistence repositories.
type Repository struct {
	Watchlist *WatchlistRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Watchlist: &WatchlistRepository{pool: pool},
	}
}
