package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidddev006/CineMatch/internal/domain"
)

// WatchlistRepository persists the movies each user has saved.
type WatchlistRepository struct {
	pool *pgxpool.Pool
}

// MemberIDs returns the set of movie ids saved by userID.
func (r *WatchlistRepository) MemberIDs(ctx context.Context, userID uuid.UUID) (domain.MemberSet, error) {
	ids, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.NewMemberSet(ids...), nil
}

// List returns the movie ids saved by userID, oldest first.
func (r *WatchlistRepository) List(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	const query = `
        SELECT movie_id
        FROM watchlist
        WHERE user_id = $1
        ORDER BY created_at, movie_id
    `
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan watchlist: %w", err)
	}
	return ids, nil
}

// Add saves movieID for userID and reports whether a row was inserted.
func (r *WatchlistRepository) Add(ctx context.Context, userID uuid.UUID, movieID int64) (bool, error) {
	const query = `
        INSERT INTO watchlist (user_id, movie_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, movie_id) DO NOTHING
    `
	tag, err := r.pool.Exec(ctx, query, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("add to watchlist: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Remove deletes movieID from userID's watchlist and reports whether it was present.
func (r *WatchlistRepository) Remove(ctx context.Context, userID uuid.UUID, movieID int64) (bool, error) {
	const query = `DELETE FROM watchlist WHERE user_id = $1 AND movie_id = $2`
	tag, err := r.pool.Exec(ctx, query, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("remove from watchlist: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
