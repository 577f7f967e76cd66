package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vmitrev/amora/internal/domain"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Upsert keeps at most one like per ordered pair; a re-like only
// refreshes the server timestamp.
func (r *LikeRepo) Upsert(ctx context.Context, like *domain.Like) error {
	query := `
		INSERT INTO likes (key, from_id, to_id, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE SET created_at = now()
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query, like.Key, like.FromID, like.ToID).Scan(&like.CreatedAt)
}

func (r *LikeRepo) Get(ctx context.Context, key string) (*domain.Like, error) {
	query := `SELECT key, from_id, to_id, created_at FROM likes WHERE key = $1`

	var like domain.Like
	err := r.pool.QueryRow(ctx, query, key).Scan(&like.Key, &like.FromID, &like.ToID, &like.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &like, err
}
