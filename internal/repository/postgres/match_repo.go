package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vmitrev/amora/internal/domain"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// Create is idempotent: both users racing to create the same match is
// harmless, the second insert hits the conflict and does nothing.
func (r *MatchRepo) Create(ctx context.Context, match *domain.Match) error {
	query := `
		INSERT INTO matches (key, user1_id, user2_id, created_at, last_message_at)
		VALUES ($1, $2, $3, now(), NULL)
		ON CONFLICT (key) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, match.Key, match.User1ID, match.User2ID)
	return err
}

func (r *MatchRepo) Get(ctx context.Context, key string) (*domain.Match, error) {
	query := `SELECT key, user1_id, user2_id, created_at, last_message_at FROM matches WHERE key = $1`

	var m domain.Match
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&m.Key, &m.User1ID, &m.User2ID, &m.CreatedAt, &m.LastMessageAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &m, err
}

func (r *MatchRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	query := `
		SELECT m.key, m.user1_id, m.user2_id, m.created_at, m.last_message_at,
			CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END AS other_user_id,
			CASE WHEN m.user1_id = $1 THEN p2.name ELSE p1.name END AS other_name,
			CASE WHEN m.user1_id = $1 THEN p2.main_photo ELSE p1.main_photo END AS other_main_photo
		FROM matches m
		JOIN profiles p1 ON m.user1_id = p1.id
		JOIN profiles p2 ON m.user2_id = p2.id
		WHERE m.user1_id = $1 OR m.user2_id = $1
		ORDER BY m.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(
			&m.Key, &m.User1ID, &m.User2ID, &m.CreatedAt, &m.LastMessageAt,
			&m.OtherUserID, &m.OtherName, &m.OtherMainPhoto,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *MatchRepo) TouchLastMessage(ctx context.Context, key string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE matches SET last_message_at = $1 WHERE key = $2`, at, key)
	return err
}
