package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vmitrev/amora/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Create appends one message. The timestamp is assigned by the database
// so ordering does not depend on client clocks.
func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, from_id, to_id, type, text, image_url, audio_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		msg.ID, msg.ConversationID, msg.FromID, msg.ToID,
		msg.Type, msg.Text, msg.ImageURL, msg.AudioURL,
	).Scan(&msg.CreatedAt)
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	query := `
		SELECT id, conversation_id, from_id, to_id, type, text, image_url, audio_url, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.FromID, &msg.ToID,
			&msg.Type, &msg.Text, &msg.ImageURL, &msg.AudioURL, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
