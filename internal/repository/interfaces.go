package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vmitrev/amora/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	List(ctx context.Context, excludeID uuid.UUID) ([]domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

type LikeRepository interface {
	// Upsert writes the like under its ordered key, overwriting the
	// timestamp if the record already exists. The store assigns CreatedAt.
	Upsert(ctx context.Context, like *domain.Like) error
	Get(ctx context.Context, key string) (*domain.Like, error)
}

type MatchRepository interface {
	// Create inserts the match once; inserting an existing key is a no-op.
	Create(ctx context.Context, match *domain.Match) error
	Get(ctx context.Context, key string) (*domain.Match, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error)
	TouchLastMessage(ctx context.Context, key string, at time.Time) error
}

type MessageRepository interface {
	// Create appends the message and fills CreatedAt with the
	// store-assigned timestamp.
	Create(ctx context.Context, msg *domain.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
}
