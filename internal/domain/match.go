package domain

import (
	"time"

	"github.com/google/uuid"
)

// Match is the symmetric relationship created when both directional likes
// exist. Keyed by ConversationKey of the two user IDs, so either user
// computes the same key. User1ID always holds the lexicographically
// smaller ID.
type Match struct {
	Key           string     `json:"key"`
	User1ID       uuid.UUID  `json:"user1_id"`
	User2ID       uuid.UUID  `json:"user2_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	// Joined fields for frontend
	OtherUserID    uuid.UUID `json:"other_user_id,omitempty"`
	OtherName      string    `json:"other_name,omitempty"`
	OtherMainPhoto string    `json:"other_main_photo,omitempty"`
}

// NewMatch builds the canonical match record for a pair of users.
func NewMatch(a, b uuid.UUID) *Match {
	u1, u2 := a, b
	if u1.String() > u2.String() {
		u1, u2 = u2, u1
	}
	return &Match{
		Key:     ConversationKey(a.String(), b.String()),
		User1ID: u1,
		User2ID: u2,
	}
}
