package domain

import (
	"time"

	"github.com/google/uuid"
)

// Like is a directional relationship keyed by the ordered pair "from_to".
// At most one record exists per ordered pair; re-liking overwrites the
// timestamp. Likes are never deleted.
type Like struct {
	Key       string    `json:"key"`
	FromID    uuid.UUID `json:"from"`
	ToID      uuid.UUID `json:"to"`
	CreatedAt time.Time `json:"created_at"`
}
