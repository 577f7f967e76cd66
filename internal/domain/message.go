package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageAudio MessageType = "audio"
)

// Message is one immutable entry in a conversation's append-only log.
// Exactly one of ImageURL/AudioURL is set for image/audio messages; the
// non-applicable URL fields stay empty strings. CreatedAt is assigned by
// the store at write time and is the ordering key.
type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID string      `json:"conversation_id"`
	FromID         uuid.UUID   `json:"from"`
	ToID           uuid.UUID   `json:"to"`
	Type           MessageType `json:"type"`
	Text           string      `json:"text"`
	ImageURL       string      `json:"image_url"`
	AudioURL       string      `json:"audio_url"`
	CreatedAt      time.Time   `json:"created_at"`
}
