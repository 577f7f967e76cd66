package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vmitrev/amora/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeConversationSubscribe   = "conversation.subscribe"
	EventTypeConversationUnsubscribe = "conversation.unsubscribe"
	EventTypeVoiceStart              = "voice.start"
	EventTypeVoiceChunk              = "voice.chunk"
	EventTypeVoiceStop               = "voice.stop"
	EventTypePing                    = "ping"
)

// Event types - Server → Client
const (
	EventTypeConversationSnapshot = "conversation.snapshot"
	EventTypeMatchNew             = "match.new"
	EventTypeVoiceSent            = "voice.sent"
	EventTypeVoiceRejected        = "voice.rejected"
	EventTypePresence             = "presence"
	EventTypePong                 = "pong"
	EventTypeError                = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversation_id,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Timestamp      int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type ConversationPayload struct {
	ConversationID string `json:"conversation_id"`
}

type VoiceStartPayload struct {
	PeerID uuid.UUID `json:"peer_id"`
}

type VoiceChunkPayload struct {
	// Data is the base64-encoded audio chunk.
	Data string `json:"data"`
}

// --- Server → Client payloads ---

// SnapshotPayload carries the full current ordered message list. The
// client re-renders the whole conversation on every snapshot.
type SnapshotPayload struct {
	Messages []domain.Message `json:"messages"`
}

type MatchPayload struct {
	domain.Match
}

type VoiceSentPayload struct {
	Message domain.Message `json:"message"`
}

type VoiceRejectedPayload struct {
	Reason string `json:"reason"`
}

type PresencePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"` // "online" | "offline"
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType, conversationID string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:           eventType,
		ConversationID: conversationID,
		Payload:        data,
		Timestamp:      time.Now().Unix(),
	}, nil
}
