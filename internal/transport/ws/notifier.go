package ws

import (
	"github.com/rs/zerolog/log"
	"github.com/vmitrev/amora/internal/domain"
)

// HubNotifier implements service.SnapshotNotifier and service.MatchNotifier
// using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifySnapshot pushes the full ordered message list to every subscriber
// of the conversation.
func (n *HubNotifier) NotifySnapshot(conversationID string, messages []domain.Message) {
	evt, err := NewEvent(EventTypeConversationSnapshot, conversationID, SnapshotPayload{Messages: messages})
	if err != nil {
		log.Error().Err(err).Msg("ws notifier: marshal error")
		return
	}
	n.hub.BroadcastToConversation(conversationID, evt)
}

// NotifyMatch tells both participants they matched.
func (n *HubNotifier) NotifyMatch(match *domain.Match) {
	evt, err := NewEvent(EventTypeMatchNew, match.Key, MatchPayload{Match: *match})
	if err != nil {
		log.Error().Err(err).Msg("ws notifier: marshal error")
		return
	}
	n.hub.BroadcastToUser(match.User1ID, evt)
	n.hub.BroadcastToUser(match.User2ID, evt)
}
