package ws

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Hub manages all active WebSocket clients and routes events. The clients
// map is owned by the Run goroutine; all access goes through the channels.
type Hub struct {
	// clients maps userID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
	direct     chan *directMsg
}

type broadcastMsg struct {
	conversationID string
	data           []byte
}

type directMsg struct {
	userID uuid.UUID
	data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		direct:     make(chan *directMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			// A reconnect can arrive before the old connection's
			// unregister; the replaced client is torn down here and its
			// stale unregister is ignored by the identity check below.
			if old, ok := h.clients[client.userID]; ok && old != client {
				h.drop(old)
			}
			h.clients[client.userID] = client
			log.Info().Stringer("user", client.userID).Int("total", len(h.clients)).Msg("ws client connected")

			h.broadcastPresence(client.userID, "online")

		case client := <-h.unregister:
			// Only the connection currently registered under the key may
			// tear itself down; a stale unregister from a replaced or
			// already-dropped connection is a no-op.
			if h.clients[client.userID] == client {
				h.drop(client)
				log.Info().Stringer("user", client.userID).Int("total", len(h.clients)).Msg("ws client disconnected")

				h.broadcastPresence(client.userID, "offline")
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				// Only send to clients subscribed to this conversation.
				if !client.IsSubscribed(msg.conversationID) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					h.drop(client)
				}
			}

		case msg := <-h.direct:
			if client, ok := h.clients[msg.userID]; ok {
				select {
				case client.send <- msg.data:
				default:
				}
			}
		}
	}
}

// drop removes a client from the registry and closes its channels. Must
// only be called from the Run goroutine, and only for clients currently
// in the map, so each client is closed exactly once.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client.userID)
	close(client.send)
	close(client.done)
}

// BroadcastToConversation sends an event to all subscribers of a conversation.
func (h *Hub) BroadcastToConversation(conversationID string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("ws hub: marshal error")
		return
	}
	h.broadcast <- &broadcastMsg{
		conversationID: conversationID,
		data:           data,
	}
}

// BroadcastToUser sends an event directly to a specific user.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.direct <- &directMsg{userID: userID, data: data}
}

// broadcastPresence sends online/offline to all connected clients.
func (h *Hub) broadcastPresence(userID uuid.UUID, status string) {
	evt, err := NewEvent(EventTypePresence, "", PresencePayload{
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	for _, client := range h.clients {
		if client.userID == userID {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}
