package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vmitrev/amora/internal/capture"
	"github.com/vmitrev/amora/internal/service"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	voice  *service.VoiceService

	// subscriptions tracks which conversations this client listens to.
	subscriptions map[string]struct{}
	mu            sync.RWMutex

	// voiceStream feeds chunks of the active recording, nil when idle.
	voiceStream *capture.ChunkStream

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, voice *service.VoiceService) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		userID:        userID,
		voice:         voice,
		subscriptions: make(map[string]struct{}),
		send:          make(chan []byte, sendBufSize),
		done:          make(chan struct{}),
	}
}

// IsSubscribed checks if this client is subscribed to a conversation.
func (c *Client) IsSubscribed(conversationID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscriptions[conversationID]
	return ok
}

// Subscribe adds a conversation subscription.
func (c *Client) Subscribe(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[conversationID] = struct{}{}
}

// Unsubscribe removes a conversation subscription, releasing the live feed.
func (c *Client) Unsubscribe(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, conversationID)
}

// ReadPump reads messages from the WebSocket and routes them.
func (c *Client) ReadPump() {
	defer func() {
		c.abortVoice()
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Info().Stringer("user", c.userID).Msg("ws client closed")
			} else {
				log.Warn().Err(err).Stringer("user", c.userID).Msg("ws read error")
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Warn().Err(err).Stringer("user", c.userID).Msg("ws write error")
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeConversationSubscribe:
		var p ConversationPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid conversation.subscribe payload")
			return
		}
		c.Subscribe(p.ConversationID)

	case EventTypeConversationUnsubscribe:
		var p ConversationPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid conversation.unsubscribe payload")
			return
		}
		c.Unsubscribe(p.ConversationID)

	case EventTypeVoiceStart:
		c.handleVoiceStart(event)

	case EventTypeVoiceChunk:
		c.handleVoiceChunk(event)

	case EventTypeVoiceStop:
		c.handleVoiceStop()

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) handleVoiceStart(event *Event) {
	var p VoiceStartPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil || p.PeerID == uuid.Nil {
		c.sendError("INVALID_PAYLOAD", "invalid voice.start payload")
		return
	}

	stream := capture.NewChunkStream()
	if err := c.voice.Start(context.Background(), c.userID, p.PeerID, stream); err != nil {
		if errors.Is(err, capture.ErrDeviceUnavailable) {
			c.sendError("DEVICE_UNAVAILABLE", "could not start recording")
		} else {
			c.sendError("VOICE_START_FAILED", "could not start recording")
		}
		return
	}

	c.mu.Lock()
	c.voiceStream = stream
	c.mu.Unlock()
}

func (c *Client) handleVoiceChunk(event *Event) {
	var p VoiceChunkPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		c.sendError("INVALID_PAYLOAD", "invalid voice.chunk payload")
		return
	}

	c.mu.RLock()
	stream := c.voiceStream
	c.mu.RUnlock()
	if stream == nil {
		return
	}

	chunk, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		c.sendError("INVALID_PAYLOAD", "voice chunk is not valid base64")
		return
	}
	stream.Push(chunk)
}

func (c *Client) handleVoiceStop() {
	c.mu.Lock()
	c.voiceStream = nil
	c.mu.Unlock()

	msg, err := c.voice.Stop(context.Background(), c.userID)
	if err != nil {
		if errors.Is(err, capture.ErrTooShort) {
			c.sendEvent(EventTypeVoiceRejected, "", VoiceRejectedPayload{Reason: "too_short"})
		} else {
			c.sendError("VOICE_SEND_FAILED", "could not send voice message")
		}
		return
	}
	if msg != nil {
		c.sendEvent(EventTypeVoiceSent, msg.ConversationID, VoiceSentPayload{Message: *msg})
	}
}

// abortVoice drops any in-flight recording when the connection dies.
func (c *Client) abortVoice() {
	c.mu.Lock()
	stream := c.voiceStream
	c.voiceStream = nil
	c.mu.Unlock()
	if stream == nil {
		return
	}
	stream.Close()
	c.voice.Stop(context.Background(), c.userID)
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendEvent(eventType, conversationID string, payload any) {
	evt, err := NewEvent(eventType, conversationID, payload)
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(code, message string) {
	c.sendEvent(EventTypeError, "", ErrorPayload{Code: code, Message: message})
}
