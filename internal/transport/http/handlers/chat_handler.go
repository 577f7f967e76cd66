package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vmitrev/amora/internal/service"
	"github.com/vmitrev/amora/internal/transport/http/middleware"
)

const maxUploadBody = 32 << 20

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Open returns the conversation id and peer info for a chat view. The
// client subscribes to the returned conversation id over WebSocket.
func (h *ChatHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	peerID, ok := h.peerID(w, r)
	if !ok {
		return
	}

	peer, err := h.chatService.Peer(r.Context(), peerID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		} else {
			log.Error().Err(err).Msg("open chat failed")
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Error opening chat")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": h.chatService.ConversationID(userID, peerID),
		"peer":            peer,
	})
}

// ListMessages returns the full conversation history, oldest first.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	peerID, ok := h.peerID(w, r)
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), userID, peerID)
	if err != nil {
		log.Error().Err(err).Msg("list messages failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Error loading messages")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// SendText appends a text message. A blank body is accepted and ignored,
// mirroring the composer's behavior of silently dropping empty input.
func (h *ChatHandler) SendText(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	peerID, ok := h.peerID(w, r)
	if !ok {
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	msg, err := h.chatService.SendText(r.Context(), userID, peerID, input.Text)
	if err != nil {
		if errors.Is(err, service.ErrCannotChatSelf) {
			writeError(w, http.StatusBadRequest, "CANNOT_CHAT_SELF", "You cannot chat with yourself")
		} else {
			log.Error().Err(err).Msg("send text failed")
			writeError(w, http.StatusInternalServerError, "SEND_FAILED", "Error sending message")
		}
		return
	}
	if msg == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// SendImage uploads a multipart "image" file and appends the referencing
// image message.
func (h *ChatHandler) SendImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	peerID, ok := h.peerID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "An image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILE", "Could not read image")
		return
	}

	msg, err := h.chatService.UploadAndSend(r.Context(), userID, peerID, data, service.BlobImage, header.Filename)
	if err != nil {
		var uploadErr *service.UploadError
		switch {
		case errors.As(err, &uploadErr):
			writeError(w, http.StatusBadGateway, "UPLOAD_FAILED", "Image upload failed, try again")
		case errors.Is(err, service.ErrCannotChatSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_CHAT_SELF", "You cannot chat with yourself")
		default:
			log.Error().Err(err).Msg("send image failed")
			writeError(w, http.StatusInternalServerError, "SEND_FAILED", "Error sending image")
		}
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// SendVoice uploads an already-recorded clip ("audio" file) and appends
// the voice message. Live recording goes through the WebSocket voice
// events instead.
func (h *ChatHandler) SendVoice(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	peerID, ok := h.peerID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "An audio file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILE", "Could not read audio")
		return
	}

	msg, err := h.chatService.UploadAndSend(r.Context(), userID, peerID, data, service.BlobAudio, "")
	if err != nil {
		var uploadErr *service.UploadError
		if errors.As(err, &uploadErr) {
			writeError(w, http.StatusBadGateway, "UPLOAD_FAILED", "Voice upload failed, try again")
		} else {
			log.Error().Err(err).Msg("send voice failed")
			writeError(w, http.StatusInternalServerError, "SEND_FAILED", "Error sending voice message")
		}
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) peerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	peerID, err := uuid.Parse(r.PathValue("peer"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid peer ID")
		return uuid.Nil, false
	}
	if peerID == middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusBadRequest, "CANNOT_CHAT_SELF", "You cannot chat with yourself")
		return uuid.Nil, false
	}
	return peerID, true
}
