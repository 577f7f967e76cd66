package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmitrev/amora/internal/domain"
	"github.com/vmitrev/amora/internal/repository"
	"github.com/vmitrev/amora/internal/storage"
)

// SnapshotNotifier delivers the full current ordered message list of a
// conversation on every update. Consumers re-render idempotently.
type SnapshotNotifier interface {
	NotifySnapshot(conversationID string, messages []domain.Message)
}

// BlobKind selects the blob path layout and the message type produced by
// UploadAndSend.
type BlobKind string

const (
	BlobImage BlobKind = "image"
	BlobAudio BlobKind = "audio"
)

type ChatService struct {
	messageRepo repository.MessageRepository
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	blobs       storage.BlobStore
	notifier    SnapshotNotifier
	log         zerolog.Logger
	now         func() time.Time
}

func NewChatService(
	messageRepo repository.MessageRepository,
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	blobs storage.BlobStore,
	log zerolog.Logger,
) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		blobs:       blobs,
		log:         log,
		now:         time.Now,
	}
}

func (s *ChatService) SetNotifier(n SnapshotNotifier) {
	s.notifier = n
}

// ConversationID returns the canonical conversation key for two users.
func (s *ChatService) ConversationID(a, b uuid.UUID) string {
	return domain.ConversationKey(a.String(), b.String())
}

// SendText appends a text message. A blank or whitespace-only body is a
// silent no-op: nothing is written and (nil, nil) is returned.
func (s *ChatService) SendText(ctx context.Context, fromID, toID uuid.UUID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	return s.append(ctx, fromID, toID, domain.MessageText, body, "", "")
}

// SendImage appends an image message referencing an already-uploaded blob.
func (s *ChatService) SendImage(ctx context.Context, fromID, toID uuid.UUID, caption, imageURL string) (*domain.Message, error) {
	return s.append(ctx, fromID, toID, domain.MessageImage, caption, imageURL, "")
}

// SendAudio appends a voice message referencing an already-uploaded blob.
func (s *ChatService) SendAudio(ctx context.Context, fromID, toID uuid.UUID, audioURL string) (*domain.Message, error) {
	return s.append(ctx, fromID, toID, domain.MessageAudio, "", "", audioURL)
}

// UploadAndSend uploads the raw payload to the blob store and then appends
// the referencing message. A failed upload aborts before any append, so no
// message can point at a missing blob.
func (s *ChatService) UploadAndSend(ctx context.Context, fromID, toID uuid.UUID, data []byte, kind BlobKind, filename string) (*domain.Message, error) {
	convID := s.ConversationID(fromID, toID)

	var path, contentType string
	switch kind {
	case BlobImage:
		path = fmt.Sprintf("chatImages/%s/%d_%s", convID, s.now().UnixMilli(), sanitizeFilename(filename))
		contentType = "image/jpeg"
	case BlobAudio:
		path = fmt.Sprintf("voiceMessages/%s/voice_%d.webm", convID, s.now().UnixMilli())
		contentType = "audio/webm"
	default:
		return nil, fmt.Errorf("unknown blob kind %q", kind)
	}

	url, err := s.blobs.Upload(ctx, path, data, contentType)
	if err != nil {
		return nil, &UploadError{Path: path, Err: err}
	}

	if kind == BlobAudio {
		return s.SendAudio(ctx, fromID, toID, url)
	}
	return s.SendImage(ctx, fromID, toID, "", url)
}

// ListMessages returns the full conversation history in createdAt order.
func (s *ChatService) ListMessages(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error) {
	messages, err := s.messageRepo.ListByConversation(ctx, s.ConversationID(a, b))
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// Peer validates and returns the other participant's profile.
func (s *ChatService) Peer(ctx context.Context, peerID uuid.UUID) (*domain.Profile, error) {
	peer, err := s.profileRepo.GetByID(ctx, peerID)
	if err != nil {
		return nil, err
	}
	if peer == nil {
		return nil, ErrProfileNotFound
	}
	return peer, nil
}

func (s *ChatService) append(ctx context.Context, fromID, toID uuid.UUID, typ domain.MessageType, text, imageURL, audioURL string) (*domain.Message, error) {
	if fromID == toID {
		return nil, ErrCannotChatSelf
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: s.ConversationID(fromID, toID),
		FromID:         fromID,
		ToID:           toID,
		Type:           typ,
		Text:           text,
		ImageURL:       imageURL,
		AudioURL:       audioURL,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}

	// Keep the match's activity timestamp current. The conversation may
	// predate the match (chat is not gated on matching), so a missing
	// match row is fine.
	if err := s.matchRepo.TouchLastMessage(ctx, msg.ConversationID, msg.CreatedAt); err != nil {
		s.log.Warn().Err(err).Str("conversation", msg.ConversationID).Msg("updating match activity")
	}

	s.publishSnapshot(ctx, msg.ConversationID)

	return msg, nil
}

func (s *ChatService) publishSnapshot(ctx context.Context, conversationID string) {
	if s.notifier == nil {
		return
	}
	messages, err := s.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		s.log.Error().Err(err).Str("conversation", conversationID).Msg("loading snapshot")
		return
	}
	s.notifier.NotifySnapshot(conversationID, messages)
}

func sanitizeFilename(name string) string {
	if name == "" {
		return "upload"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
