package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmitrev/amora/internal/capture"
	"github.com/vmitrev/amora/internal/domain"
)

// VoiceService runs one voice recording session per user. Audio chunks
// are fed through a capture.Device (the WebSocket layer supplies one per
// recording); when the recording stops the finalized clip goes through
// ChatService.UploadAndSend as an audio message.
type VoiceService struct {
	chat *ChatService
	log  zerolog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*voiceSession
}

type voiceSession struct {
	recorder *capture.Recorder
	fromID   uuid.UUID
	toID     uuid.UUID
}

func NewVoiceService(chat *ChatService, log zerolog.Logger) *VoiceService {
	return &VoiceService{
		chat:     chat,
		log:      log,
		sessions: make(map[uuid.UUID]*voiceSession),
	}
}

// Start begins recording a voice note from fromID to toID. Starting while
// the user already has an active recording is a no-op. Device acquisition
// failure surfaces as capture.ErrDeviceUnavailable and leaves no session.
func (s *VoiceService) Start(ctx context.Context, fromID, toID uuid.UUID, device capture.Device) error {
	s.mu.Lock()
	if _, ok := s.sessions[fromID]; ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	sess := &voiceSession{
		recorder: capture.NewRecorder(device),
		fromID:   fromID,
		toID:     toID,
	}
	// The ceiling timeout finalizes the clip exactly as a manual stop
	// would; the session is torn down either way.
	sess.recorder.OnForcedStop(func(clip *capture.Clip, err error) {
		s.removeSession(fromID, sess)
		s.finish(context.Background(), sess, clip, err)
	})

	if err := sess.recorder.Start(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.sessions[fromID]; ok {
		// Lost a start race; discard the extra recorder.
		s.mu.Unlock()
		sess.recorder.Stop()
		return nil
	}
	s.sessions[fromID] = sess
	s.mu.Unlock()
	return nil
}

// Stop ends the user's active recording. With no active session it is a
// no-op returning (nil, nil). A recording under the minimum duration is
// discarded and reported as capture.ErrTooShort; otherwise the uploaded
// audio message is returned.
func (s *VoiceService) Stop(ctx context.Context, fromID uuid.UUID) (*domain.Message, error) {
	s.mu.Lock()
	sess, ok := s.sessions[fromID]
	if ok {
		delete(s.sessions, fromID)
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	clip, err := sess.recorder.Stop()
	return s.finish(ctx, sess, clip, err)
}

// Recording reports whether the user has an active voice session.
func (s *VoiceService) Recording(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}

func (s *VoiceService) finish(ctx context.Context, sess *voiceSession, clip *capture.Clip, err error) (*domain.Message, error) {
	if err != nil {
		return nil, err
	}
	if clip == nil {
		return nil, nil
	}

	msg, err := s.chat.UploadAndSend(ctx, sess.fromID, sess.toID, clip.Data, BlobAudio, "")
	if err != nil {
		s.log.Error().Err(err).Msg("sending voice message")
		return nil, err
	}
	return msg, nil
}

func (s *VoiceService) removeSession(userID uuid.UUID, sess *voiceSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[userID] == sess {
		delete(s.sessions, userID)
	}
}
