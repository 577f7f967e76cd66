package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmitrev/amora/internal/domain"
	"github.com/vmitrev/amora/internal/repository"
)

// LikeOutcome is the result signalled back to the liking user.
type LikeOutcome string

const (
	OutcomeLikeSent LikeOutcome = "like_sent"
	OutcomeMatched  LikeOutcome = "matched"
)

// Decision is the viewer's session-local choice for a profile. Pass is
// never persisted, so revisiting a profile allows re-deciding.
type Decision string

const (
	DecisionUndecided Decision = "undecided"
	DecisionLiked     Decision = "liked"
	DecisionPassed    Decision = "passed"
)

// MatchNotifier pushes match events to connected users.
type MatchNotifier interface {
	NotifyMatch(match *domain.Match)
}

type MatchService struct {
	likeRepo    repository.LikeRepository
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	notifier    MatchNotifier
	log         zerolog.Logger

	mu        sync.Mutex
	decisions map[string]Decision
}

func NewMatchService(
	likeRepo repository.LikeRepository,
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	log zerolog.Logger,
) *MatchService {
	return &MatchService{
		likeRepo:    likeRepo,
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		log:         log,
		decisions:   make(map[string]Decision),
	}
}

func (s *MatchService) SetNotifier(n MatchNotifier) {
	s.notifier = n
}

// SendLike records a directional like and checks for reciprocity. The
// like is committed before the reciprocal read, so of two users liking
// each other concurrently the later reader always observes the earlier
// like; both may attempt the match write, which the idempotent insert
// absorbs.
func (s *MatchService) SendLike(ctx context.Context, fromID, toID uuid.UUID) (LikeOutcome, error) {
	if fromID == toID {
		return "", ErrCannotLikeSelf
	}

	target, err := s.profileRepo.GetByID(ctx, toID)
	if err != nil {
		return "", &ProtocolError{Op: "reading target profile", Err: err}
	}
	if target == nil {
		return "", ErrProfileNotFound
	}

	like := &domain.Like{
		Key:    domain.LikeKey(fromID.String(), toID.String()),
		FromID: fromID,
		ToID:   toID,
	}
	if err := s.likeRepo.Upsert(ctx, like); err != nil {
		return "", &ProtocolError{Op: "writing like", Err: err}
	}

	s.recordDecision(fromID, toID, DecisionLiked)

	reciprocal, err := s.likeRepo.Get(ctx, domain.LikeKey(toID.String(), fromID.String()))
	if err != nil {
		return "", &ProtocolError{Op: "checking reciprocal like", Err: err}
	}
	if reciprocal == nil {
		return OutcomeLikeSent, nil
	}

	match := domain.NewMatch(fromID, toID)
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return "", &ProtocolError{Op: "creating match", Err: err}
	}

	s.log.Info().Str("match", match.Key).Msg("match created")

	if s.notifier != nil {
		s.notifier.NotifyMatch(match)
	}

	return OutcomeMatched, nil
}

// Pass records a session-local pass. No store write happens and nothing
// prevents the viewer from coming back and liking later.
func (s *MatchService) Pass(viewerID, targetID uuid.UUID) {
	s.recordDecision(viewerID, targetID, DecisionPassed)
}

// DecisionFor returns the viewer's current session decision for a profile.
func (s *MatchService) DecisionFor(viewerID, targetID uuid.UUID) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.decisions[domain.LikeKey(viewerID.String(), targetID.String())]; ok {
		return d
	}
	return DecisionUndecided
}

// GetMatch returns the match for a pair, or nil when the pair never
// matched.
func (s *MatchService) GetMatch(ctx context.Context, a, b uuid.UUID) (*domain.Match, error) {
	return s.matchRepo.Get(ctx, domain.ConversationKey(a.String(), b.String()))
}

// ListMatches returns all matches for a user, newest first.
func (s *MatchService) ListMatches(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []domain.Match{}
	}
	return matches, nil
}

func (s *MatchService) recordDecision(viewerID, targetID uuid.UUID, d Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[domain.LikeKey(viewerID.String(), targetID.String())] = d
}
