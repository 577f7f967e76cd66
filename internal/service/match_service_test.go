package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmitrev/amora/internal/domain"
)

func newMatchFixture(t *testing.T) (*MatchService, *fakeLikeRepo, *fakeMatchRepo, *fakeProfileRepo) {
	t.Helper()
	clock := newFakeClock()
	likes := newFakeLikeRepo(clock)
	matches := newFakeMatchRepo(clock)
	profiles := newFakeProfileRepo()
	svc := NewMatchService(likes, matches, profiles, zerolog.Nop())
	return svc, likes, matches, profiles
}

func TestSendLikeFirstLikeNoMatch(t *testing.T) {
	svc, likes, matches, profiles := newMatchFixture(t)
	u1 := uuid.New()
	u2 := uuid.New()
	profiles.add(u1, "ana")
	profiles.add(u2, "boris")

	outcome, err := svc.SendLike(context.Background(), u1, u2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeLikeSent, outcome)

	like, err := likes.Get(context.Background(), domain.LikeKey(u1.String(), u2.String()))
	require.NoError(t, err)
	require.NotNil(t, like)
	assert.Equal(t, u1, like.FromID)
	assert.Equal(t, u2, like.ToID)

	assert.Empty(t, matches.matches, "no match without reciprocity")
}

func TestSendLikeReciprocalCreatesMatch(t *testing.T) {
	svc, _, matches, profiles := newMatchFixture(t)
	notifier := &fakeMatchNotifier{}
	svc.SetNotifier(notifier)

	u1 := uuid.New()
	u2 := uuid.New()
	profiles.add(u1, "ana")
	profiles.add(u2, "boris")

	outcome, err := svc.SendLike(context.Background(), u2, u1)
	require.NoError(t, err)
	require.Equal(t, OutcomeLikeSent, outcome)

	outcome, err = svc.SendLike(context.Background(), u1, u2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, outcome)

	key := domain.ConversationKey(u1.String(), u2.String())
	match, err := matches.Get(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Less(t, match.User1ID.String(), match.User2ID.String())
	assert.Nil(t, match.LastMessageAt)

	require.Len(t, notifier.matches, 1)
	assert.Equal(t, key, notifier.matches[0].Key)
}

func TestSendLikeRepeatOverwritesWithoutDuplicates(t *testing.T) {
	svc, likes, matches, profiles := newMatchFixture(t)
	u1 := uuid.New()
	u2 := uuid.New()
	profiles.add(u1, "ana")
	profiles.add(u2, "boris")

	_, err := svc.SendLike(context.Background(), u1, u2)
	require.NoError(t, err)
	first, _ := likes.Get(context.Background(), domain.LikeKey(u1.String(), u2.String()))

	_, err = svc.SendLike(context.Background(), u1, u2)
	require.NoError(t, err)
	second, _ := likes.Get(context.Background(), domain.LikeKey(u1.String(), u2.String()))

	assert.Len(t, likes.likes, 1, "re-like keeps a single record")
	assert.True(t, second.CreatedAt.After(first.CreatedAt), "re-like refreshes the timestamp")

	// Complete the match, then like once more: still exactly one match.
	_, err = svc.SendLike(context.Background(), u2, u1)
	require.NoError(t, err)
	_, err = svc.SendLike(context.Background(), u1, u2)
	require.NoError(t, err)
	assert.Len(t, matches.matches, 1)
}

func TestSendLikeRejectsSelf(t *testing.T) {
	svc, _, _, profiles := newMatchFixture(t)
	u1 := uuid.New()
	profiles.add(u1, "ana")

	_, err := svc.SendLike(context.Background(), u1, u1)
	assert.ErrorIs(t, err, ErrCannotLikeSelf)
}

func TestSendLikeUnknownTarget(t *testing.T) {
	svc, _, _, profiles := newMatchFixture(t)
	u1 := uuid.New()
	profiles.add(u1, "ana")

	_, err := svc.SendLike(context.Background(), u1, uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSendLikeStoreFailureIsProtocolError(t *testing.T) {
	svc, likes, _, profiles := newMatchFixture(t)
	u1 := uuid.New()
	u2 := uuid.New()
	profiles.add(u1, "ana")
	profiles.add(u2, "boris")

	cause := errors.New("connection reset")
	likes.upsertErr = cause

	_, err := svc.SendLike(context.Background(), u1, u2)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.ErrorIs(t, err, cause)
}

func TestPassIsSessionLocal(t *testing.T) {
	svc, likes, matches, profiles := newMatchFixture(t)
	u1 := uuid.New()
	u2 := uuid.New()
	profiles.add(u1, "ana")
	profiles.add(u2, "boris")

	assert.Equal(t, DecisionUndecided, svc.DecisionFor(u1, u2))
	svc.Pass(u1, u2)
	assert.Equal(t, DecisionPassed, svc.DecisionFor(u1, u2))

	assert.Empty(t, likes.likes, "pass writes nothing")
	assert.Empty(t, matches.matches)

	// Passing is not terminal across revisits: a later like still works.
	outcome, err := svc.SendLike(context.Background(), u1, u2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeLikeSent, outcome)
	assert.Equal(t, DecisionLiked, svc.DecisionFor(u1, u2))
}

func TestListMatchesEmpty(t *testing.T) {
	svc, _, _, _ := newMatchFixture(t)

	matches, err := svc.ListMatches(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}
