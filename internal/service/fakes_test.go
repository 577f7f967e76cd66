package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmitrev/amora/internal/domain"
)

// fakeClock hands out strictly increasing timestamps, standing in for the
// store-assigned write time.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile
	err      error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (r *fakeProfileRepo) add(id uuid.UUID, name string) *domain.Profile {
	p := &domain.Profile{ID: id, Name: name, Email: name + "@example.com"}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[id] = p
	return p
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[id], nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) List(ctx context.Context, excludeID uuid.UUID) ([]domain.Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Profile
	for _, p := range r.profiles {
		if p.ID != excludeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
	return nil
}

type fakeLikeRepo struct {
	mu        sync.Mutex
	likes     map[string]*domain.Like
	clock     *fakeClock
	upsertErr error
	getErr    error
}

func newFakeLikeRepo(clock *fakeClock) *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]*domain.Like), clock: clock}
}

func (r *fakeLikeRepo) Upsert(ctx context.Context, like *domain.Like) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	like.CreatedAt = r.clock.next()
	stored := *like
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes[like.Key] = &stored
	return nil
}

func (r *fakeLikeRepo) Get(ctx context.Context, key string) (*domain.Like, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likes[key], nil
}

type fakeMatchRepo struct {
	mu          sync.Mutex
	matches     map[string]*domain.Match
	clock       *fakeClock
	createCalls int
	createErr   error
}

func newFakeMatchRepo(clock *fakeClock) *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[string]*domain.Match), clock: clock}
}

func (r *fakeMatchRepo) Create(ctx context.Context, match *domain.Match) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if _, exists := r.matches[match.Key]; exists {
		return nil
	}
	match.CreatedAt = r.clock.next()
	stored := *match
	r.matches[match.Key] = &stored
	return nil
}

func (r *fakeMatchRepo) Get(ctx context.Context, key string) (*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matches[key], nil
}

func (r *fakeMatchRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Match
	for _, m := range r.matches {
		if m.User1ID == userID || m.User2ID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) TouchLastMessage(ctx context.Context, key string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.matches[key]; ok {
		m.LastMessageAt = &at
	}
	return nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []domain.Message
	clock     *fakeClock
	createErr error
}

func newFakeMessageRepo(clock *fakeClock) *fakeMessageRepo {
	return &fakeMessageRepo{clock: clock}
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	msg.CreatedAt = r.clock.next()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (s *fakeBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[key] = data
	return "https://blobs.test/" + key, nil
}

type fakeSnapshotNotifier struct {
	mu        sync.Mutex
	snapshots [][]domain.Message
}

func (n *fakeSnapshotNotifier) NotifySnapshot(conversationID string, messages []domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snapshots = append(n.snapshots, messages)
}

func (n *fakeSnapshotNotifier) all() [][]domain.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshots
}

type fakeMatchNotifier struct {
	mu      sync.Mutex
	matches []*domain.Match
}

func (n *fakeMatchNotifier) NotifyMatch(match *domain.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.matches = append(n.matches, match)
}
