package backend

import (
	"context"
	"sync"
	"time"

	"keepsafe/internal/client/models"
	"keepsafe/internal/common"

	"github.com/google/uuid"
)

// MemoryClient is an in-memory backend used in tests and offline demos. It
// mimics the server's confirm-on-upsert behavior: persisted rows get a fresh
// server id and authoritative timestamps.
type MemoryClient struct {
	mu        sync.Mutex
	entries   map[string][]models.Entry // userID -> rows, newest first
	reactions map[string][]models.Reaction
	comments  map[string][]models.Comment

	upsertErr error
	listErr   error

	now func() time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		entries:   make(map[string][]models.Entry),
		reactions: make(map[string][]models.Reaction),
		comments:  make(map[string][]models.Comment),
		now:       time.Now,
	}
}

// FailUpsertsWith makes UpsertEntry fail with err until reset with nil.
func (m *MemoryClient) FailUpsertsWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertErr = err
}

// FailListsWith makes ListEntries fail with err until reset with nil.
func (m *MemoryClient) FailListsWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func (m *MemoryClient) Ping(context.Context) error { return nil }

func (m *MemoryClient) UpsertEntry(_ context.Context, e models.Entry) (models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertErr != nil {
		return models.Entry{}, m.upsertErr
	}

	now := m.now().UTC()
	confirmed := e
	confirmed.ID = uuid.NewString()
	confirmed.Status = ""
	confirmed.Error = ""
	if confirmed.CreatedAt.IsZero() {
		confirmed.CreatedAt = now
	}
	confirmed.UpdatedAt = now

	m.entries[e.UserID] = append([]models.Entry{confirmed}, m.entries[e.UserID]...)
	return confirmed, nil
}

func (m *MemoryClient) ListEntries(_ context.Context, limit int) ([]models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	var out []models.Entry
	for _, rows := range m.entries {
		out = append(out, rows...)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryClient) PresignUpload(_ context.Context, key, _ string) (string, string, error) {
	return "https://storage.test/put/" + key, "https://storage.test/" + key, nil
}

// AddReaction seeds a reaction for tests.
func (m *MemoryClient) AddReaction(r models.Reaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.reactions[r.EntryID] = append(m.reactions[r.EntryID], r)
}

// AddComment seeds a comment for tests.
func (m *MemoryClient) AddComment(c models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.comments[c.EntryID] = append(m.comments[c.EntryID], c)
}

func (m *MemoryClient) ListReactions(_ context.Context, entryID string) ([]models.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.reactions[entryID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return items, nil
}

func (m *MemoryClient) ListComments(_ context.Context, entryID string) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.comments[entryID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return items, nil
}
