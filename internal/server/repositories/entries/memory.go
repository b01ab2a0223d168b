package entries

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"keepsafe/internal/common"
	"keepsafe/internal/server/models"
)

// MemoryRepository is an in-memory Repository for tests. The everyone flag
// is resolved against the friend set registered via SetFriends.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []*models.Entry
	friends map[string]map[string]bool
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		friends: make(map[string]map[string]bool),
		now:     time.Now,
	}
}

// SetFriends registers viewerID as a friend of each owner in owners.
func (r *MemoryRepository) SetFriends(viewerID string, owners ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, owner := range owners {
		if r.friends[owner] == nil {
			r.friends[owner] = make(map[string]bool)
		}
		r.friends[owner][viewerID] = true
	}
}

func (r *MemoryRepository) Create(_ context.Context, entry *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := *entry
	e.ID = uuid.NewString()
	now := r.now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	r.entries = append(r.entries, &e)
	copied := e
	return &copied, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) ListVisible(_ context.Context, userID string, limit int) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Entry
	for _, e := range r.entries {
		if !r.visible(e, userID) {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) visible(e *models.Entry, userID string) bool {
	if e.UserID == userID {
		return true
	}
	if e.IsPrivate {
		return false
	}
	for _, id := range e.SharedWith {
		if id == userID {
			return true
		}
	}
	return e.SharedWithEveryone && r.friends[e.UserID][userID]
}
