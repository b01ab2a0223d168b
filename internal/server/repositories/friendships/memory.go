package friendships

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"keepsafe/internal/server/models"
)

// MemoryRepository is an in-memory Repository for tests.
type MemoryRepository struct {
	mu        sync.Mutex
	relations []*models.Friendship
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, userID, friendID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pair := range [][2]string{{userID, friendID}, {friendID, userID}} {
		if r.has(pair[0], pair[1]) {
			continue
		}
		r.relations = append(r.relations, &models.Friendship{
			ID:        uuid.NewString(),
			UserID:    pair[0],
			FriendID:  pair[1],
			CreatedAt: time.Now().UTC(),
		})
	}
	return nil
}

func (r *MemoryRepository) has(userID, friendID string) bool {
	for _, f := range r.relations {
		if f.UserID == userID && f.FriendID == friendID {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) ListFriendIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, f := range r.relations {
		if f.UserID == userID {
			out = append(out, f.FriendID)
		}
	}
	return out, nil
}

func (r *MemoryRepository) List(_ context.Context, userID string) ([]*models.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Friendship
	for _, f := range r.relations {
		if f.UserID == userID {
			copied := *f
			out = append(out, &copied)
		}
	}
	return out, nil
}
