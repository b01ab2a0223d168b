package social

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
	reactions []*models.Reaction
	comments  []*models.Comment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) UpsertReaction(_ context.Context, reaction *models.Reaction) (*models.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reactions {
		if existing.EntryID == reaction.EntryID && existing.UserID == reaction.UserID {
			existing.Type = reaction.Type
			existing.CreatedAt = time.Now().UTC()
			copied := *existing
			return &copied, nil
		}
	}

	stored := *reaction
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	r.reactions = append(r.reactions, &stored)
	copied := stored
	return &copied, nil
}

func (r *MemoryRepository) ListReactions(_ context.Context, entryID string) ([]*models.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Reaction
	for _, reaction := range r.reactions {
		if reaction.EntryID == entryID {
			copied := *reaction
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *MemoryRepository) CreateComment(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *comment
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.comments = append(r.comments, &stored)
	copied := stored
	return &copied, nil
}

func (r *MemoryRepository) ListComments(_ context.Context, entryID string) ([]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Comment
	for _, comment := range r.comments {
		if comment.EntryID == entryID {
			copied := *comment
			out = append(out, &copied)
		}
	}
	return out, nil
}
