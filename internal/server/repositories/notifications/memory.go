package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"keepsafe/internal/server/models"
)

// MemoryRepository is an in-memory Repository for tests.
type MemoryRepository struct {
	mu       sync.Mutex
	tokens   []*models.PushToken
	settings map[string]*models.NotificationSetting
	queue    []*models.Notification
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{settings: make(map[string]*models.NotificationSetting)}
}

func (r *MemoryRepository) UpsertPushToken(_ context.Context, token *models.PushToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.tokens {
		if existing.UserID == token.UserID && existing.Token == token.Token {
			existing.Platform = token.Platform
			return nil
		}
	}

	stored := *token
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	r.tokens = append(r.tokens, &stored)
	return nil
}

func (r *MemoryRepository) ListPushTokens(_ context.Context, userIDs []string) ([]*models.PushToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}

	var out []*models.PushToken
	for _, token := range r.tokens {
		if wanted[token.UserID] {
			copied := *token
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetSettings(_ context.Context, userIDs []string) (map[string]*models.NotificationSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*models.NotificationSetting)
	for _, id := range userIDs {
		if setting, ok := r.settings[id]; ok {
			copied := *setting
			out[id] = &copied
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpsertSettings(_ context.Context, setting *models.NotificationSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *setting
	stored.UpdatedAt = time.Now().UTC()
	r.settings[setting.UserID] = &stored
	return nil
}

func (r *MemoryRepository) Enqueue(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = uuid.NewString()
	n.Status = models.NotificationPending
	n.CreatedAt = time.Now().UTC()
	stored := *n
	r.queue = append(r.queue, &stored)
	return nil
}

func (r *MemoryRepository) ListPending(_ context.Context, limit int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Notification
	for _, n := range r.queue {
		if n.Status != models.NotificationPending {
			continue
		}
		copied := *n
		out = append(out, &copied)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepository) MarkDispatched(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	now := time.Now().UTC()
	for _, n := range r.queue {
		if wanted[n.ID] {
			n.Status = models.NotificationDispatched
			n.DispatchedAt = &now
		}
	}
	return nil
}
