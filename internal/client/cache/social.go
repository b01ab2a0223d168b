package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"keepsafe/internal/client/models"
	"keepsafe/internal/common"
)

// Reactions and comments are cached with a TTL: they change under other
// users' hands, so a stale copy is only served for a bounded window.

type expiringRecord struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Items     json.RawMessage `json:"items"`
}

// Reactions returns the cached reactions for an entry and whether the cache
// held a fresh copy. An expired or missing record is a miss.
func (c *EntryCache) Reactions(ctx context.Context, entryID string) ([]models.Reaction, bool) {
	var items []models.Reaction
	if !c.getExpiring(ctx, reactionsKeyPrefix+entryID, &items) {
		return nil, false
	}
	return items, true
}

// SetReactions caches reactions for an entry with the social TTL.
func (c *EntryCache) SetReactions(ctx context.Context, entryID string, items []models.Reaction) {
	c.setExpiring(ctx, reactionsKeyPrefix+entryID, items)
}

// Comments returns the cached comments for an entry and whether the cache
// held a fresh copy.
func (c *EntryCache) Comments(ctx context.Context, entryID string) ([]models.Comment, bool) {
	var items []models.Comment
	if !c.getExpiring(ctx, commentsKeyPrefix+entryID, &items) {
		return nil, false
	}
	return items, true
}

// SetComments caches comments for an entry with the social TTL.
func (c *EntryCache) SetComments(ctx context.Context, entryID string, items []models.Comment) {
	c.setExpiring(ctx, commentsKeyPrefix+entryID, items)
}

func (c *EntryCache) getExpiring(ctx context.Context, key string, v any) bool {
	raw, err := c.store.GetItem(ctx, key)
	if err != nil {
		c.log.Warn(ctx, "social cache read failed", "key", key, "error", fmt.Errorf("%w: %w", common.ErrCacheIO, err))
		return false
	}
	if raw == nil {
		return false
	}

	var rec expiringRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		c.log.Warn(ctx, "social cache corrupt, ignoring", "key", key, "error", err)
		return false
	}
	if c.now().After(rec.ExpiresAt) {
		return false
	}
	if err := json.Unmarshal(rec.Items, v); err != nil {
		c.log.Warn(ctx, "social cache corrupt, ignoring", "key", key, "error", err)
		return false
	}
	return true
}

func (c *EntryCache) setExpiring(ctx context.Context, key string, items any) {
	itemsRaw, err := json.Marshal(items)
	if err != nil {
		c.log.Warn(ctx, "social cache encode failed", "key", key, "error", err)
		return
	}
	raw, err := json.Marshal(expiringRecord{
		ExpiresAt: c.now().Add(c.socialTTL),
		Items:     itemsRaw,
	})
	if err != nil {
		c.log.Warn(ctx, "social cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.store.SetItem(ctx, key, raw); err != nil {
		c.log.Warn(ctx, "social cache write failed", "key", key, "error", fmt.Errorf("%w: %w", common.ErrCacheIO, err))
	}
}
